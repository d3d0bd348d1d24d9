package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vkorchik/train-station-api/internal/model"
	"github.com/vkorchik/train-station-api/internal/repository"
)

// RouteHandler serves CRUD for routes. A route must connect two
// distinct stations; the check runs before any database work.
type RouteHandler struct {
	Routes *repository.RouteRepo
}

func NewRouteHandler(r *repository.RouteRepo) *RouteHandler {
	return &RouteHandler{Routes: r}
}

type routeReq struct {
	Source      uint64 `json:"source"`
	Destination uint64 `json:"destination"`
	DistanceKM  uint32 `json:"distance"`
}

// routeView is the list entry: endpoints by name.
type routeView struct {
	ID          uint64    `json:"id"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	DistanceKM  uint32    `json:"distance"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// routeStationView is a station inside the route detail, with the
// combined coordinate string.
type routeStationView struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Coordinates string  `json:"coordinates"`
}

// routeDetailView embeds both endpoint stations in full.
type routeDetailView struct {
	ID          uint64           `json:"id"`
	Source      routeStationView `json:"source"`
	Destination routeStationView `json:"destination"`
	DistanceKM  uint32           `json:"distance"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func toRouteStationView(s model.Station) routeStationView {
	return routeStationView{
		ID:          s.ID,
		Name:        s.Name,
		Latitude:    s.Latitude,
		Longitude:   s.Longitude,
		Coordinates: s.Coordinates(),
	}
}

func (r routeReq) validate() string {
	if r.Source == 0 || r.Destination == 0 {
		return "source and destination required"
	}
	if r.Source == r.Destination {
		return "source and destination must differ"
	}
	if r.DistanceKM < 1 {
		return "distance must be at least 1"
	}
	return ""
}

func (h *RouteHandler) Create(c echo.Context) error {
	var req routeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rt := model.Route{
		SourceStationID:      req.Source,
		DestinationStationID: req.Destination,
		DistanceKM:           req.DistanceKM,
	}
	if err := h.Routes.Create(ctx, &rt); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":          rt.ID,
		"source":      rt.SourceStationID,
		"destination": rt.DestinationStationID,
		"distance":    rt.DistanceKM,
		"created_at":  rt.CreatedAt,
		"updated_at":  rt.UpdatedAt,
	})
}

func (h *RouteHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Routes.List(ctx)
	if err != nil {
		return writeRepoErr(c, err)
	}
	out := make([]routeView, 0, len(items))
	for _, row := range items {
		out = append(out, routeView{
			ID:          row.ID,
			Source:      row.SourceName,
			Destination: row.DestinationName,
			DistanceKM:  row.DistanceKM,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RouteHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	det, err := h.Routes.GetDetail(ctx, id)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, routeDetailView{
		ID:          det.ID,
		Source:      toRouteStationView(det.Source),
		Destination: toRouteStationView(det.Destination),
		DistanceKM:  det.DistanceKM,
		CreatedAt:   det.CreatedAt,
		UpdatedAt:   det.UpdatedAt,
	})
}

func (h *RouteHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req routeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rt := model.Route{
		ID:                   id,
		SourceStationID:      req.Source,
		DestinationStationID: req.Destination,
		DistanceKM:           req.DistanceKM,
	}
	if err := h.Routes.Update(ctx, &rt); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":          rt.ID,
		"source":      rt.SourceStationID,
		"destination": rt.DestinationStationID,
		"distance":    rt.DistanceKM,
		"created_at":  rt.CreatedAt,
		"updated_at":  rt.UpdatedAt,
	})
}

func (h *RouteHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Routes.Delete(ctx, id); err != nil {
		return writeRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
