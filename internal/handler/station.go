package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vkorchik/train-station-api/internal/model"
	"github.com/vkorchik/train-station-api/internal/repository"
)

// StationHandler serves CRUD for stations. Coordinate bounds are
// checked here, before any database work.
type StationHandler struct {
	Stations *repository.StationRepo
}

func NewStationHandler(s *repository.StationRepo) *StationHandler {
	return &StationHandler{Stations: s}
}

type stationReq struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type stationView struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toStationView(s model.Station) stationView {
	return stationView{
		ID:        s.ID,
		Name:      s.Name,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (r stationReq) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name required"
	}
	if r.Latitude < -90 || r.Latitude > 90 {
		return "latitude must be within [-90, 90]"
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return "longitude must be within [-180, 180]"
	}
	return ""
}

func (h *StationHandler) Create(c echo.Context) error {
	var req stationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s := model.Station{
		Name:      strings.TrimSpace(req.Name),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := h.Stations.Create(ctx, &s); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusCreated, toStationView(s))
}

func (h *StationHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Stations.List(ctx)
	if err != nil {
		return writeRepoErr(c, err)
	}
	out := make([]stationView, 0, len(items))
	for _, s := range items {
		out = append(out, toStationView(s))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StationHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Stations.GetByID(ctx, id)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, toStationView(*s))
}

func (h *StationHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req stationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s := model.Station{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := h.Stations.Update(ctx, &s); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, toStationView(s))
}

func (h *StationHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Stations.Delete(ctx, id); err != nil {
		return writeRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
