package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vkorchik/train-station-api/internal/model"
	"github.com/vkorchik/train-station-api/internal/repository"
)

// TripHandler serves trip search, detail and admin CRUD. The list view
// carries the derived tickets_available count; the detail view adds
// crew names and the seats already sold.
type TripHandler struct {
	Trips *repository.TripRepo
}

func NewTripHandler(t *repository.TripRepo) *TripHandler {
	return &TripHandler{Trips: t}
}

type tripReq struct {
	RouteID       uint64    `json:"route"`
	TrainID       uint64    `json:"train"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	CrewIDs       []uint64  `json:"crews"`
}

type tripListView struct {
	ID               uint64    `json:"id"`
	RouteSource      string    `json:"route_source"`
	RouteDestination string    `json:"route_destination"`
	TrainName        string    `json:"train_name"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	TicketsAvailable int64     `json:"tickets_available"`
}

type tripDetailView struct {
	ID            uint64               `json:"id"`
	Route         routeView            `json:"route"`
	Train         trainView            `json:"train"`
	Crews         []string             `json:"crews"`
	DepartureTime time.Time            `json:"departure_time"`
	ArrivalTime   time.Time            `json:"arrival_time"`
	TakenSeats    []repository.SeatRef `json:"taken_seats"`
}

type tripView struct {
	ID            uint64    `json:"id"`
	RouteID       uint64    `json:"route"`
	TrainID       uint64    `json:"train"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	CrewIDs       []uint64  `json:"crews"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toTripView(t model.Trip) tripView {
	crews := t.CrewIDs
	if crews == nil {
		crews = []uint64{}
	}
	return tripView{
		ID:            t.ID,
		RouteID:       t.RouteID,
		TrainID:       t.TrainID,
		DepartureTime: t.DepartureTime,
		ArrivalTime:   t.ArrivalTime,
		CrewIDs:       crews,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (r tripReq) validate() string {
	if r.RouteID == 0 {
		return "route required"
	}
	if r.TrainID == 0 {
		return "train required"
	}
	if r.DepartureTime.IsZero() || r.ArrivalTime.IsZero() {
		return "departure_time and arrival_time required"
	}
	if !r.ArrivalTime.After(r.DepartureTime) {
		return "arrival_time must be after departure_time"
	}
	return ""
}

// parseSearchQuery reads the list filters from the URL. Date filters
// must be calendar dates in YYYY-MM-DD form.
func parseSearchQuery(c echo.Context) (repository.TripSearchQuery, string) {
	q := repository.TripSearchQuery{
		Source:        c.QueryParam("source"),
		Destination:   c.QueryParam("destination"),
		DepartureDate: c.QueryParam("departure_time"),
		ArrivalDate:   c.QueryParam("arrival_time"),
	}
	for _, d := range []string{q.DepartureDate, q.ArrivalDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return q, "dates must be in YYYY-MM-DD form"
		}
	}
	return q, ""
}

// List returns trips matching the query filters, with seat
// availability, newest departure first.
func (h *TripHandler) List(c echo.Context) error {
	q, msg := parseSearchQuery(c)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Trips.Search(ctx, q)
	if err != nil {
		return writeRepoErr(c, err)
	}
	out := make([]tripListView, 0, len(rows))
	for _, row := range rows {
		out = append(out, tripListView{
			ID:               row.ID,
			RouteSource:      row.RouteSource,
			RouteDestination: row.RouteDestination,
			TrainName:        row.TrainName,
			DepartureTime:    row.DepartureTime,
			ArrivalTime:      row.ArrivalTime,
			TicketsAvailable: row.TicketsAvailable,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TripHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	det, err := h.Trips.GetDetail(ctx, id)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, tripDetailView{
		ID: det.ID,
		Route: routeView{
			ID:          det.Route.ID,
			Source:      det.Route.SourceName,
			Destination: det.Route.DestinationName,
			DistanceKM:  det.Route.DistanceKM,
			CreatedAt:   det.Route.CreatedAt,
			UpdatedAt:   det.Route.UpdatedAt,
		},
		Train:         toTrainView(det.Train.Train, det.Train.TrainTypeName),
		Crews:         det.CrewNames,
		DepartureTime: det.DepartureTime,
		ArrivalTime:   det.ArrivalTime,
		TakenSeats:    det.TakenSeats,
	})
}

func (h *TripHandler) Create(c echo.Context) error {
	var req tripReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t := model.Trip{
		RouteID:       req.RouteID,
		TrainID:       req.TrainID,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		CrewIDs:       req.CrewIDs,
	}
	if err := h.Trips.Create(ctx, &t); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusCreated, toTripView(t))
}

func (h *TripHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req tripReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t := model.Trip{
		ID:            id,
		RouteID:       req.RouteID,
		TrainID:       req.TrainID,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		CrewIDs:       req.CrewIDs,
	}
	if err := h.Trips.Update(ctx, &t); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, toTripView(t))
}

func (h *TripHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Trips.Delete(ctx, id); err != nil {
		return writeRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
