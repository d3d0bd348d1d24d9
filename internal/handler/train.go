package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vkorchik/train-station-api/internal/model"
	"github.com/vkorchik/train-station-api/internal/repository"
)

// TrainHandler serves CRUD for trains.
type TrainHandler struct {
	Trains *repository.TrainRepo
}

func NewTrainHandler(t *repository.TrainRepo) *TrainHandler {
	return &TrainHandler{Trains: t}
}

type trainReq struct {
	Name          string `json:"name"`
	CargoCount    uint32 `json:"cargo_count"`
	SeatsPerCargo uint32 `json:"seats_per_cargo"`
	TrainTypeID   uint64 `json:"train_type"`
}

// trainView includes the joined type name and the derived capacity.
type trainView struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	CargoCount    uint32    `json:"cargo_count"`
	SeatsPerCargo uint32    `json:"seats_per_cargo"`
	Capacity      uint32    `json:"capacity"`
	TrainTypeID   uint64    `json:"train_type"`
	TrainTypeName string    `json:"train_type_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toTrainView(t model.Train, typeName string) trainView {
	return trainView{
		ID:            t.ID,
		Name:          t.Name,
		CargoCount:    t.CargoCount,
		SeatsPerCargo: t.SeatsPerCargo,
		Capacity:      t.Capacity(),
		TrainTypeID:   t.TrainTypeID,
		TrainTypeName: typeName,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (r trainReq) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name required"
	}
	if r.CargoCount < 1 {
		return "cargo_count must be at least 1"
	}
	if r.SeatsPerCargo < 1 {
		return "seats_per_cargo must be at least 1"
	}
	if r.TrainTypeID == 0 {
		return "train_type required"
	}
	return ""
}

func (h *TrainHandler) Create(c echo.Context) error {
	var req trainReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t := model.Train{
		Name:          strings.TrimSpace(req.Name),
		CargoCount:    req.CargoCount,
		SeatsPerCargo: req.SeatsPerCargo,
		TrainTypeID:   req.TrainTypeID,
	}
	if err := h.Trains.Create(ctx, &t); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusCreated, toTrainView(t, ""))
}

func (h *TrainHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Trains.List(ctx)
	if err != nil {
		return writeRepoErr(c, err)
	}
	out := make([]trainView, 0, len(items))
	for _, row := range items {
		out = append(out, toTrainView(row.Train, row.TrainTypeName))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TrainHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	row, err := h.Trains.GetByID(ctx, id)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, toTrainView(row.Train, row.TrainTypeName))
}

func (h *TrainHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req trainReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t := model.Train{
		ID:            id,
		Name:          strings.TrimSpace(req.Name),
		CargoCount:    req.CargoCount,
		SeatsPerCargo: req.SeatsPerCargo,
		TrainTypeID:   req.TrainTypeID,
	}
	if err := h.Trains.Update(ctx, &t); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, toTrainView(t, ""))
}

func (h *TrainHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Trains.Delete(ctx, id); err != nil {
		return writeRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
