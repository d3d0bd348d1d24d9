package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vkorchik/train-station-api/internal/model"
	"github.com/vkorchik/train-station-api/internal/repository"
)

// TrainTypeHandler serves CRUD for train types. Mutations are wired
// behind the ADMIN role by the router.
type TrainTypeHandler struct {
	Types *repository.TrainTypeRepo
}

func NewTrainTypeHandler(t *repository.TrainTypeRepo) *TrainTypeHandler {
	return &TrainTypeHandler{Types: t}
}

type trainTypeReq struct {
	Name string `json:"name"`
}

type trainTypeView struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toTrainTypeView(tt model.TrainType) trainTypeView {
	return trainTypeView{ID: tt.ID, Name: tt.Name, CreatedAt: tt.CreatedAt, UpdatedAt: tt.UpdatedAt}
}

func (h *TrainTypeHandler) Create(c echo.Context) error {
	var req trainTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	tt := model.TrainType{Name: req.Name}
	if err := h.Types.Create(ctx, &tt); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusCreated, toTrainTypeView(tt))
}

func (h *TrainTypeHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Types.List(ctx)
	if err != nil {
		return writeRepoErr(c, err)
	}
	out := make([]trainTypeView, 0, len(items))
	for _, tt := range items {
		out = append(out, toTrainTypeView(tt))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TrainTypeHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	tt, err := h.Types.GetByID(ctx, id)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, toTrainTypeView(*tt))
}

func (h *TrainTypeHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req trainTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	tt := model.TrainType{ID: id, Name: req.Name}
	if err := h.Types.Update(ctx, &tt); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, toTrainTypeView(tt))
}

func (h *TrainTypeHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Types.Delete(ctx, id); err != nil {
		return writeRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
