package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vkorchik/train-station-api/internal/model"
	"github.com/vkorchik/train-station-api/internal/repository"
)

// CrewHandler serves CRUD for crew members.
type CrewHandler struct {
	Crews *repository.CrewRepo
}

func NewCrewHandler(cr *repository.CrewRepo) *CrewHandler {
	return &CrewHandler{Crews: cr}
}

type crewReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type crewView struct {
	ID        uint64    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCrewView(cr model.Crew) crewView {
	return crewView{
		ID:        cr.ID,
		FirstName: cr.FirstName,
		LastName:  cr.LastName,
		FullName:  cr.FullName(),
		CreatedAt: cr.CreatedAt,
		UpdatedAt: cr.UpdatedAt,
	}
}

func (h *CrewHandler) Create(c echo.Context) error {
	var req crewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name and last_name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cr := model.Crew{FirstName: req.FirstName, LastName: req.LastName}
	if err := h.Crews.Create(ctx, &cr); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusCreated, toCrewView(cr))
}

func (h *CrewHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Crews.List(ctx)
	if err != nil {
		return writeRepoErr(c, err)
	}
	out := make([]crewView, 0, len(items))
	for _, cr := range items {
		out = append(out, toCrewView(cr))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CrewHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cr, err := h.Crews.GetByID(ctx, id)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, toCrewView(*cr))
}

func (h *CrewHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req crewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name and last_name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cr := model.Crew{ID: id, FirstName: req.FirstName, LastName: req.LastName}
	if err := h.Crews.Update(ctx, &cr); err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, toCrewView(cr))
}

func (h *CrewHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Crews.Delete(ctx, id); err != nil {
		return writeRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
