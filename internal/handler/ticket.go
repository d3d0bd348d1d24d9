package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vkorchik/train-station-api/internal/model"
	"github.com/vkorchik/train-station-api/internal/repository"
)

// TicketHandler exposes the raw ticket table to administrators.
// Customers never touch tickets directly; they go through orders.
type TicketHandler struct {
	Tickets *repository.TicketRepo
}

func NewTicketHandler(t *repository.TicketRepo) *TicketHandler {
	return &TicketHandler{Tickets: t}
}

type ticketView struct {
	ID        uint64    `json:"id"`
	TripID    uint64    `json:"trip"`
	OrderID   uint64    `json:"order"`
	Cargo     uint32    `json:"cargo"`
	Seat      uint32    `json:"seat"`
	CreatedAt time.Time `json:"created_at"`
}

func toTicketView(t model.Ticket) ticketView {
	return ticketView{
		ID:        t.ID,
		TripID:    t.TripID,
		OrderID:   t.OrderID,
		Cargo:     t.Cargo,
		Seat:      t.Seat,
		CreatedAt: t.CreatedAt,
	}
}

func (h *TicketHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Tickets.List(ctx)
	if err != nil {
		return writeRepoErr(c, err)
	}
	out := make([]ticketView, 0, len(items))
	for _, t := range items {
		out = append(out, toTicketView(t))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TicketHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Tickets.GetByID(ctx, id)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, toTicketView(*t))
}

func (h *TicketHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Tickets.Delete(ctx, id); err != nil {
		return writeRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
