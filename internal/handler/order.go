package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vkorchik/train-station-api/internal/queue"
	"github.com/vkorchik/train-station-api/internal/repository"
	"github.com/vkorchik/train-station-api/internal/service"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// OrderHandler serves order placement and the user-scoped order
// listing. A user only ever sees their own orders.
type OrderHandler struct {
	Orders  *repository.OrderRepo
	Booking *service.BookingService
}

func NewOrderHandler(o *repository.OrderRepo, b *service.BookingService) *OrderHandler {
	return &OrderHandler{Orders: o, Booking: b}
}

type createOrderReq struct {
	Tickets []service.TicketRequest `json:"tickets"`
}

type orderTicketView struct {
	ID     uint64 `json:"id"`
	TripID uint64 `json:"trip"`
	Cargo  uint32 `json:"cargo"`
	Seat   uint32 `json:"seat"`
}

type orderView struct {
	ID        uint64            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Tickets   []orderTicketView `json:"tickets"`
}

// orderPage is the paginated listing envelope.
type orderPage struct {
	Count    int64                    `json:"count"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"page_size"`
	Results  []repository.OrderDetail `json:"results"`
}

// pageParams reads page/page_size query parameters, clamping the size
// to [1, 100] and defaulting to page 1 of 10.
func pageParams(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = defaultPageSize
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 {
		pageSize = v
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}
	return page, pageSize
}

// Create places an order for the authenticated user. All tickets
// commit or none do. The placed-order event is published best effort
// after commit; a broker outage never fails the request.
func (h *OrderHandler) Create(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	placed, err := h.Booking.PlaceOrder(ctx, uid, req.Tickets)
	if err != nil {
		return writeRepoErr(c, err)
	}

	ev := queue.OrderPlacedEvent{
		OrderID:  placed.ID,
		UserID:   placed.UserID,
		PlacedAt: placed.CreatedAt.Format(time.RFC3339),
	}
	for _, t := range placed.Tickets {
		ev.Tickets = append(ev.Tickets, queue.SeatEntry{TripID: t.TripID, Cargo: t.Cargo, Seat: t.Seat})
	}
	_ = service.PublishOrderPlaced(ctx, ev)

	tickets := make([]orderTicketView, 0, len(placed.Tickets))
	for _, t := range placed.Tickets {
		tickets = append(tickets, orderTicketView{ID: t.ID, TripID: t.TripID, Cargo: t.Cargo, Seat: t.Seat})
	}
	return c.JSON(http.StatusCreated, orderView{
		ID:        placed.ID,
		CreatedAt: placed.CreatedAt,
		Tickets:   tickets,
	})
}

// List returns one page of the authenticated user's orders, newest
// first.
func (h *OrderHandler) List(c echo.Context) error {
	uid, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, pageSize := pageParams(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	details, total, err := h.Orders.ListByUser(ctx, uid, page, pageSize)
	if err != nil {
		return writeRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, orderPage{
		Count:    total,
		Page:     page,
		PageSize: pageSize,
		Results:  details,
	})
}
