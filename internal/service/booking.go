// Package service implements the order placement flow: per-ticket
// validation against the assigned train's dimensions and the already
// sold seats, followed by an all-or-nothing commit of the order and
// its tickets.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vkorchik/train-station-api/internal/model"
	"github.com/vkorchik/train-station-api/internal/repository"
)

// ErrEmptyOrder rejects order placement with no tickets.
var ErrEmptyOrder = errors.New("an order must contain at least one ticket")

// OutOfRangeError reports a cargo or seat index outside the physical
// bounds of the trip's train. The message names the valid bound.
type OutOfRangeError struct {
	Field string // "cargo" or "seat"
	Value uint32
	Max   uint32
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s must be within [1, %d], got %d", e.Field, e.Max, e.Value)
}

// TicketRequest is one requested seat inside an order.
type TicketRequest struct {
	TripID uint64 `json:"trip"`
	Cargo  uint32 `json:"cargo"`
	Seat   uint32 `json:"seat"`
}

// PlacedOrder is the committed order returned to the caller, tickets
// in request order.
type PlacedOrder struct {
	ID        uint64
	UserID    uint64
	CreatedAt time.Time
	Tickets   []model.Ticket
}

// BookingService validates ticket requests and persists orders
// atomically. The seat uniqueness pre-check runs inside the placement
// transaction; the UNIQUE key on tickets remains the final arbiter
// when two orders race for the same seat.
type BookingService struct {
	orders  *repository.OrderRepo
	trips   *repository.TripRepo
	tickets *repository.TicketRepo
}

func NewBookingService(orders *repository.OrderRepo, trips *repository.TripRepo, tickets *repository.TicketRepo) *BookingService {
	if orders == nil || trips == nil || tickets == nil {
		panic("nil repository passed to NewBookingService")
	}
	return &BookingService{orders: orders, trips: trips, tickets: tickets}
}

// validateSeat checks a candidate (cargo, seat) pair against the
// train's dimensions. Bounds are checked cargo-first, fail-fast, so
// the first violated rule determines the reported error.
func validateSeat(cargo, seat, cargoCount, seatsPerCargo uint32) error {
	if cargo < 1 || cargo > cargoCount {
		return &OutOfRangeError{Field: "cargo", Value: cargo, Max: cargoCount}
	}
	if seat < 1 || seat > seatsPerCargo {
		return &OutOfRangeError{Field: "seat", Value: seat, Max: seatsPerCargo}
	}
	return nil
}

// PlaceOrder commits an order for the given user with the requested
// tickets, all-or-nothing. Each request is validated bounds-first,
// then checked against seats already sold on its trip (including
// earlier tickets of this same order). Any failure rolls the whole
// transaction back; no order and no tickets survive. The caller's
// identity arrives as an explicit parameter, never from ambient state.
func (s *BookingService) PlaceOrder(ctx context.Context, userID uint64, reqs []TicketRequest) (*PlacedOrder, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyOrder
	}

	tx, err := s.orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order := &repository.OrderRecord{UserID: userID}
	if err := s.orders.CreateTx(ctx, tx, order); err != nil {
		return nil, err
	}

	// train dimensions per trip, fetched once even when several
	// tickets target the same trip
	type dims struct{ cargoCount, seatsPerCargo uint32 }
	dimCache := make(map[uint64]dims)

	tickets := make([]model.Ticket, 0, len(reqs))
	for _, req := range reqs {
		d, ok := dimCache[req.TripID]
		if !ok {
			cargoCount, seatsPerCargo, err := s.trips.TrainDimensionsTx(ctx, tx, req.TripID)
			if err != nil {
				return nil, err
			}
			d = dims{cargoCount: cargoCount, seatsPerCargo: seatsPerCargo}
			dimCache[req.TripID] = d
		}
		if err := validateSeat(req.Cargo, req.Seat, d.cargoCount, d.seatsPerCargo); err != nil {
			return nil, err
		}
		taken, err := s.tickets.SeatTakenTx(ctx, tx, req.TripID, req.Cargo, req.Seat)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, repository.ErrSeatTaken
		}
		t := model.Ticket{
			TripID:  req.TripID,
			OrderID: order.ID,
			Cargo:   req.Cargo,
			Seat:    req.Seat,
		}
		// the insert can still lose a race to a concurrent order;
		// the duplicate-key rejection surfaces as ErrSeatTaken
		if err := s.tickets.CreateTx(ctx, tx, &t); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	return &PlacedOrder{
		ID:        order.ID,
		UserID:    order.UserID,
		CreatedAt: order.CreatedAt.UTC(),
		Tickets:   tickets,
	}, nil
}
