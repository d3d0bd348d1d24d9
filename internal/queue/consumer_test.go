package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderLine(t *testing.T) {
	ev := OrderPlacedEvent{
		OrderID:  7,
		UserID:   3,
		PlacedAt: "2023-10-31T12:00:00Z",
		Tickets: []SeatEntry{
			{TripID: 1, Cargo: 1, Seat: 1},
			{TripID: 1, Cargo: 1, Seat: 2},
		},
	}
	line := formatOrderLine(ev)
	assert.Equal(t,
		"[2023-10-31T12:00:00Z] Order placed | order_id=7 | user_id=3 | tickets=2 | trip=1 cargo=1 seat=1; trip=1 cargo=1 seat=2\n",
		line)
}

func TestFormatOrderLineNoTickets(t *testing.T) {
	line := formatOrderLine(OrderPlacedEvent{OrderID: 1, UserID: 2, PlacedAt: "x"})
	assert.Equal(t, "[x] Order placed | order_id=1 | user_id=2 | tickets=0 | \n", line)
}
