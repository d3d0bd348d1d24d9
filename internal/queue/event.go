// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderPlacedEvent is published after an order commits. It carries
// enough for downstream consumers to log or notify without querying
// the primary database.
type OrderPlacedEvent struct {
	OrderID  uint64      `json:"order_id"`
	UserID   uint64      `json:"user_id"`
	Tickets  []SeatEntry `json:"tickets"`
	PlacedAt string      `json:"placed_at"`
}

// SeatEntry is one booked seat within the event payload.
type SeatEntry struct {
	TripID uint64 `json:"trip_id"`
	Cargo  uint32 `json:"cargo"`
	Seat   uint32 `json:"seat"`
}
