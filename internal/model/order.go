package model

import "time"

// Order groups the tickets bought by one user in a single atomic
// placement.  CreatedAt is server-assigned and the row is never
// updated afterwards.  Tickets are owned exclusively by their order
// and are removed with it.
type Order struct {
    ID        uint64    // orders.id
    UserID    uint64    // orders.user_id
    CreatedAt time.Time // orders.created_at
}

// Ticket claims one physical seat (cargo car + seat number) on a trip.
// Indices are 1-based: 1 <= Cargo <= train.CargoCount and
// 1 <= Seat <= train.SeatsPerCargo.  The triple (TripID, Cargo, Seat)
// is unique so no two tickets on a trip cover the same seat.
type Ticket struct {
    ID        uint64    // tickets.id
    TripID    uint64    // tickets.trip_id
    OrderID   uint64    // tickets.order_id
    Cargo     uint32    // tickets.cargo
    Seat      uint32    // tickets.seat
    CreatedAt time.Time // tickets.created_at
}
