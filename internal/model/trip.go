package model

import "time"

// Trip is a scheduled run of a train over a route.  Crews are attached
// through the trip_crews join table.  Deleting a trip removes its
// tickets.
//
// Fields:
//  ID            – primary key identifier.
//  RouteID       – route being served.
//  TrainID       – train assigned to the run.
//  DepartureTime – when the trip leaves the source station (UTC).
//  ArrivalTime   – when the trip reaches the destination (UTC).
//  CrewIDs       – crew members assigned to the trip.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Trip struct {
    ID            uint64    // trips.id
    RouteID       uint64    // trips.route_id
    TrainID       uint64    // trips.train_id
    DepartureTime time.Time // trips.departure_time
    ArrivalTime   time.Time // trips.arrival_time
    CrewIDs       []uint64  // trip_crews.crew_id
    CreatedAt     time.Time // trips.created_at
    UpdatedAt     time.Time // trips.updated_at
}
