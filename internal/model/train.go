package model

import "time"

// TrainType classifies trains (e.g. intercity, freight).  It is
// referenced by Train via TrainTypeID and corresponds to a row in the
// `train_types` table.
type TrainType struct {
    ID        uint64    // train_types.id
    Name      string    // train_types.name
    CreatedAt time.Time // train_types.created_at
    UpdatedAt time.Time // train_types.updated_at
}

// Train describes a physical train: how many cargo cars it pulls and
// how many seats each car holds.  The seating capacity is derived from
// those two factors and never stored.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – display name of the train.
//  CargoCount    – number of cargo cars.
//  SeatsPerCargo – seats available in each cargo car.
//  TrainTypeID   – reference to the train's type.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Train struct {
    ID            uint64    // trains.id
    Name          string    // trains.name
    CargoCount    uint32    // trains.cargo_count
    SeatsPerCargo uint32    // trains.seats_per_cargo
    TrainTypeID   uint64    // trains.train_type_id
    CreatedAt     time.Time // trains.created_at
    UpdatedAt     time.Time // trains.updated_at
}

// Capacity returns the total number of seats on the train.  It is
// always CargoCount * SeatsPerCargo regardless of how either factor
// was last updated.
func (t Train) Capacity() uint32 {
    return t.CargoCount * t.SeatsPerCargo
}
