package model

import "time"

// Crew is a staff member assignable to trips (many-to-many via
// trip_crews).
type Crew struct {
    ID        uint64    // crews.id
    FirstName string    // crews.first_name
    LastName  string    // crews.last_name
    CreatedAt time.Time // crews.created_at
    UpdatedAt time.Time // crews.updated_at
}

// FullName joins first and last name for display.
func (c Crew) FullName() string {
    return c.FirstName + " " + c.LastName
}
