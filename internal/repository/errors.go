// Package repository defines sentinel errors shared across the data
// access layer. Handlers translate them into HTTP status codes:
// ErrForbidden -> 403, ErrConflict -> 409, the per-entity not-found
// sentinels -> 404.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource that belongs to someone else.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as a uniqueness violation raced past a
// pre-check.
var ErrConflict = errors.New("conflict")

// ErrSeatTaken is returned when a ticket insert collides with an
// existing ticket for the same (trip, cargo, seat). The UNIQUE key on
// the tickets table is the source of truth; this sentinel covers both
// the advisory pre-check and the constraint rejecting a racing writer.
var ErrSeatTaken = errors.New("seat already taken for this trip")

// Per-entity not-found sentinels.
var (
	ErrTrainTypeNotFound = errors.New("train type not found")
	ErrTrainNotFound     = errors.New("train not found")
	ErrStationNotFound   = errors.New("station not found")
	ErrRouteNotFound     = errors.New("route not found")
	ErrCrewNotFound      = errors.New("crew not found")
	ErrTripNotFound      = errors.New("trip not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrTicketNotFound    = errors.New("ticket not found")
)

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error code 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
