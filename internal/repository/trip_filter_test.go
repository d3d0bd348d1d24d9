package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildTripFilterEmptyQuery(t *testing.T) {
	cond, args := buildTripFilter(TripSearchQuery{})
	assert.Equal(t, "1=1", cond)
	assert.Empty(t, args)
}

func TestBuildTripFilterSourceOnly(t *testing.T) {
	cond, args := buildTripFilter(TripSearchQuery{Source: "Kyiv"})
	assert.Equal(t, "LOWER(src.name) LIKE ?", cond)
	assert.Equal(t, []any{"%kyiv%"}, args)
}

func TestBuildTripFilterLowercasesSubstring(t *testing.T) {
	_, args := buildTripFilter(TripSearchQuery{Destination: "LVIV"})
	assert.Equal(t, []any{"%lviv%"}, args)
}

func TestBuildTripFilterComposesConjunctively(t *testing.T) {
	cond, args := buildTripFilter(TripSearchQuery{
		Source:        "Kyiv",
		Destination:   "Lviv",
		DepartureDate: "2023-10-31",
		ArrivalDate:   "2023-11-01",
	})
	assert.Equal(t,
		"LOWER(src.name) LIKE ? AND LOWER(dst.name) LIKE ? AND DATE(t.departure_time) = ? AND DATE(t.arrival_time) = ?",
		cond)
	assert.Equal(t, []any{"%kyiv%", "%lviv%", "2023-10-31", "2023-11-01"}, args)
}

func TestBuildTripFilterDatesOnly(t *testing.T) {
	cond, args := buildTripFilter(TripSearchQuery{DepartureDate: "2023-10-31"})
	assert.Equal(t, "DATE(t.departure_time) = ?", cond)
	assert.Equal(t, []any{"2023-10-31"}, args)
}

func TestIsDuplicateKey(t *testing.T) {
	dup := errors.New("Error 1062 (23000): Duplicate entry '7-1-1' for key 'tickets.uq_trip_cargo_seat'")
	assert.True(t, isDuplicateKey(dup))
	assert.False(t, isDuplicateKey(errors.New("Error 1452 (23000): foreign key constraint fails")))
	assert.False(t, isDuplicateKey(nil))
}
