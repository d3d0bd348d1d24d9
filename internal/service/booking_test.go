package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSeatAccepts(t *testing.T) {
	// 2 cargo cars, 2 seats each: every corner of the grid is valid
	for _, c := range []uint32{1, 2} {
		for _, s := range []uint32{1, 2} {
			assert.NoError(t, validateSeat(c, s, 2, 2))
		}
	}
}

func TestValidateSeatCargoOutOfRange(t *testing.T) {
	err := validateSeat(0, 1, 2, 2)
	require.Error(t, err)
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, "cargo", oor.Field)
	assert.Equal(t, uint32(2), oor.Max)
	assert.EqualError(t, err, "cargo must be within [1, 2], got 0")

	err = validateSeat(3, 1, 2, 2)
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, "cargo", oor.Field)
}

func TestValidateSeatSeatOutOfRange(t *testing.T) {
	err := validateSeat(1, 0, 2, 2)
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, "seat", oor.Field)

	err = validateSeat(2, 5, 2, 4)
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, "seat", oor.Field)
	assert.EqualError(t, err, "seat must be within [1, 4], got 5")
}

func TestValidateSeatCargoCheckedBeforeSeat(t *testing.T) {
	// both indices invalid: cargo wins, fail-fast
	err := validateSeat(9, 9, 2, 2)
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, "cargo", oor.Field)
}

func TestPlaceOrderRejectsEmptyBatchBeforeAnyIO(t *testing.T) {
	// nil repos: reaching the database would panic, so the assertion
	// also proves the empty batch never touches storage
	s := &BookingService{}
	placed, err := s.PlaceOrder(context.Background(), 1, nil)
	assert.Nil(t, placed)
	assert.ErrorIs(t, err, ErrEmptyOrder)

	placed, err = s.PlaceOrder(context.Background(), 1, []TicketRequest{})
	assert.Nil(t, placed)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}
