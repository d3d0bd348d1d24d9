package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkorchik/train-station-api/internal/repository"
)

// newBookingService backs every repository with the same mocked
// connection so the whole placement runs on one expectation script.
func newBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewBookingService(
		repository.NewOrderRepo(db),
		repository.NewTripRepo(db),
		repository.NewTicketRepo(db),
	), mock
}

func expectOrderInsert(mock sqlmock.Sqlmock, orderID, userID uint64, at time.Time) {
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(int64(orderID), 1))
	mock.ExpectQuery("SELECT id, user_id, created_at FROM orders").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at"}).
			AddRow(orderID, userID, at))
}

func expectTrainDimensions(mock sqlmock.Sqlmock, cargoCount, seatsPerCargo uint32) {
	mock.ExpectQuery("FROM trips").
		WillReturnRows(sqlmock.NewRows([]string{"cargo_count", "seats_per_cargo"}).
			AddRow(cargoCount, seatsPerCargo))
}

func expectSeatTaken(mock sqlmock.Sqlmock, taken bool) {
	mock.ExpectQuery("FROM tickets WHERE trip_id").
		WillReturnRows(sqlmock.NewRows([]string{"taken"}).AddRow(taken))
}

func expectTicketInsert(mock sqlmock.Sqlmock, ticketID, tripID, orderID uint64, cargo, seat uint32, at time.Time) {
	mock.ExpectExec("INSERT INTO tickets").
		WillReturnResult(sqlmock.NewResult(int64(ticketID), 1))
	mock.ExpectQuery("SELECT id, trip_id, order_id, cargo, seat, created_at FROM tickets").
		WillReturnRows(sqlmock.NewRows([]string{"id", "trip_id", "order_id", "cargo", "seat", "created_at"}).
			AddRow(ticketID, tripID, orderID, cargo, seat, at))
}

func TestPlaceOrderCommitsAndReturnsTickets(t *testing.T) {
	s, mock := newBookingService(t)
	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectBegin()
	expectOrderInsert(mock, 11, 5, now)
	expectTrainDimensions(mock, 2, 2)
	expectSeatTaken(mock, false)
	expectTicketInsert(mock, 21, 1, 11, 1, 1, now)
	mock.ExpectCommit()

	placed, err := s.PlaceOrder(context.Background(), 5, []TicketRequest{
		{TripID: 1, Cargo: 1, Seat: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(11), placed.ID)
	assert.Equal(t, uint64(5), placed.UserID)
	require.Len(t, placed.Tickets, 1)
	assert.Equal(t, uint64(21), placed.Tickets[0].ID)
	assert.Equal(t, uint64(11), placed.Tickets[0].OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderMidBatchConflictRollsBackEverything(t *testing.T) {
	s, mock := newBookingService(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	expectOrderInsert(mock, 11, 5, now)
	// all three tickets target the same trip, so dimensions are
	// fetched exactly once
	expectTrainDimensions(mock, 2, 2)
	expectSeatTaken(mock, false)
	expectTicketInsert(mock, 21, 1, 11, 1, 1, now)
	// ticket #2 collides with an already sold seat: nothing after it
	// may run and the whole transaction must roll back
	expectSeatTaken(mock, true)
	mock.ExpectRollback()

	placed, err := s.PlaceOrder(context.Background(), 5, []TicketRequest{
		{TripID: 1, Cargo: 1, Seat: 1},
		{TripID: 1, Cargo: 1, Seat: 2},
		{TripID: 1, Cargo: 2, Seat: 1},
	})
	assert.Nil(t, placed)
	assert.ErrorIs(t, err, repository.ErrSeatTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderDuplicateKeyRaceSurfacesAsSeatTaken(t *testing.T) {
	s, mock := newBookingService(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	expectOrderInsert(mock, 12, 5, now)
	expectTrainDimensions(mock, 2, 2)
	// pre-check sees the seat free, but a concurrent order wins the
	// insert and the UNIQUE key rejects ours
	expectSeatTaken(mock, false)
	mock.ExpectExec("INSERT INTO tickets").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '1-1-1' for key 'tickets.uq_trip_cargo_seat'"))
	mock.ExpectRollback()

	placed, err := s.PlaceOrder(context.Background(), 5, []TicketRequest{
		{TripID: 1, Cargo: 1, Seat: 1},
	})
	assert.Nil(t, placed)
	assert.ErrorIs(t, err, repository.ErrSeatTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderOutOfRangeSeatRollsBack(t *testing.T) {
	s, mock := newBookingService(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	expectOrderInsert(mock, 13, 5, now)
	expectTrainDimensions(mock, 2, 2)
	mock.ExpectRollback()

	placed, err := s.PlaceOrder(context.Background(), 5, []TicketRequest{
		{TripID: 1, Cargo: 3, Seat: 1},
	})
	assert.Nil(t, placed)
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, "cargo", oor.Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderUnknownTripRollsBack(t *testing.T) {
	s, mock := newBookingService(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	expectOrderInsert(mock, 14, 5, now)
	mock.ExpectQuery("FROM trips").
		WillReturnRows(sqlmock.NewRows([]string{"cargo_count", "seats_per_cargo"}))
	mock.ExpectRollback()

	placed, err := s.PlaceOrder(context.Background(), 5, []TicketRequest{
		{TripID: 99, Cargo: 1, Seat: 1},
	})
	assert.Nil(t, placed)
	assert.ErrorIs(t, err, repository.ErrTripNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
