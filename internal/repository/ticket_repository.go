package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vkorchik/train-station-api/internal/model"
)

// TicketRepo manages persistence for tickets. Most writes happen
// through the booking service inside an order transaction; the
// standalone methods back the admin-only /tickets endpoints.
type TicketRepo struct{ db *sql.DB }

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// SeatTakenTx reports whether a ticket for (trip, cargo, seat) already
// exists, within the caller's transaction. This is the advisory
// pre-check; the UNIQUE key on (trip_id, cargo, seat) remains the
// source of truth under concurrency.
func (r *TicketRepo) SeatTakenTx(ctx context.Context, tx *sql.Tx, tripID uint64, cargo, seat uint32) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM tickets WHERE trip_id = ? AND cargo = ? AND seat = ?)`
	var taken bool
	err := tx.QueryRowContext(ctx, q, tripID, cargo, seat).Scan(&taken)
	return taken, err
}

// CreateTx inserts a ticket within the caller's transaction and
// populates its generated ID and creation time. A duplicate-key
// rejection (a racing writer won the seat) is mapped to ErrSeatTaken.
func (r *TicketRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Ticket) error {
	const q = `INSERT INTO tickets (trip_id, order_id, cargo, seat) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, t.TripID, t.OrderID, t.Cargo, t.Seat)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrSeatTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT id, trip_id, order_id, cargo, seat, created_at FROM tickets WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, t.ID).Scan(&t.ID, &t.TripID, &t.OrderID, &t.Cargo, &t.Seat, &t.CreatedAt)
}

// List returns all tickets, newest first.
func (r *TicketRepo) List(ctx context.Context) ([]model.Ticket, error) {
	const q = `SELECT id, trip_id, order_id, cargo, seat, created_at FROM tickets ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Ticket, 0)
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.TripID, &t.OrderID, &t.Cargo, &t.Seat, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetByID returns a ticket or ErrTicketNotFound.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	const q = `SELECT id, trip_id, order_id, cargo, seat, created_at FROM tickets WHERE id = ?`
	var t model.Ticket
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.TripID, &t.OrderID, &t.Cargo, &t.Seat, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes a single ticket, freeing its seat.
func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTicketNotFound
	}
	return nil
}
