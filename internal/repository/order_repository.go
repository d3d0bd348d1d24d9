package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// OrderRepo provides persistence for orders and the user-scoped order
// listing. Order rows are only ever created inside the booking
// service's transaction; they are immutable afterwards.
type OrderRepo struct{ db *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying sql.DB for transactions spanning the order
// and ticket repositories.
func (r *OrderRepo) DB() *sql.DB { return r.db }

// OrderRecord mirrors the orders table for use inside the placement
// transaction.
type OrderRecord struct {
	ID        uint64
	UserID    uint64
	CreatedAt time.Time
}

// CreateTx inserts an order within the caller's transaction and
// populates the generated ID and server-assigned creation time.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *OrderRecord) error {
	res, err := tx.ExecContext(ctx, `INSERT INTO orders (user_id) VALUES (?)`, o.UserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	const sel = `SELECT id, user_id, created_at FROM orders WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, o.ID).Scan(&o.ID, &o.UserID, &o.CreatedAt)
}

// OrderTicket is one ticket inside an order listing.
type OrderTicket struct {
	ID     uint64 `json:"id"`
	TripID uint64 `json:"trip"`
	Cargo  uint32 `json:"cargo"`
	Seat   uint32 `json:"seat"`
}

// OrderDetail is an order with its tickets, as returned to the owning
// user.
type OrderDetail struct {
	ID        uint64        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Tickets   []OrderTicket `json:"tickets"`
}

// ListByUser returns one page of the user's orders, newest first,
// together with the total count for pagination. Tickets for the whole
// page are fetched in a single IN query and attached in insertion
// order.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]OrderDetail, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := pageSize
	offset := (page - 1) * pageSize

	const q = `SELECT id, created_at FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	details := make([]OrderDetail, 0, limit)
	index := make(map[uint64]int)
	for rows.Next() {
		var d OrderDetail
		if err := rows.Scan(&d.ID, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		d.Tickets = []OrderTicket{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(details) == 0 {
		return details, total, nil
	}

	ids := make([]any, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	ticketQ := `SELECT order_id, id, trip_id, cargo, seat
	            FROM tickets
	            WHERE order_id IN (` + strings.Join(placeholders, ",") + `)
	            ORDER BY order_id, id`
	trows, err := r.db.QueryContext(ctx, ticketQ, ids...)
	if err != nil {
		return nil, 0, err
	}
	defer trows.Close()
	for trows.Next() {
		var oid uint64
		var t OrderTicket
		if err := trows.Scan(&oid, &t.ID, &t.TripID, &t.Cargo, &t.Seat); err != nil {
			return nil, 0, err
		}
		idx, ok := index[oid]
		if !ok {
			continue
		}
		details[idx].Tickets = append(details[idx].Tickets, t)
	}
	if err := trows.Err(); err != nil {
		return nil, 0, err
	}
	return details, total, nil
}
