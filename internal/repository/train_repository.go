package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vkorchik/train-station-api/internal/model"
)

// TrainRepo manages persistence for trains. Listing joins the train
// type so views can show the type name without a second query.
type TrainRepo struct{ db *sql.DB }

func NewTrainRepo(db *sql.DB) *TrainRepo { return &TrainRepo{db: db} }

// TrainRow is a train joined with its type name, as returned by List
// and GetByID.
type TrainRow struct {
	model.Train
	TrainTypeName string
}

// Create inserts a train and reads the row back. The referenced train
// type must exist; a failed FK check is reported as
// ErrTrainTypeNotFound.
func (r *TrainRepo) Create(ctx context.Context, t *model.Train) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM train_types WHERE id = ?)`, t.TrainTypeID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrTrainTypeNotFound
	}
	const q = `INSERT INTO trains (name, cargo_count, seats_per_cargo, train_type_id) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.CargoCount, t.SeatsPerCargo, t.TrainTypeID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT id, name, cargo_count, seats_per_cargo, train_type_id, created_at, updated_at FROM trains WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, t.ID).Scan(
		&t.ID, &t.Name, &t.CargoCount, &t.SeatsPerCargo, &t.TrainTypeID, &t.CreatedAt, &t.UpdatedAt,
	)
}

// GetByID returns a train with its type name or ErrTrainNotFound.
func (r *TrainRepo) GetByID(ctx context.Context, id uint64) (*TrainRow, error) {
	const q = `SELECT t.id, t.name, t.cargo_count, t.seats_per_cargo, t.train_type_id, t.created_at, t.updated_at, tt.name
	           FROM trains t
	           JOIN train_types tt ON tt.id = t.train_type_id
	           WHERE t.id = ?`
	var row TrainRow
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&row.ID, &row.Name, &row.CargoCount, &row.SeatsPerCargo, &row.TrainTypeID,
		&row.CreatedAt, &row.UpdatedAt, &row.TrainTypeName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTrainNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns all trains ordered by name, each joined with its type.
func (r *TrainRepo) List(ctx context.Context) ([]TrainRow, error) {
	const q = `SELECT t.id, t.name, t.cargo_count, t.seats_per_cargo, t.train_type_id, t.created_at, t.updated_at, tt.name
	           FROM trains t
	           JOIN train_types tt ON tt.id = t.train_type_id
	           ORDER BY t.name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]TrainRow, 0)
	for rows.Next() {
		var row TrainRow
		if err := rows.Scan(
			&row.ID, &row.Name, &row.CargoCount, &row.SeatsPerCargo, &row.TrainTypeID,
			&row.CreatedAt, &row.UpdatedAt, &row.TrainTypeName,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Update rewrites all mutable train fields and reads the row back.
func (r *TrainRepo) Update(ctx context.Context, t *model.Train) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM trains WHERE id = ?)`, t.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrTrainNotFound
	}
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM train_types WHERE id = ?)`, t.TrainTypeID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrTrainTypeNotFound
	}
	const q = `UPDATE trains SET name = ?, cargo_count = ?, seats_per_cargo = ?, train_type_id = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, t.Name, t.CargoCount, t.SeatsPerCargo, t.TrainTypeID, t.ID); err != nil {
		return err
	}
	const sel = `SELECT id, name, cargo_count, seats_per_cargo, train_type_id, created_at, updated_at FROM trains WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, t.ID).Scan(
		&t.ID, &t.Name, &t.CargoCount, &t.SeatsPerCargo, &t.TrainTypeID, &t.CreatedAt, &t.UpdatedAt,
	)
}

// Delete removes a train and cascades to its trips and their tickets
// and crew assignments, all in one transaction.
func (r *TrainRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM trains WHERE id = ?)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrTrainNotFound
	}
	steps := []string{
		`DELETE tk FROM tickets tk JOIN trips t ON t.id = tk.trip_id WHERE t.train_id = ?`,
		`DELETE tc FROM trip_crews tc JOIN trips t ON t.id = tc.trip_id WHERE t.train_id = ?`,
		`DELETE FROM trips WHERE train_id = ?`,
		`DELETE FROM trains WHERE id = ?`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
