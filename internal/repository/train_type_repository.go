package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vkorchik/train-station-api/internal/model"
)

// TrainTypeRepo manages persistence for train types.
type TrainTypeRepo struct{ db *sql.DB }

func NewTrainTypeRepo(db *sql.DB) *TrainTypeRepo { return &TrainTypeRepo{db: db} }

// Create inserts a train type and reads the row back so DB-assigned
// fields (id, timestamps) are populated.
func (r *TrainTypeRepo) Create(ctx context.Context, tt *model.TrainType) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO train_types (name) VALUES (?)`, tt.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	tt.ID = uint64(id)
	const sel = `SELECT id, name, created_at, updated_at FROM train_types WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, tt.ID).Scan(&tt.ID, &tt.Name, &tt.CreatedAt, &tt.UpdatedAt)
}

// GetByID returns a single train type or ErrTrainTypeNotFound.
func (r *TrainTypeRepo) GetByID(ctx context.Context, id uint64) (*model.TrainType, error) {
	const q = `SELECT id, name, created_at, updated_at FROM train_types WHERE id = ?`
	var tt model.TrainType
	err := r.db.QueryRowContext(ctx, q, id).Scan(&tt.ID, &tt.Name, &tt.CreatedAt, &tt.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTrainTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

// List returns all train types ordered by name.
func (r *TrainTypeRepo) List(ctx context.Context) ([]model.TrainType, error) {
	const q = `SELECT id, name, created_at, updated_at FROM train_types ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TrainType, 0)
	for rows.Next() {
		var tt model.TrainType
		if err := rows.Scan(&tt.ID, &tt.Name, &tt.CreatedAt, &tt.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, tt)
	}
	return out, rows.Err()
}

// Update renames a train type. Returns ErrTrainTypeNotFound when the
// row does not exist.
func (r *TrainTypeRepo) Update(ctx context.Context, tt *model.TrainType) error {
	res, err := r.db.ExecContext(ctx, `UPDATE train_types SET name = ? WHERE id = ?`, tt.Name, tt.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// distinguish missing row from a no-op rename
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM train_types WHERE id = ?)`, tt.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrTrainTypeNotFound
		}
	}
	const sel = `SELECT id, name, created_at, updated_at FROM train_types WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, tt.ID).Scan(&tt.ID, &tt.Name, &tt.CreatedAt, &tt.UpdatedAt)
}

// Delete removes a train type together with its trains and everything
// hanging off them (trips, trip_crews, tickets). The cascade runs
// inside one transaction.
func (r *TrainTypeRepo) Delete(ctx context.Context, id uint64) error {
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
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM train_types WHERE id = ?)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrTrainTypeNotFound
	}
	steps := []string{
		`DELETE tk FROM tickets tk
		   JOIN trips t ON t.id = tk.trip_id
		   JOIN trains tr ON tr.id = t.train_id
		  WHERE tr.train_type_id = ?`,
		`DELETE tc FROM trip_crews tc
		   JOIN trips t ON t.id = tc.trip_id
		   JOIN trains tr ON tr.id = t.train_id
		  WHERE tr.train_type_id = ?`,
		`DELETE t FROM trips t
		   JOIN trains tr ON tr.id = t.train_id
		  WHERE tr.train_type_id = ?`,
		`DELETE FROM trains WHERE train_type_id = ?`,
		`DELETE FROM train_types WHERE id = ?`,
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
