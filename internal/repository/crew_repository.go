package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vkorchik/train-station-api/internal/model"
)

// CrewRepo manages persistence for crew members.
type CrewRepo struct{ db *sql.DB }

func NewCrewRepo(db *sql.DB) *CrewRepo { return &CrewRepo{db: db} }

const crewCols = `id, first_name, last_name, created_at, updated_at`

// Create inserts a crew member and reads the row back.
func (r *CrewRepo) Create(ctx context.Context, c *model.Crew) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO crews (first_name, last_name) VALUES (?, ?)`, c.FirstName, c.LastName)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT `+crewCols+` FROM crews WHERE id = ?`, c.ID).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.CreatedAt, &c.UpdatedAt,
	)
}

// GetByID returns a crew member or ErrCrewNotFound.
func (r *CrewRepo) GetByID(ctx context.Context, id uint64) (*model.Crew, error) {
	var c model.Crew
	err := r.db.QueryRowContext(ctx, `SELECT `+crewCols+` FROM crews WHERE id = ?`, id).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCrewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all crew members ordered by last then first name.
func (r *CrewRepo) List(ctx context.Context) ([]model.Crew, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+crewCols+` FROM crews ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Crew, 0)
	for rows.Next() {
		var c model.Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update rewrites a crew member's names.
func (r *CrewRepo) Update(ctx context.Context, c *model.Crew) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM crews WHERE id = ?)`, c.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrCrewNotFound
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE crews SET first_name = ?, last_name = ? WHERE id = ?`, c.FirstName, c.LastName, c.ID); err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx, `SELECT `+crewCols+` FROM crews WHERE id = ?`, c.ID).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.CreatedAt, &c.UpdatedAt,
	)
}

// Delete removes a crew member and their trip assignments. Trips
// themselves stay.
func (r *CrewRepo) Delete(ctx context.Context, id uint64) error {
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
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM crews WHERE id = ?)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrCrewNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM trip_crews WHERE crew_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM crews WHERE id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
