package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vkorchik/train-station-api/internal/model"
)

// StationRepo manages persistence for stations. Coordinate bounds are
// validated by handlers before rows reach this layer.
type StationRepo struct{ db *sql.DB }

func NewStationRepo(db *sql.DB) *StationRepo { return &StationRepo{db: db} }

const stationCols = `id, name, latitude, longitude, created_at, updated_at`

// Create inserts a station and reads the row back.
func (r *StationRepo) Create(ctx context.Context, s *model.Station) error {
	const q = `INSERT INTO stations (name, latitude, longitude) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.Name, s.Latitude, s.Longitude)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT `+stationCols+` FROM stations WHERE id = ?`, s.ID).Scan(
		&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.CreatedAt, &s.UpdatedAt,
	)
}

// GetByID returns a station or ErrStationNotFound.
func (r *StationRepo) GetByID(ctx context.Context, id uint64) (*model.Station, error) {
	var s model.Station
	err := r.db.QueryRowContext(ctx, `SELECT `+stationCols+` FROM stations WHERE id = ?`, id).Scan(
		&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all stations ordered by name.
func (r *StationRepo) List(ctx context.Context) ([]model.Station, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+stationCols+` FROM stations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Station, 0)
	for rows.Next() {
		var s model.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update rewrites a station's name and coordinates.
func (r *StationRepo) Update(ctx context.Context, s *model.Station) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM stations WHERE id = ?)`, s.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrStationNotFound
	}
	const q = `UPDATE stations SET name = ?, latitude = ?, longitude = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, s.Name, s.Latitude, s.Longitude, s.ID); err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx, `SELECT `+stationCols+` FROM stations WHERE id = ?`, s.ID).Scan(
		&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.CreatedAt, &s.UpdatedAt,
	)
}

// Delete removes a station and cascades through routes touching it,
// their trips, and the trips' tickets and crew assignments.
func (r *StationRepo) Delete(ctx context.Context, id uint64) error {
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
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM stations WHERE id = ?)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrStationNotFound
	}
	steps := []string{
		`DELETE tk FROM tickets tk
		   JOIN trips t ON t.id = tk.trip_id
		   JOIN routes rt ON rt.id = t.route_id
		  WHERE rt.source_station_id = ? OR rt.destination_station_id = ?`,
		`DELETE tc FROM trip_crews tc
		   JOIN trips t ON t.id = tc.trip_id
		   JOIN routes rt ON rt.id = t.route_id
		  WHERE rt.source_station_id = ? OR rt.destination_station_id = ?`,
		`DELETE t FROM trips t
		   JOIN routes rt ON rt.id = t.route_id
		  WHERE rt.source_station_id = ? OR rt.destination_station_id = ?`,
		`DELETE FROM routes WHERE source_station_id = ? OR destination_station_id = ?`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id, id); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM stations WHERE id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
