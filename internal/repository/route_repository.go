package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vkorchik/train-station-api/internal/model"
)

// RouteRepo manages persistence for routes. Listing joins both station
// names; the detail query additionally loads full station rows so
// views can render coordinate strings.
type RouteRepo struct{ db *sql.DB }

func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

// RouteRow is a route joined with its station names.
type RouteRow struct {
	model.Route
	SourceName      string
	DestinationName string
}

// RouteDetail carries the fully populated source and destination
// stations alongside the route. This is the explicit joined-entity
// fetch used by the detail view instead of lazy traversal.
type RouteDetail struct {
	model.Route
	Source      model.Station
	Destination model.Station
}

// Create inserts a route after verifying both stations exist, then
// reads the row back.
func (r *RouteRepo) Create(ctx context.Context, rt *model.Route) error {
	for _, sid := range []uint64{rt.SourceStationID, rt.DestinationStationID} {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM stations WHERE id = ?)`, sid).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrStationNotFound
		}
	}
	const q = `INSERT INTO routes (source_station_id, destination_station_id, distance_km) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rt.SourceStationID, rt.DestinationStationID, rt.DistanceKM)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	const sel = `SELECT id, source_station_id, destination_station_id, distance_km, created_at, updated_at FROM routes WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, rt.ID).Scan(
		&rt.ID, &rt.SourceStationID, &rt.DestinationStationID, &rt.DistanceKM, &rt.CreatedAt, &rt.UpdatedAt,
	)
}

// List returns all routes with their station names.
func (r *RouteRepo) List(ctx context.Context) ([]RouteRow, error) {
	const q = `SELECT r.id, r.source_station_id, r.destination_station_id, r.distance_km, r.created_at, r.updated_at,
	                  src.name, dst.name
	           FROM routes r
	           JOIN stations src ON src.id = r.source_station_id
	           JOIN stations dst ON dst.id = r.destination_station_id
	           ORDER BY r.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RouteRow, 0)
	for rows.Next() {
		var row RouteRow
		if err := rows.Scan(
			&row.ID, &row.SourceStationID, &row.DestinationStationID, &row.DistanceKM,
			&row.CreatedAt, &row.UpdatedAt, &row.SourceName, &row.DestinationName,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetDetail returns a route with both stations fully loaded, or
// ErrRouteNotFound.
func (r *RouteRepo) GetDetail(ctx context.Context, id uint64) (*RouteDetail, error) {
	const q = `SELECT r.id, r.source_station_id, r.destination_station_id, r.distance_km, r.created_at, r.updated_at,
	                  src.id, src.name, src.latitude, src.longitude,
	                  dst.id, dst.name, dst.latitude, dst.longitude
	           FROM routes r
	           JOIN stations src ON src.id = r.source_station_id
	           JOIN stations dst ON dst.id = r.destination_station_id
	           WHERE r.id = ?`
	var det RouteDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&det.ID, &det.SourceStationID, &det.DestinationStationID, &det.DistanceKM,
		&det.CreatedAt, &det.UpdatedAt,
		&det.Source.ID, &det.Source.Name, &det.Source.Latitude, &det.Source.Longitude,
		&det.Destination.ID, &det.Destination.Name, &det.Destination.Latitude, &det.Destination.Longitude,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRouteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &det, nil
}

// Update rewrites a route's endpoints and distance.
func (r *RouteRepo) Update(ctx context.Context, rt *model.Route) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM routes WHERE id = ?)`, rt.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrRouteNotFound
	}
	for _, sid := range []uint64{rt.SourceStationID, rt.DestinationStationID} {
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM stations WHERE id = ?)`, sid).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrStationNotFound
		}
	}
	const q = `UPDATE routes SET source_station_id = ?, destination_station_id = ?, distance_km = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, rt.SourceStationID, rt.DestinationStationID, rt.DistanceKM, rt.ID); err != nil {
		return err
	}
	const sel = `SELECT id, source_station_id, destination_station_id, distance_km, created_at, updated_at FROM routes WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, rt.ID).Scan(
		&rt.ID, &rt.SourceStationID, &rt.DestinationStationID, &rt.DistanceKM, &rt.CreatedAt, &rt.UpdatedAt,
	)
}

// Delete removes a route and cascades to its trips, their tickets and
// crew assignments.
func (r *RouteRepo) Delete(ctx context.Context, id uint64) error {
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
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM routes WHERE id = ?)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrRouteNotFound
	}
	steps := []string{
		`DELETE tk FROM tickets tk JOIN trips t ON t.id = tk.trip_id WHERE t.route_id = ?`,
		`DELETE tc FROM trip_crews tc JOIN trips t ON t.id = tc.trip_id WHERE t.route_id = ?`,
		`DELETE FROM trips WHERE route_id = ?`,
		`DELETE FROM routes WHERE id = ?`,
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
