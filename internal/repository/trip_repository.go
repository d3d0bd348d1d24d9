package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/vkorchik/train-station-api/internal/model"
)

// TripRepo manages persistence for trips, their crew assignments and
// the derived seat availability used by list views.
type TripRepo struct{ db *sql.DB }

func NewTripRepo(db *sql.DB) *TripRepo { return &TripRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *TripRepo) DB() *sql.DB { return r.db }

// TripSearchQuery defines the list filters. Source and Destination
// match station names as case-insensitive substrings; the date fields
// match the calendar date of the corresponding timestamp and must be
// in "2006-01-02" form. Filters compose with AND; empty fields impose
// no constraint.
type TripSearchQuery struct {
	Source        string
	Destination   string
	DepartureDate string
	ArrivalDate   string
}

// TripListRow is one entry of the trip list view: route endpoints and
// train by name plus the derived number of unsold seats.
type TripListRow struct {
	ID               uint64
	RouteSource      string
	RouteDestination string
	TrainName        string
	DepartureTime    time.Time
	ArrivalTime      time.Time
	TicketsAvailable int64
}

// SeatRef identifies one physical seat on a trip.
type SeatRef struct {
	Cargo uint32 `json:"cargo"`
	Seat  uint32 `json:"seat"`
}

// TripDetail carries a trip with its route, train, crew names and the
// seats already sold. Related entities are fetched explicitly rather
// than traversed lazily.
type TripDetail struct {
	model.Trip
	Route      RouteRow
	Train      TrainRow
	CrewNames  []string
	TakenSeats []SeatRef
}

// buildTripFilter translates a TripSearchQuery into a WHERE fragment
// and its arguments.
func buildTripFilter(q TripSearchQuery) (string, []any) {
	where := []string{}
	args := []any{}

	if q.Source != "" {
		where = append(where, "LOWER(src.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Source)+"%")
	}
	if q.Destination != "" {
		where = append(where, "LOWER(dst.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Destination)+"%")
	}
	if q.DepartureDate != "" {
		where = append(where, "DATE(t.departure_time) = ?")
		args = append(args, q.DepartureDate)
	}
	if q.ArrivalDate != "" {
		where = append(where, "DATE(t.arrival_time) = ?")
		args = append(args, q.ArrivalDate)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return cond, args
}

// Search returns trips matching the query, newest departure first.
// tickets_available is computed in SQL as capacity minus sold tickets;
// it is reported as-is, without clamping.
func (r *TripRepo) Search(ctx context.Context, q TripSearchQuery) ([]TripListRow, error) {
	cond, args := buildTripFilter(q)

	dataSQL := `SELECT
			t.id,
			src.name AS route_source,
			dst.name AS route_destination,
			tr.name  AS train_name,
			t.departure_time,
			t.arrival_time,
			CAST(tr.cargo_count * tr.seats_per_cargo AS SIGNED) - COUNT(tk.id) AS tickets_available
		FROM trips t
		JOIN routes r    ON r.id = t.route_id
		JOIN stations src ON src.id = r.source_station_id
		JOIN stations dst ON dst.id = r.destination_station_id
		JOIN trains tr   ON tr.id = t.train_id
		LEFT JOIN tickets tk ON tk.trip_id = t.id
		WHERE ` + cond + `
		GROUP BY t.id, src.name, dst.name, tr.name, t.departure_time, t.arrival_time,
		         tr.cargo_count, tr.seats_per_cargo
		ORDER BY t.departure_time DESC`

	rows, err := r.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TripListRow, 0)
	for rows.Next() {
		var row TripListRow
		if err := rows.Scan(
			&row.ID,
			&row.RouteSource,
			&row.RouteDestination,
			&row.TrainName,
			&row.DepartureTime,
			&row.ArrivalTime,
			&row.TicketsAvailable,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Create inserts a trip and its crew assignments inside one
// transaction. Referenced route, train and crews must all exist.
func (r *TripRepo) Create(ctx context.Context, t *model.Trip) error {
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
	if err := r.checkRefsTx(ctx, tx, t); err != nil {
		return err
	}
	const q = `INSERT INTO trips (route_id, train_id, departure_time, arrival_time) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, t.RouteID, t.TrainID, t.DepartureTime.UTC(), t.ArrivalTime.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	if err := r.replaceCrewsTx(ctx, tx, t.ID, t.CrewIDs); err != nil {
		return err
	}
	if err := r.readBackTx(ctx, tx, t); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Update rewrites a trip's schedule, route, train and crew set.
func (r *TripRepo) Update(ctx context.Context, t *model.Trip) error {
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
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM trips WHERE id = ?)`, t.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrTripNotFound
	}
	if err := r.checkRefsTx(ctx, tx, t); err != nil {
		return err
	}
	const q = `UPDATE trips SET route_id = ?, train_id = ?, departure_time = ?, arrival_time = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, t.RouteID, t.TrainID, t.DepartureTime.UTC(), t.ArrivalTime.UTC(), t.ID); err != nil {
		return err
	}
	if err := r.replaceCrewsTx(ctx, tx, t.ID, t.CrewIDs); err != nil {
		return err
	}
	if err := r.readBackTx(ctx, tx, t); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// checkRefsTx verifies the route, train and every crew referenced by
// the trip exist, returning the matching not-found sentinel otherwise.
func (r *TripRepo) checkRefsTx(ctx context.Context, tx *sql.Tx, t *model.Trip) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM routes WHERE id = ?)`, t.RouteID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrRouteNotFound
	}
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM trains WHERE id = ?)`, t.TrainID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrTrainNotFound
	}
	for _, cid := range t.CrewIDs {
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM crews WHERE id = ?)`, cid).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrCrewNotFound
		}
	}
	return nil
}

// replaceCrewsTx swaps the trip's crew set for the given IDs.
func (r *TripRepo) replaceCrewsTx(ctx context.Context, tx *sql.Tx, tripID uint64, crewIDs []uint64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM trip_crews WHERE trip_id = ?`, tripID); err != nil {
		return err
	}
	if len(crewIDs) == 0 {
		return nil
	}
	query := `INSERT INTO trip_crews (trip_id, crew_id) VALUES `
	args := make([]any, 0, len(crewIDs)*2)
	for i, cid := range crewIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, tripID, cid)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// readBackTx refreshes the trip struct from the database, crew IDs
// included.
func (r *TripRepo) readBackTx(ctx context.Context, tx *sql.Tx, t *model.Trip) error {
	const sel = `SELECT id, route_id, train_id, departure_time, arrival_time, created_at, updated_at FROM trips WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, t.ID).Scan(
		&t.ID, &t.RouteID, &t.TrainID, &t.DepartureTime, &t.ArrivalTime, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return err
	}
	rows, err := tx.QueryContext(ctx, `SELECT crew_id FROM trip_crews WHERE trip_id = ? ORDER BY crew_id`, t.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	t.CrewIDs = t.CrewIDs[:0]
	for rows.Next() {
		var cid uint64
		if err := rows.Scan(&cid); err != nil {
			return err
		}
		t.CrewIDs = append(t.CrewIDs, cid)
	}
	return rows.Err()
}

// GetDetail loads a trip with route, train, crew names and the seats
// already sold, or ErrTripNotFound.
func (r *TripRepo) GetDetail(ctx context.Context, id uint64) (*TripDetail, error) {
	const q = `SELECT t.id, t.route_id, t.train_id, t.departure_time, t.arrival_time, t.created_at, t.updated_at,
	                  r.id, r.source_station_id, r.destination_station_id, r.distance_km, r.created_at, r.updated_at,
	                  src.name, dst.name,
	                  tr.id, tr.name, tr.cargo_count, tr.seats_per_cargo, tr.train_type_id, tr.created_at, tr.updated_at,
	                  tt.name
	           FROM trips t
	           JOIN routes r    ON r.id = t.route_id
	           JOIN stations src ON src.id = r.source_station_id
	           JOIN stations dst ON dst.id = r.destination_station_id
	           JOIN trains tr   ON tr.id = t.train_id
	           JOIN train_types tt ON tt.id = tr.train_type_id
	           WHERE t.id = ?`
	var det TripDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&det.ID, &det.RouteID, &det.TrainID, &det.DepartureTime, &det.ArrivalTime, &det.CreatedAt, &det.UpdatedAt,
		&det.Route.ID, &det.Route.SourceStationID, &det.Route.DestinationStationID, &det.Route.DistanceKM,
		&det.Route.CreatedAt, &det.Route.UpdatedAt,
		&det.Route.SourceName, &det.Route.DestinationName,
		&det.Train.ID, &det.Train.Name, &det.Train.CargoCount, &det.Train.SeatsPerCargo, &det.Train.TrainTypeID,
		&det.Train.CreatedAt, &det.Train.UpdatedAt,
		&det.Train.TrainTypeName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}

	det.CrewNames = []string{}
	det.CrewIDs = []uint64{}
	crewQ := `SELECT c.id, c.first_name, c.last_name
	          FROM trip_crews tc
	          JOIN crews c ON c.id = tc.crew_id
	          WHERE tc.trip_id = ?
	          ORDER BY c.last_name, c.first_name`
	crows, err := r.db.QueryContext(ctx, crewQ, det.ID)
	if err != nil {
		return nil, err
	}
	defer crows.Close()
	for crows.Next() {
		var c model.Crew
		if err := crows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, err
		}
		det.CrewIDs = append(det.CrewIDs, c.ID)
		det.CrewNames = append(det.CrewNames, c.FullName())
	}
	if err := crows.Err(); err != nil {
		return nil, err
	}

	det.TakenSeats = []SeatRef{}
	srows, err := r.db.QueryContext(ctx, `SELECT cargo, seat FROM tickets WHERE trip_id = ? ORDER BY cargo, seat`, det.ID)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var s SeatRef
		if err := srows.Scan(&s.Cargo, &s.Seat); err != nil {
			return nil, err
		}
		det.TakenSeats = append(det.TakenSeats, s)
	}
	return &det, srows.Err()
}

// Delete removes a trip together with its tickets and crew
// assignments.
func (r *TripRepo) Delete(ctx context.Context, id uint64) error {
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
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM trips WHERE id = ?)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrTripNotFound
	}
	steps := []string{
		`DELETE FROM tickets WHERE trip_id = ?`,
		`DELETE FROM trip_crews WHERE trip_id = ?`,
		`DELETE FROM trips WHERE id = ?`,
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

// TrainDimensionsTx returns the cargo count and seats per cargo of the
// train assigned to a trip, within the caller's transaction. Returns
// ErrTripNotFound when the trip does not exist.
func (r *TripRepo) TrainDimensionsTx(ctx context.Context, tx *sql.Tx, tripID uint64) (uint32, uint32, error) {
	const q = `SELECT tr.cargo_count, tr.seats_per_cargo
	           FROM trips t
	           JOIN trains tr ON tr.id = t.train_id
	           WHERE t.id = ?`
	var cargoCount, seatsPerCargo uint32
	err := tx.QueryRowContext(ctx, q, tripID).Scan(&cargoCount, &seatsPerCargo)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, ErrTripNotFound
	}
	if err != nil {
		return 0, 0, err
	}
	return cargoCount, seatsPerCargo, nil
}
