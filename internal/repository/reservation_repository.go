package repository

import (
	"context"
	"database/sql"
	"time"

	"trip-booking-server/internal/model"
)

// ReservationRepo provides persistence for reservations. A reservation
// ties a user to a trip with a seat count and a denormalized copy of
// the holder's identity taken at booking time. Rows are inserted only
// from within a booking transaction and never updated afterwards.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// CreateTx inserts a new reservation within the scope of an existing
// transaction. It populates the generated ID and CreatedAt on the
// provided record and returns any error from the database. The caller
// must commit or rollback the transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (trip_id, user_id, name, last_name, email, number_of_seats) VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.TripID, res.UserID, res.Name, res.LastName, res.Email, res.NumberOfSeats)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the creation timestamp set by the DB default
	const sel = `SELECT created_at FROM reservations WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt)
}

// ReservationDetail encapsulates a reservation along with the related
// trip information. It is returned by ListByUser for display on the
// account page.
type ReservationDetail struct {
	ID            uint64    `json:"id"`
	TripID        uint64    `json:"trip_id"`
	TripName      string    `json:"trip_name"`
	BeginDate     time.Time `json:"begin_date"`
	EndDate       time.Time `json:"end_date"`
	PriceCents    uint32    `json:"price_cents"`
	NumberOfSeats uint32    `json:"number_of_seats"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListByUser returns all reservations for the given user along with
// trip details, ordered by creation time descending (newest first).
// When no reservations exist, an empty slice is returned. Plain read
// consistency is sufficient here; no locking is taken.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT r.id, r.trip_id, t.name, t.begin_date, t.end_date, t.price_cents, r.number_of_seats, r.created_at FROM reservations r JOIN trips t ON t.id = r.trip_id WHERE r.user_id = ? ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		if err := rows.Scan(
			&d.ID, &d.TripID, &d.TripName, &d.BeginDate, &d.EndDate,
			&d.PriceCents, &d.NumberOfSeats, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// CountSeatsByTrip sums the seats reserved on a trip. Together with the
// trip's available_places this always adds up to the trip's capacity.
func (r *ReservationRepo) CountSeatsByTrip(ctx context.Context, tripID uint64) (uint32, error) {
	const q = `SELECT COALESCE(SUM(number_of_seats), 0) FROM reservations WHERE trip_id = ?`
	var total uint32
	err := r.db.QueryRowContext(ctx, q, tripID).Scan(&total)
	return total, err
}
