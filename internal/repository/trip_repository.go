// Package repository contains data access logic for trip, user and
// reservation records. This file defines the repository for trips. The
// trips table is the authoritative seat inventory: available_places is
// only ever decremented through ReserveSeatsTx inside a booking
// transaction, so the counter can never be driven below zero or past
// the trip's capacity.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"       // errors for sentinel definitions
	"time"         // time for listing cutoffs

	"trip-booking-server/internal/model"
)

// ErrTripNotFound indicates that a trip was not located in the DB.
var ErrTripNotFound = errors.New("trip not found")

// TripRepo manages persistence for trips.
type TripRepo struct {
	db *sql.DB
}

// NewTripRepo returns a new TripRepo bound to the given database.
func NewTripRepo(db *sql.DB) *TripRepo { return &TripRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.  Use this method to
// obtain a *sql.DB when you need fine-grained transaction control.
func (r *TripRepo) DB() *sql.DB {
	return r.db
}

// ListUpcoming returns all trips whose begin date is strictly after the
// given instant, ordered ascending by begin date. Reads are snapshot
// reads; no locking is taken.
func (r *TripRepo) ListUpcoming(ctx context.Context, now time.Time) ([]model.Trip, error) {
	const q = `SELECT id, name, description, short_description, image, price_cents, begin_date, end_date, capacity, available_places, created_at, updated_at FROM trips WHERE begin_date > ? ORDER BY begin_date ASC`
	rows, err := r.db.QueryContext(ctx, q, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	trips := make([]model.Trip, 0)
	for rows.Next() {
		var t model.Trip
		var desc, short, image sql.NullString
		if err := rows.Scan(
			&t.ID, &t.Name, &desc, &short, &image, &t.PriceCents,
			&t.BeginDate, &t.EndDate, &t.Capacity, &t.AvailablePlaces,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		t.Description = desc.String
		t.ShortDescription = short.String
		t.Image = image.String
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trips, nil
}

// GetByID returns a single trip by its primary key. It returns
// ErrTripNotFound when no such trip exists.
func (r *TripRepo) GetByID(ctx context.Context, id uint64) (*model.Trip, error) {
	const q = `SELECT id, name, description, short_description, image, price_cents, begin_date, end_date, capacity, available_places, created_at, updated_at FROM trips WHERE id = ? LIMIT 1`
	var t model.Trip
	var desc, short, image sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.Name, &desc, &short, &image, &t.PriceCents,
		&t.BeginDate, &t.EndDate, &t.Capacity, &t.AvailablePlaces,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	t.Description = desc.String
	t.ShortDescription = short.String
	t.Image = image.String
	return &t, nil
}

// GetForUpdateTx loads the trip's current availability within the
// caller's transaction while taking a row lock (SELECT ... FOR UPDATE).
// Concurrent bookings on the same trip serialize on this lock, so the
// availability read here cannot go stale before the seat decrement.
// It returns ErrTripNotFound when the trip does not exist.
func (r *TripRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (uint32, error) {
	const q = `SELECT available_places FROM trips WHERE id = ? FOR UPDATE`
	var available uint32
	if err := tx.QueryRowContext(ctx, q, id).Scan(&available); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrTripNotFound
		}
		return 0, err
	}
	return available, nil
}

// ReserveSeatsTx decrements a trip's available_places by count within
// the caller's transaction. The check and the write are one atomic
// statement: the UPDATE only matches when available_places >= count,
// so two transactions can never both decrement past zero. When the
// guard fails the row is untouched and ErrInsufficientCapacity is
// returned; trip existence must have been verified by the caller.
func (r *TripRepo) ReserveSeatsTx(ctx context.Context, tx *sql.Tx, id uint64, count uint32) error {
	const q = `UPDATE trips SET available_places = available_places - ? WHERE id = ? AND available_places >= ?`
	res, err := tx.ExecContext(ctx, q, count, id, count)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientCapacity
	}
	return nil
}
