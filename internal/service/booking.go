// Package service contains the business logic that spans multiple
// repositories. Its centrepiece is the booking coordinator, which turns
// a validated (user, trip, seat count) triple into one atomic state
// change: seats decremented and a reservation recorded, or nothing.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"trip-booking-server/internal/model"
	"trip-booking-server/internal/repository"
)

// ErrInvalidSeatCount is returned when a booking requests zero seats,
// a negative number of seats or more seats than the inventory counter
// can represent. It is raised before any transaction is opened; no
// store access happens for invalid input.
var ErrInvalidSeatCount = errors.New("seat count out of range")

// ErrTxConflict is returned when the storage engine reports a lock
// conflict (deadlock or lock wait timeout) for the booking
// transaction. The transaction was rolled back with no state change;
// callers may retry.
var ErrTxConflict = errors.New("transaction conflict")

// BookingService coordinates one booking end-to-end. Every Book call
// runs a single database transaction that locks the trip row, verifies
// both parties exist, claims the seats through a guarded decrement and
// records the reservation. Either all of it commits or none of it does.
type BookingService struct {
	db           *sql.DB
	trips        *repository.TripRepo
	users        *repository.UserRepo
	reservations *repository.ReservationRepo
}

// NewBookingService constructs a BookingService with the provided
// repositories. All dependencies must be non-nil.
func NewBookingService(db *sql.DB, trips *repository.TripRepo, users *repository.UserRepo, reservations *repository.ReservationRepo) *BookingService {
	if db == nil || trips == nil || users == nil || reservations == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{db: db, trips: trips, users: users, reservations: reservations}
}

// Book reserves seats seats on the given trip for the given user.
//
// The existence checks run inside the transaction, not before it, so a
// trip or user cannot disappear between check and claim. The seat claim
// itself is a single conditional UPDATE guarded by the availability
// check, executed while the trip row is locked, so two concurrent
// bookings can never both act on a stale availability value.
//
// On success it returns the created reservation: the trip's
// available_places has been reduced by exactly seats and exactly one
// new reservation row exists. On any failure the transaction is rolled
// back with zero observable state change and one of ErrInvalidSeatCount,
// repository.ErrTripNotFound, repository.ErrUserNotFound,
// repository.ErrInsufficientCapacity or ErrTxConflict is returned.
//
// Book is not idempotent: there is no request-deduplication key, so a
// retried submission creates a second reservation.
func (s *BookingService) Book(ctx context.Context, userID, tripID uint64, seats int) (*model.Reservation, error) {
	// available_places is a uint32 column, so anything beyond its range
	// can never be satisfiable and must not survive the conversion below.
	if seats <= 0 || int64(seats) > math.MaxUint32 {
		return nil, ErrInvalidSeatCount
	}
	count := uint32(seats)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin booking tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the trip row for the duration of the transaction. Concurrent
	// bookings on the same trip queue up here.
	if _, err := s.trips.GetForUpdateTx(ctx, tx, tripID); err != nil {
		return nil, mapLockErr(err)
	}
	// The holder's identity is copied onto the reservation below, so the
	// user is loaded in full, inside the same transaction.
	user, err := s.users.GetByIDTx(ctx, tx, userID)
	if err != nil {
		return nil, mapLockErr(err)
	}
	// Check-and-decrement in one statement. A failed guard leaves the
	// counter untouched.
	if err := s.trips.ReserveSeatsTx(ctx, tx, tripID, count); err != nil {
		return nil, mapLockErr(err)
	}
	res := &model.Reservation{
		TripID:        tripID,
		UserID:        userID,
		Name:          user.Name,
		LastName:      user.LastName,
		Email:         user.Email,
		NumberOfSeats: count,
	}
	if err := s.reservations.CreateTx(ctx, tx, res); err != nil {
		return nil, mapLockErr(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, mapLockErr(err)
	}
	committed = true
	return res, nil
}

// mapLockErr translates MySQL lock conflicts (1213 deadlock, 1205 lock
// wait timeout) into ErrTxConflict and passes every other error through
// unchanged.
func mapLockErr(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "1213") || strings.Contains(msg, "1205") {
		return ErrTxConflict
	}
	return err
}
