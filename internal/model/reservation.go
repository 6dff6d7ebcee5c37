package model

import "time"

// Reservation records seats claimed by a user on a trip. The holder's
// name, last name and email are copied from the user at booking time so
// the record stays meaningful even if the profile changes later. Both
// trip_id and user_id are explicit foreign key columns with secondary
// indexes; a reservation belongs to exactly one trip and one user.
//
// Reservations are created exclusively inside a successful booking
// transaction and are never mutated or deleted afterwards.
//
// Fields:
//
//	ID            - primary key identifier.
//	TripID        - trip being booked.
//	UserID        - user who made the reservation.
//	Name          - holder first name at booking time.
//	LastName      - holder last name at booking time.
//	Email         - holder email at booking time.
//	NumberOfSeats - seats claimed; always > 0.
//	CreatedAt     - creation timestamp.
type Reservation struct {
	ID            uint64    // reservations.id
	TripID        uint64    // reservations.trip_id
	UserID        uint64    // reservations.user_id
	Name          string    // reservations.name
	LastName      string    // reservations.last_name
	Email         string    // reservations.email
	NumberOfSeats uint32    // reservations.number_of_seats
	CreatedAt     time.Time // reservations.created_at
}
