// Package queue defines message payloads exchanged over the message broker
// together with the publisher and consumer for reservation events.
package queue

// ReservationConfirmedEvent is published when a booking transaction commits.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	TripID        uint64 `json:"trip_id"`
	TripName      string `json:"trip_name"`
	UserID        uint64 `json:"user_id"`
	HolderName    string `json:"holder_name"`
	HolderEmail   string `json:"holder_email"`
	NumberOfSeats uint32 `json:"number_of_seats"`
	ConfirmedAt   string `json:"confirmed_at"`
}
