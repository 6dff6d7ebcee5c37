package model

import "time"

// Trip represents a bookable excursion as stored in the `trips` table.
// Seat accounting is tracked with two counters: Capacity is fixed at
// catalog setup time and AvailablePlaces is decremented as reservations
// are made. AvailablePlaces never exceeds Capacity and never goes below
// zero; all mutation goes through the booking transaction.
//
// Fields:
//
//	ID               - primary key identifier.
//	Name             - unique trip name.
//	Description      - long description text.
//	ShortDescription - summary shown in listings.
//	Image            - URL of the trip's image.
//	PriceCents       - price per seat in currency minor units.
//	BeginDate        - start of the trip; end_date >= begin_date.
//	EndDate          - end of the trip.
//	Capacity         - total seat capacity.
//	AvailablePlaces  - remaining seats available for booking.
//	CreatedAt        - timestamp of creation.
//	UpdatedAt        - timestamp of last update.
type Trip struct {
	ID               uint64    // trips.id
	Name             string    // trips.name
	Description      string    // trips.description
	ShortDescription string    // trips.short_description
	Image            string    // trips.image
	PriceCents       uint32    // trips.price_cents
	BeginDate        time.Time // trips.begin_date
	EndDate          time.Time // trips.end_date
	Capacity         uint32    // trips.capacity
	AvailablePlaces  uint32    // trips.available_places
	CreatedAt        time.Time // trips.created_at
	UpdatedAt        time.Time // trips.updated_at
}
