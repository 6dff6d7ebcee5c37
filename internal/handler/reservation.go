package handler

import (
	"context"  // publisher signature
	"errors"   // for errors.Is comparisons
	"log"      // best-effort event publishing failures are logged
	"net/http" // HTTP status codes
	"time"     // event timestamps

	"github.com/labstack/echo/v4" // Echo web framework

	"trip-booking-server/internal/queue"      // reservation event publishing
	"trip-booking-server/internal/repository" // repository layer
	"trip-booking-server/internal/service"    // booking coordinator
)

// PublishFunc delivers a confirmed-reservation event to the broker.
type PublishFunc func(ctx context.Context, event queue.ReservationConfirmedEvent) error

// ReservationHandler carries the booking coordinator and the
// repositories needed to serve the reserve and account endpoints. All
// methods assume that session authentication has already been performed
// by middleware; they may still return 401 if the user id cannot be
// extracted from the context.
type ReservationHandler struct {
	Booking      *service.BookingService
	Reservations *repository.ReservationRepo
	Trips        *repository.TripRepo
	Publish      PublishFunc
}

// NewReservationHandler constructs a ReservationHandler with the
// provided dependencies. All of them must be non-nil. Events go to
// RabbitMQ; assign Publish to reroute them.
func NewReservationHandler(booking *service.BookingService, reservations *repository.ReservationRepo, trips *repository.TripRepo) *ReservationHandler {
	if booking == nil || reservations == nil || trips == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{
		Booking:      booking,
		Reservations: reservations,
		Trips:        trips,
		Publish:      queue.PublishReservationConfirmed,
	}
}

type reserveReq struct {
	TripID        uint64 `json:"trip_id"`
	NumberOfSeats int    `json:"number_of_seats"`
}

// Reserve handles POST /reserve. The request body carries the trip id
// and the seat count; the user comes from the session. The handler
// validates the input, runs the booking transaction and reports the
// outcome as {"error": null, ...} on success or {"error": <message>}
// with a matching status code on failure.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.TripID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "trip_id is required"})
	}

	ctx := c.Request().Context()
	res, err := h.Booking.Book(ctx, userID, req.TripID, req.NumberOfSeats)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSeatCount):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "number_of_seats must be positive"})
		case errors.Is(err, repository.ErrTripNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		case errors.Is(err, repository.ErrInsufficientCapacity):
			return c.JSON(http.StatusConflict, echo.Map{"error": "not enough places available"})
		case errors.Is(err, service.ErrTxConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking conflict, please retry"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation failed"})
		}
	}

	// Publish the confirmation event best-effort: the booking already
	// committed, so a broker failure only costs the downstream log entry.
	event := queue.ReservationConfirmedEvent{
		ReservationID: res.ID,
		TripID:        res.TripID,
		UserID:        res.UserID,
		HolderName:    res.Name + " " + res.LastName,
		HolderEmail:   res.Email,
		NumberOfSeats: res.NumberOfSeats,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if trip, err := h.Trips.GetByID(ctx, res.TripID); err == nil {
		event.TripName = trip.Name
	}
	if err := h.Publish(ctx, event); err != nil {
		log.Printf("reserve: publish confirmation event failed: %v", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"error":          nil,
		"reservation_id": res.ID,
	})
}

// Account handles GET /account. It returns all reservations created by
// the current user along with trip details. When no reservations
// exist, it returns an empty array.
func (h *ReservationHandler) Account(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": details,
	})
}
