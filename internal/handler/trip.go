package handler

import (
	"errors"   // for errors.Is comparisons
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"time"     // listing cutoff and JSON timestamps

	"github.com/labstack/echo/v4" // Echo web framework

	"trip-booking-server/internal/model"      // domain types
	"trip-booking-server/internal/repository" // repository layer
)

// TripHandler exposes the public trip catalog. Listing and detail
// lookups are read-only and require no authentication.
type TripHandler struct {
	Trips *repository.TripRepo
}

func NewTripHandler(trips *repository.TripRepo) *TripHandler {
	return &TripHandler{Trips: trips}
}

// tripResponse is the public JSON shape of a trip.
type tripResponse struct {
	ID               uint64    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"short_description"`
	Image            string    `json:"image"`
	PriceCents       uint32    `json:"price_cents"`
	BeginDate        time.Time `json:"begin_date"`
	EndDate          time.Time `json:"end_date"`
	AvailablePlaces  uint32    `json:"available_places"`
}

func toTripResponse(t model.Trip) tripResponse {
	return tripResponse{
		ID:               t.ID,
		Name:             t.Name,
		Description:      t.Description,
		ShortDescription: t.ShortDescription,
		Image:            t.Image,
		PriceCents:       t.PriceCents,
		BeginDate:        t.BeginDate,
		EndDate:          t.EndDate,
		AvailablePlaces:  t.AvailablePlaces,
	}
}

// ListTrips handles GET /trips. It returns all trips that have not yet
// begun, sorted ascending by begin date, as a bare JSON array.
func (h *TripHandler) ListTrips(c echo.Context) error {
	trips, err := h.Trips.ListUpcoming(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load trips"})
	}
	out := make([]tripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResponse(t))
	}
	return c.JSON(http.StatusOK, out)
}

// GetTrip handles GET /trips/:id and returns a single trip's details.
func (h *TripHandler) GetTrip(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
	}
	t, err := h.Trips.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load trip"})
	}
	return c.JSON(http.StatusOK, toTripResponse(*t))
}
