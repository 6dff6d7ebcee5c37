package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"trip-booking-server/internal/handler"    // import the handlers that implement business logic
	"trip-booking-server/internal/middleware" // import middleware for session authentication
	"trip-booking-server/internal/session"    // session store consumed by the middleware
)

// RegisterRoutes registers routes that do not depend on any handler
// state. Currently it exposes only a health check that load balancers
// and monitoring systems can probe.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Signup, login
// and logout manage the session cookie themselves and therefore sit
// outside the protected group; /me demonstrates a session-guarded
// endpoint returning the caller's identity.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, secret string, ttlMin int, store session.Store) {
	e.POST("/signin", a.SignIn)
	e.POST("/login", a.Login)
	e.POST("/logout", a.Logout)

	auth := e.Group("")
	auth.Use(middleware.SessionAuth(secret, ttlMin, store))
	auth.GET("/me", a.Me)
}

// RegisterTrips registers the public trip catalog endpoints. These
// routes apply no session middleware; guests can browse trips before
// signing up.
func RegisterTrips(e *echo.Echo, t *handler.TripHandler) {
	e.GET("/trips", t.ListTrips)
	e.GET("/trips/:id", t.GetTrip)
}

// RegisterReservations registers the booking endpoints. Both require a
// valid session: the reserve endpoint needs a user to attribute the
// reservation to and the account endpoint lists that user's bookings.
func RegisterReservations(e *echo.Echo, r *handler.ReservationHandler, secret string, ttlMin int, store session.Store) {
	auth := e.Group("")
	auth.Use(middleware.SessionAuth(secret, ttlMin, store))
	auth.POST("/reserve", r.Reserve)
	auth.GET("/account", r.Account)
}
