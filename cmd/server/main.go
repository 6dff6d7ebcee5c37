package main // Entry point package

import (
	"log"  // Logging library
	"time" // Session TTL conversion

	"github.com/joho/godotenv"              // .env loader for local development
	"github.com/labstack/echo/v4"           // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // Echo built-in middleware (CORS, logging, recovery)

	"trip-booking-server/internal/config"     // Internal config loader
	"trip-booking-server/internal/database"   // MySQL connection and migrations
	"trip-booking-server/internal/handler"    // HTTP handlers
	"trip-booking-server/internal/queue"      // reservation event consumer
	"trip-booking-server/internal/repository" // data access layer
	"trip-booking-server/internal/router"     // route registration
	"trip-booking-server/internal/service"    // booking coordinator
	"trip-booking-server/internal/session"    // session stores
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	if err := database.Migrate(db, "migrations"); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	// Sessions live in Redis when a server is reachable; otherwise fall
	// back to the in-process store so the API still works standalone.
	sessionTTL := time.Duration(cfg.SessionTTLMin) * time.Minute
	var sessions session.Store
	if rdb := config.NewRedisClient(); rdb != nil {
		sessions = session.NewRedisStore(rdb, sessionTTL)
		log.Println("sessions: using redis store")
	} else {
		sessions = session.NewMemoryStore(sessionTTL)
		log.Println("sessions: redis unavailable, using in-memory store")
	}

	tripRepo := repository.NewTripRepo(db)
	userRepo := repository.NewUserRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	booking := service.NewBookingService(db, tripRepo, userRepo, reservationRepo)

	authHandler := handler.NewAuthHandler(cfg, userRepo, sessions)
	tripHandler := handler.NewTripHandler(tripRepo)
	reservationHandler := handler.NewReservationHandler(booking, reservationRepo, tripRepo)

	e := echo.New() // Create Echo instance
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.SessionSecret, cfg.SessionTTLMin, sessions)
	router.RegisterTrips(e, tripHandler)
	router.RegisterReservations(e, reservationHandler, cfg.SessionSecret, cfg.SessionTTLMin, sessions)

	// Consume confirmed-reservation events in the background.
	go queue.StartReservationConsumer()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
