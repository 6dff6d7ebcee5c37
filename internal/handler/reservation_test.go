package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"trip-booking-server/internal/queue"
	"trip-booking-server/internal/repository"
	"trip-booking-server/internal/service"
)

func newReservationMock(t *testing.T) (*ReservationHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	trips := repository.NewTripRepo(db)
	reservations := repository.NewReservationRepo(db)
	booking := service.NewBookingService(db, trips, repository.NewUserRepo(db), reservations)
	return NewReservationHandler(booking, reservations, trips), mock
}

// doAuthed runs the handler with a user id already injected into the
// context, the way the session middleware does for protected routes.
func doAuthed(t *testing.T, h echo.HandlerFunc, userID uint64, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user_id", userID)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec
}

func TestReserveSuccess(t *testing.T) {
	h, mock := newReservationMock(t)
	ts := time.Now().UTC()
	begin := time.Date(2027, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT available_places FROM trips WHERE id = ? FOR UPDATE`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"available_places"}).AddRow(uint32(10)))
	mock.ExpectQuery(`SELECT id,name,last_name,email,password_hash,created_at,updated_at FROM users WHERE id=? LIMIT 1`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "last_name", "email", "password_hash", "created_at", "updated_at"}).
			AddRow(42, "Jan", "Kowalski", "jan@example.com", "$2a$04$hash", ts, ts))
	mock.ExpectExec(`UPDATE trips SET available_places = available_places - ? WHERE id = ? AND available_places >= ?`).
		WithArgs(uint32(2), uint64(1), uint32(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO reservations (trip_id, user_id, name, last_name, email, number_of_seats) VALUES (?, ?, ?, ?, ?, ?)`).
		WithArgs(uint64(1), uint64(42), "Jan", "Kowalski", "jan@example.com", uint32(2)).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(`SELECT created_at FROM reservations WHERE id = ?`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(ts))
	mock.ExpectCommit()
	// The confirmation event names the trip.
	mock.ExpectQuery(tripSelectColumns + `WHERE id = ? LIMIT 1`).
		WithArgs(uint64(1)).
		WillReturnRows(tripRows().
			AddRow(1, "Szczyt wszystkiego", "desc", "short", "img.jpg", 99900, begin, begin.AddDate(0, 0, 7), 10, 8, ts, ts))

	var published []queue.ReservationConfirmedEvent
	h.Publish = func(ctx context.Context, event queue.ReservationConfirmedEvent) error {
		published = append(published, event)
		return nil
	}

	rec := doAuthed(t, h.Reserve, 42, http.MethodPost, "/reserve",
		`{"trip_id":1,"number_of_seats":2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["error"] != nil {
		t.Errorf("error = %v, want null", resp["error"])
	}
	if resp["reservation_id"] != float64(7) {
		t.Errorf("reservation_id = %v, want 7", resp["reservation_id"])
	}

	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}
	event := published[0]
	if event.ReservationID != 7 || event.TripID != 1 || event.UserID != 42 {
		t.Errorf("event = %+v", event)
	}
	if event.TripName != "Szczyt wszystkiego" || event.NumberOfSeats != 2 {
		t.Errorf("event = %+v", event)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestReserveSucceedsWhenPublishFails(t *testing.T) {
	h, mock := newReservationMock(t)
	ts := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT available_places FROM trips WHERE id = ? FOR UPDATE`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"available_places"}).AddRow(uint32(10)))
	mock.ExpectQuery(`SELECT id,name,last_name,email,password_hash,created_at,updated_at FROM users WHERE id=? LIMIT 1`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "last_name", "email", "password_hash", "created_at", "updated_at"}).
			AddRow(42, "Jan", "Kowalski", "jan@example.com", "$2a$04$hash", ts, ts))
	mock.ExpectExec(`UPDATE trips SET available_places = available_places - ? WHERE id = ? AND available_places >= ?`).
		WithArgs(uint32(2), uint64(1), uint32(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO reservations (trip_id, user_id, name, last_name, email, number_of_seats) VALUES (?, ?, ?, ?, ?, ?)`).
		WithArgs(uint64(1), uint64(42), "Jan", "Kowalski", "jan@example.com", uint32(2)).
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectQuery(`SELECT created_at FROM reservations WHERE id = ?`).
		WithArgs(uint64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(ts))
	mock.ExpectCommit()
	mock.ExpectQuery(tripSelectColumns + `WHERE id = ? LIMIT 1`).
		WithArgs(uint64(1)).
		WillReturnRows(tripRows())

	h.Publish = func(ctx context.Context, event queue.ReservationConfirmedEvent) error {
		return errors.New("broker unreachable")
	}

	// The booking committed; a broker failure must not turn a 201 into
	// an error.
	rec := doAuthed(t, h.Reserve, 42, http.MethodPost, "/reserve",
		`{"trip_id":1,"number_of_seats":2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestReserveRequiresSession(t *testing.T) {
	h, _ := newReservationMock(t)

	rec := doAuthed(t, h.Reserve, 0, http.MethodPost, "/reserve",
		`{"trip_id":1,"number_of_seats":2}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestReserveMissingTripID(t *testing.T) {
	h, mock := newReservationMock(t)

	rec := doAuthed(t, h.Reserve, 42, http.MethodPost, "/reserve",
		`{"number_of_seats":2}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected store access: %v", err)
	}
}

func TestReserveInvalidSeatCount(t *testing.T) {
	h, mock := newReservationMock(t)

	rec := doAuthed(t, h.Reserve, 42, http.MethodPost, "/reserve",
		`{"trip_id":1,"number_of_seats":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected store access: %v", err)
	}
}

func TestReserveInsufficientCapacity(t *testing.T) {
	h, mock := newReservationMock(t)
	ts := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT available_places FROM trips WHERE id = ? FOR UPDATE`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"available_places"}).AddRow(uint32(1)))
	mock.ExpectQuery(`SELECT id,name,last_name,email,password_hash,created_at,updated_at FROM users WHERE id=? LIMIT 1`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "last_name", "email", "password_hash", "created_at", "updated_at"}).
			AddRow(42, "Jan", "Kowalski", "jan@example.com", "$2a$04$hash", ts, ts))
	mock.ExpectExec(`UPDATE trips SET available_places = available_places - ? WHERE id = ? AND available_places >= ?`).
		WithArgs(uint32(4), uint64(1), uint32(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	rec := doAuthed(t, h.Reserve, 42, http.MethodPost, "/reserve",
		`{"trip_id":1,"number_of_seats":4}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["error"] != "not enough places available" {
		t.Errorf("error = %v", resp["error"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestReserveUnknownTrip(t *testing.T) {
	h, mock := newReservationMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT available_places FROM trips WHERE id = ? FOR UPDATE`).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"available_places"}))
	mock.ExpectRollback()

	rec := doAuthed(t, h.Reserve, 42, http.MethodPost, "/reserve",
		`{"trip_id":99,"number_of_seats":2}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAccountListsReservations(t *testing.T) {
	h, mock := newReservationMock(t)
	begin := time.Date(2027, 7, 1, 0, 0, 0, 0, time.UTC)
	end := begin.AddDate(0, 0, 14)
	created := time.Now().UTC()

	mock.ExpectQuery(`SELECT r.id, r.trip_id, t.name, t.begin_date, t.end_date, t.price_cents, r.number_of_seats, r.created_at FROM reservations r JOIN trips t ON t.id = r.trip_id WHERE r.user_id = ? ORDER BY r.created_at DESC`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "trip_id", "name", "begin_date", "end_date", "price_cents", "number_of_seats", "created_at"}).
			AddRow(7, 1, "Dalekie morze", begin, end, 129900, 2, created))

	rec := doAuthed(t, h.Account, 42, http.MethodGet, "/account", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Items []repository.ReservationDetail `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(resp.Items))
	}
	if resp.Items[0].TripName != "Dalekie morze" || resp.Items[0].NumberOfSeats != 2 {
		t.Errorf("item = %+v", resp.Items[0])
	}
}

func TestAccountEmpty(t *testing.T) {
	h, mock := newReservationMock(t)

	mock.ExpectQuery(`SELECT r.id, r.trip_id, t.name, t.begin_date, t.end_date, t.price_cents, r.number_of_seats, r.created_at FROM reservations r JOIN trips t ON t.id = r.trip_id WHERE r.user_id = ? ORDER BY r.created_at DESC`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "trip_id", "name", "begin_date", "end_date", "price_cents", "number_of_seats", "created_at"}))

	rec := doAuthed(t, h.Account, 42, http.MethodGet, "/account", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Errorf("expected empty items array, body %s", rec.Body.String())
	}
}
