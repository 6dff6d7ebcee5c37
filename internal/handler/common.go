package handler

import (
	"errors"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated user's id placed into the
// context by the session middleware. Handlers behind SessionAuth can
// rely on it; a missing or zero id means the middleware did not run.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := c.Get("user_id").(uint64)
	if !ok || id == 0 {
		return 0, errors.New("no authenticated user in context")
	}
	return id, nil
}
