package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/bhutuklearning/Create-Your-Notes/internal/api/middleware"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
)

var errInvalidPayload = domain.Validation("Invalid request payload")

// sessionUser returns the user attached by the session middleware. Routes
// wired without a session fail fast with 401.
func sessionUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, domain.ErrAuthRequired
	}
	return user, nil
}

// viewerID is the attached user's id, or "" for anonymous requests.
func viewerID(c echo.Context) string {
	if user, ok := middleware.CurrentUser(c); ok {
		return user.ID
	}
	return ""
}

// bindAndValidate decodes the request into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errInvalidPayload
	}
	return c.Validate(req)
}
