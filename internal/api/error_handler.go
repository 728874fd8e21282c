package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bhutuklearning/Create-Your-Notes/internal/api/middleware"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to the status code of their kind.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Success: false, Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Known domain errors → deterministic HTTP codes.
	var de *domain.Error
	if errors.As(err, &de) {
		return statusFor(de.Kind), de.Msg
	}

	// Echo's own errors (bind failures, 404 from router, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("echo error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Unique index races that slipped past the service pre-checks.
	if mongo.IsDuplicateKeyError(err) {
		return http.StatusBadRequest, domain.ErrDuplicateField.Msg
	}

	// Unexpected error: log the real cause, return a generic message.
	ev := log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
	if user, ok := middleware.CurrentUser(c); ok {
		ev = ev.Str("user_id", user.ID)
	}
	ev.Msg("unhandled error")

	return http.StatusInternalServerError, "Internal server error"
}

func statusFor(k domain.Kind) int {
	switch k {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
