package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bhutuklearning/Create-Your-Notes/internal/api/cookies"
	"github.com/bhutuklearning/Create-Your-Notes/internal/api/metrics"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/ports"
)

// Session requires an authenticated user. An expired access token is renewed
// once from the refresh cookie; the new pair is written back as cookies.
// Rejected sessions have their cookies cleared; store failures pass through
// untouched as server errors.
func Session(auth ports.AuthService, tr *cookies.Transport, log zerolog.Logger) echo.MiddlewareFunc {
	return session(auth, tr, log, true)
}

// OptionalSession attaches the user when the request carries a usable
// session and otherwise continues anonymously.
func OptionalSession(auth ports.AuthService, tr *cookies.Transport, log zerolog.Logger) echo.MiddlewareFunc {
	return session(auth, tr, log, false)
}

func session(auth ports.AuthService, tr *cookies.Transport, log zerolog.Logger, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := auth.Authenticate(c.Request().Context(), tr.AccessToken(c), tr.RefreshToken(c))
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrNoToken):
				case errors.Is(err, domain.ErrSessionRejected):
					log.Debug().Err(err).Str("path", c.Path()).Msg("session rejected")
					tr.Clear(c)
				default:
					return err
				}
				if required {
					return err
				}
				return next(c)
			}

			if sess.Renewed != nil {
				tr.Set(c, *sess.Renewed)
				metrics.AuthEventsTotal.WithLabelValues("renew", metrics.ResultSuccess).Inc()
			}
			attachUser(c, sess.User)
			return next(c)
		}
	}
}
