package middleware

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bhutuklearning/Create-Your-Notes/internal/api/metrics"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/ports"
)

const (
	HeaderRateLimitLimit     = "RateLimit-Limit"
	HeaderRateLimitRemaining = "RateLimit-Remaining"
	HeaderRateLimitReset     = "RateLimit-Reset"
)

// RateLimit charges every request to the client IP. Paths under any of the
// skip prefixes are not counted. When the counter store fails the request
// is let through.
func RateLimit(limiter ports.RateLimiter, log zerolog.Logger, skipPrefixes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, p := range skipPrefixes {
				if strings.HasPrefix(path, p) {
					return next(c)
				}
			}

			decision, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				metrics.RateLimiterErrorsTotal.Inc()
				log.Warn().Err(err).Str("path", path).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			reset := int(math.Ceil(time.Until(decision.ResetAt).Seconds()))
			if reset < 0 {
				reset = 0
			}
			h := c.Response().Header()
			h.Set(HeaderRateLimitLimit, strconv.Itoa(decision.Limit))
			h.Set(HeaderRateLimitRemaining, strconv.Itoa(decision.Remaining))
			h.Set(HeaderRateLimitReset, strconv.Itoa(reset))

			if !decision.Allowed {
				metrics.RateLimitedTotal.Inc()
				h.Set(echo.HeaderRetryAfter, strconv.Itoa(reset))
				return domain.ErrRateLimited
			}
			return next(c)
		}
	}
}
