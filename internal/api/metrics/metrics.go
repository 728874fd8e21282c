// Package metrics defines the custom Prometheus collectors of the notes API.
// HTTP request metrics come from echoprometheus; these count domain events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "notes"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthEventsTotal counts authentication outcomes.
// Labels:
//   - event: "register", "login", "logout", "refresh" or "renew" (middleware renewal)
//   - result: "success" or "failure"
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of authentication events, by event and result.",
	},
	[]string{"event", "result"},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// NotesCreatedTotal counts newly created notes.
// Label:
//   - visibility: "public" or "private"
var NotesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notes_created_total",
		Help:      "Total number of notes created, by visibility.",
	},
	[]string{"visibility"},
)

var CommentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_created_total",
		Help:      "Total number of comments created.",
	},
)

// ── Rate limiting ─────────────────────────────────────────────────────────────

// RateLimitedTotal counts requests rejected with 429.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)

// RateLimiterErrorsTotal counts requests let through because the counter
// store was unavailable.
var RateLimiterErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limiter_errors_total",
		Help:      "Total number of rate limiter store failures (request allowed).",
	},
)

// Result maps an error to a result label value.
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
