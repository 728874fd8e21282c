package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func serveReadiness(t *testing.T, checks map[string]Check) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

	if err := NewHealthDependenciesHandler(checks).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec, resp
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()

	if err := NewHealthHandler().Liveness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness_AllHealthy(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	rec, resp := serveReadiness(t, map[string]Check{
		"redis":   RedisCheck(rdb),
		"mongodb": func(context.Context) error { return nil },
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp.Status != "ok" || resp.Dependencies["redis"].Status != "ok" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestReadiness_DependencyDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	rec, resp := serveReadiness(t, map[string]Check{
		"redis":   RedisCheck(rdb),
		"mongodb": func(context.Context) error { return errors.New("server selection timeout") },
	})

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if resp.Status != "degraded" {
		t.Fatalf("expected degraded, got %q", resp.Status)
	}
	if resp.Dependencies["mongodb"].Error != "server selection timeout" {
		t.Fatalf("expected mongodb error to be reported, got %+v", resp.Dependencies["mongodb"])
	}
	if resp.Dependencies["redis"].Status != "unhealthy" {
		t.Fatalf("expected redis to be unhealthy, got %+v", resp.Dependencies["redis"])
	}
}
