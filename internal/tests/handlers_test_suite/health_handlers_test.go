package handlers_test_suite

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handler "github.com/rogerio-castellano/inventory-analytics/internal/http/handlers"
	mw "github.com/rogerio-castellano/inventory-analytics/internal/http/middleware"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode[handler.HealthResponse](t, w).Status)
	assert.NotEmpty(t, w.Header().Get(mw.RequestIDHeader))

	handler.SetHealthCheck("database", pingerFunc(func(context.Context) error { return nil }))
	handler.SetHealthCheck("redis", pingerFunc(func(context.Context) error { return errors.New("connection refused") }))
	t.Cleanup(handler.ResetHealthChecks)

	w = e.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decode[handler.HealthResponse](t, w)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, map[string]string{"database": "up", "redis": "down"}, resp.Dependencies)
}

func TestRootAndSwagger(t *testing.T) {
	e := newTestEnv(t)

	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/", nil).Code)

	w := e.do(http.MethodGet, "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/purchase-orders/calculate-reorder")
}

func TestUnknownRoute(t *testing.T) {
	e := newTestEnv(t)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/metrics", nil).Code)
}
