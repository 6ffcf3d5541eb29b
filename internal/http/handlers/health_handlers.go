package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/inventory-analytics/internal/logger"
)

// RootHandler godoc
// @Summary Service banner
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func RootHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, map[string]string{"message": "Inventory Analytics API"})
}

// HealthHandler godoc
// @Summary Health check
// @Description Pings the database and Redis when they are configured.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "healthy", Dependencies: map[string]string{}}
	status := http.StatusOK
	for name, p := range healthChecks {
		if err := p.Ping(ctx); err != nil {
			logger.FromContext(r.Context()).Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			resp.Dependencies[name] = "down"
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[name] = "up"
	}
	respond(w, r, status, resp)
}
