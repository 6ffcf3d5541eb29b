package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/inventory-analytics/internal/alerts"
	"github.com/rogerio-castellano/inventory-analytics/internal/apperr"
)

const defaultAlertLimit = 50

// GetLowStockAlertsHandler godoc
// @Summary Recent low-stock alerts
// @Description Alerts raised by inventory writes that left a record LOW or CRITICAL, newest first.
// @Tags alerts
// @Produce json
// @Param limit query int false "Number of alerts (1-100, default 50)"
// @Success 200 {array} alerts.Alert
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /alerts/low-stock [get]
func GetLowStockAlertsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r.URL.Query(), "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	n := defaultAlertLimit
	if limit != nil {
		if *limit < 1 || *limit > 100 {
			writeError(w, r, apperr.InvalidArgument("limit must be between 1 and 100"))
			return
		}
		n = *limit
	}

	recent, err := alertNotifier.Recent(r.Context(), n)
	if err != nil {
		writeError(w, r, apperr.Unavailable("failed to read alerts", err))
		return
	}
	if recent == nil {
		recent = []alerts.Alert{}
	}
	respond(w, r, http.StatusOK, recent)
}
