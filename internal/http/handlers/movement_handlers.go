package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/inventory-analytics/internal/apperr"
	"github.com/rogerio-castellano/inventory-analytics/internal/logger"
	repo "github.com/rogerio-castellano/inventory-analytics/internal/repo"
)

func movementWindow(q url.Values) (since, until *time.Time, err error) {
	if since, err = queryTime(q, "since"); err != nil {
		return nil, nil, err
	}
	if until, err = queryTime(q, "until"); err != nil {
		return nil, nil, err
	}
	if since != nil && until != nil && until.Before(*since) {
		return nil, nil, apperr.InvalidArgument("until must not be before since")
	}
	return since, until, nil
}

// GetMovementsHandler godoc
// @Summary Get the movement ledger of an inventory record
// @Description Newest first.
// @Tags movements
// @Produce json
// @Param id path int true "Inventory ID"
// @Param since query string false "Filter movements from this timestamp (RFC3339 or YYYY-MM-DD)"
// @Param until query string false "Filter movements until this timestamp (RFC3339 or YYYY-MM-DD)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination (1-100)"
// @Success 200 {array} models.Movement
// @Header 200 {integer} X-Total-Count "Number of matching records before pagination"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Inventory record not found"
// @Router /inventory/{id}/movements [get]
func GetMovementsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	since, until, err := movementWindow(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset, limit, err := pagination(q)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := inventoryRepo.GetByID(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	movements, total, err := movementRepo.GetByInventoryID(r.Context(), id, repo.MovementFilter{
		Since:  since,
		Until:  until,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		logger.FromContext(r.Context()).Error("could not retrieve movements", zap.Int("inventory_id", id), zap.Error(err))
		writeError(w, r, err)
		return
	}
	respondList(w, r, movements, total)
}

// ExportMovementsHandler godoc
// @Summary Export the movement ledger of an inventory record
// @Tags movements
// @Produce text/csv,application/json
// @Param id path int true "Inventory ID"
// @Param format query string true "Export format (csv or json)"
// @Param since query string false "Filter from timestamp (RFC3339 or YYYY-MM-DD)"
// @Param until query string false "Filter until timestamp (RFC3339 or YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /inventory/{id}/movements/export [get]
func ExportMovementsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	format := q.Get("format")
	if format != "csv" && format != "json" {
		writeError(w, r, apperr.InvalidArgument("format must be 'csv' or 'json'"))
		return
	}
	since, until, err := movementWindow(q)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := inventoryRepo.GetByID(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	movements, _, err := movementRepo.GetByInventoryID(r.Context(), id, repo.MovementFilter{Since: since, Until: until, All: true})
	if err != nil {
		writeError(w, r, err)
		return
	}

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="movements.json"`)
		if err := json.NewEncoder(w).Encode(movements); err != nil {
			logger.FromContext(r.Context()).Error("failed to write export", zap.Error(err))
		}

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="movements.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write([]string{"id", "inventory_id", "product_id", "store_id", "delta", "kind", "created_at"})
		for _, m := range movements {
			_ = csvWriter.Write([]string{
				strconv.Itoa(m.ID),
				strconv.Itoa(m.InventoryID),
				strconv.Itoa(m.ProductID),
				strconv.Itoa(m.StoreID),
				strconv.Itoa(m.Delta),
				string(m.Kind),
				m.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			logger.FromContext(r.Context()).Error("failed to write export", zap.Error(err))
		}
	}
}
