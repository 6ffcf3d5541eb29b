package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/inventory-analytics/internal/analytics"
	"github.com/rogerio-castellano/inventory-analytics/internal/apperr"
	"github.com/rogerio-castellano/inventory-analytics/internal/logger"
	models "github.com/rogerio-castellano/inventory-analytics/internal/models"
	repo "github.com/rogerio-castellano/inventory-analytics/internal/repo"
)

// CriticalCountHeader carries the CRITICAL share of a low-stock listing.
const CriticalCountHeader = "X-Critical-Count"

// classificationQuery reads mode and days_of_sales.
func classificationQuery(r *http.Request) (analytics.ClassificationMode, int, error) {
	q := r.URL.Query()
	mode, err := analytics.ParseClassificationMode(q.Get("mode"))
	if err != nil {
		return "", 0, err
	}
	days, err := queryInt(q, "days_of_sales")
	if err != nil {
		return "", 0, err
	}
	if days == nil {
		return mode, 0, nil
	}
	if *days <= 0 {
		return "", 0, apperr.InvalidArgument("days_of_sales must be positive")
	}
	return mode, *days, nil
}

// GetInventoryHandler godoc
// @Summary List inventory records with their stock status
// @Description With low_stock=true only LOW and CRITICAL records are returned. mode=sales_history derives the thresholds from recent sales.
// @Tags inventory
// @Produce json
// @Param store_id query int false "Store ID"
// @Param product_id query int false "Product ID"
// @Param search query string false "Matches product name, SKU or store name"
// @Param low_stock query bool false "Only LOW and CRITICAL records"
// @Param mode query string false "static (default) or sales_history"
// @Param days_of_sales query int false "Sales window for sales_history mode"
// @Param skip query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination (1-100)"
// @Success 200 {array} analytics.InventoryStatus
// @Header 200 {integer} X-Total-Count "Number of matching records before pagination"
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /inventory [get]
func GetInventoryHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, limit, err := pagination(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	storeID, err := queryInt(q, "store_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	productID, err := queryInt(q, "product_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	lowStock, err := queryBool(q, "low_stock")
	if err != nil {
		writeError(w, r, err)
		return
	}
	mode, days, err := classificationQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, total, err := analyticsService.InventoryStatus(r.Context(), analytics.InventoryQuery{
		Filter: repo.InventoryFilter{
			StoreID:   storeID,
			ProductID: productID,
			Search:    q.Get("search"),
			Offset:    offset,
			Limit:     limit,
		},
		LowStock:    lowStock,
		Mode:        mode,
		DaysOfSales: days,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondList(w, r, items, total)
}

// GetLowStockSummaryHandler godoc
// @Summary Every LOW and CRITICAL inventory record
// @Tags inventory
// @Produce json
// @Param mode query string false "static (default) or sales_history"
// @Param days_of_sales query int false "Sales window for sales_history mode"
// @Success 200 {array} analytics.InventoryStatus
// @Header 200 {integer} X-Total-Count "Number of LOW and CRITICAL records"
// @Header 200 {integer} X-Critical-Count "Number of CRITICAL records"
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /inventory/low-stock/summary [get]
func GetLowStockSummaryHandler(w http.ResponseWriter, r *http.Request) {
	mode, days, err := classificationQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary, err := analyticsService.LowStockSummary(r.Context(), mode, days)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set(CriticalCountHeader, strconv.Itoa(summary.CriticalCount))
	respondList(w, r, summary.Items, summary.Total)
}

// CreateInventoryHandler godoc
// @Summary Create an inventory record
// @Description One record per product and store. Reorder settings default to 10 and 50.
// @Tags inventory
// @Accept json
// @Produce json
// @Param inventory body InventoryRequest true "Inventory record"
// @Success 201 {object} models.Inventory
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Unknown product or store"
// @Failure 409 {object} ErrorResponse "Record already exists"
// @Router /inventory [post]
func CreateInventoryHandler(w http.ResponseWriter, r *http.Request) {
	var req InventoryRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if validationErrors := validateInventory(req); len(validationErrors) > 0 {
		writeValidationErrors(w, r, validationErrors)
		return
	}

	inv := models.Inventory{
		ProductID:       req.ProductID,
		StoreID:         req.StoreID,
		Quantity:        req.Quantity,
		ReorderPoint:    repo.DefaultReorderPoint,
		ReorderQuantity: repo.DefaultReorderQuantity,
	}
	if req.ReorderPoint != nil {
		inv.ReorderPoint = *req.ReorderPoint
	}
	if req.ReorderQuantity != nil {
		inv.ReorderQuantity = *req.ReorderQuantity
	}

	created, err := inventoryRepo.Create(r.Context(), inv)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("inventory record created",
		zap.Int("inventory_id", created.ID),
		zap.Int("product_id", created.ProductID),
		zap.Int("store_id", created.StoreID))
	respond(w, r, http.StatusCreated, created)
}

// GetInventoryByIDHandler godoc
// @Summary Get an inventory record with its stock status
// @Tags inventory
// @Produce json
// @Param id path int true "Inventory ID"
// @Success 200 {object} analytics.InventoryStatus
// @Failure 404 {object} ErrorResponse
// @Router /inventory/{id} [get]
func GetInventoryByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	inv, err := inventoryRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, analytics.InventoryStatus{
		InventoryDetails: inv,
		StockStatus:      analyticsService.Policy().ClassifyStatic(inv.Inventory),
	})
}

// UpdateInventoryHandler godoc
// @Summary Update an inventory record
// @Description Sets absolute values. A quantity change is recorded as an adjustment movement.
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path int true "Inventory ID"
// @Param inventory body InventoryUpdateRequest true "New values"
// @Success 200 {object} models.Inventory
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /inventory/{id} [put]
func UpdateInventoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req InventoryUpdateRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := inventoryRepo.Update(r.Context(), id, repo.InventoryUpdate{
		Quantity:        req.Quantity,
		ReorderPoint:    req.ReorderPoint,
		ReorderQuantity: req.ReorderQuantity,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, updated)
}

// DeleteInventoryHandler godoc
// @Summary Delete an inventory record
// @Tags inventory
// @Param id path int true "Inventory ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Router /inventory/{id} [delete]
func DeleteInventoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := inventoryRepo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("inventory record deleted", zap.Int("inventory_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// RestockInventoryHandler godoc
// @Summary Restock an inventory record
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path int true "Inventory ID"
// @Param restock body RestockRequest true "Units to add"
// @Success 200 {object} models.Inventory
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /inventory/{id}/restock [post]
func RestockInventoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req RestockRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := inventoryRepo.Restock(r.Context(), id, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("inventory restocked",
		zap.Int("inventory_id", id),
		zap.Int("quantity", req.Quantity),
		zap.Int("new_quantity", updated.Quantity))
	respond(w, r, http.StatusOK, updated)
}
