package handlers_test_suite

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/inventory-analytics/internal/alerts"
	"github.com/rogerio-castellano/inventory-analytics/internal/analytics"
	handler "github.com/rogerio-castellano/inventory-analytics/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-analytics/internal/models"
	"github.com/rogerio-castellano/inventory-analytics/internal/repo"
)

func TestStoreHandlers(t *testing.T) {
	e := newTestEnv(t)
	north := e.createStore(t, "Downtown", "North")
	e.createStore(t, "Airport", "South")
	empty := e.createStore(t, "Harbor", "")
	p := e.createProduct(t, "LAP-001", "Laptop", "")
	q := e.createProduct(t, "MON-001", "Monitor", "")
	e.createInventory(t, p.ID, north.ID, 10, 5)
	e.createInventory(t, q.ID, north.ID, 4, 5)

	t.Run("Duplicate name", func(t *testing.T) {
		w := e.do(http.MethodPost, "/stores", handler.StoreRequest{Name: "Downtown", Location: "Elsewhere"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Missing location", func(t *testing.T) {
		w := e.do(http.MethodPost, "/stores", handler.StoreRequest{Name: "Nowhere"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Filter by region", func(t *testing.T) {
		w := e.do(http.MethodGet, "/stores?region=South", nil)
		require.Equal(t, http.StatusOK, w.Code)
		stores := decode[[]models.Store](t, w)
		require.Len(t, stores, 1)
		assert.Equal(t, "Airport", stores[0].Name)
		assert.Equal(t, 1, totalCount(t, w))
	})

	t.Run("Stats include stores without inventory", func(t *testing.T) {
		w := e.do(http.MethodGet, "/stores/stats", nil)
		require.Equal(t, http.StatusOK, w.Code)
		stats := decode[[]repo.StoreStats](t, w)
		require.Len(t, stats, 3)

		w = e.do(http.MethodGet, path("/stores/%d/stats", north.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		one := decode[repo.StoreStats](t, w)
		assert.Equal(t, 2, one.TotalProducts)
		assert.Equal(t, 14, one.TotalItems)

		w = e.do(http.MethodGet, path("/stores/%d/stats", empty.ID), nil)
		assert.Equal(t, 0, decode[repo.StoreStats](t, w).TotalItems)

		assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/stores/999/stats", nil).Code)
	})

	t.Run("Delete refused while stocked", func(t *testing.T) {
		assert.Equal(t, http.StatusConflict, e.do(http.MethodDelete, path("/stores/%d", north.ID), nil).Code)
		assert.Equal(t, http.StatusNoContent, e.do(http.MethodDelete, path("/stores/%d", empty.ID), nil).Code)
	})
}

func TestInventoryStockStatus(t *testing.T) {
	e := newTestEnv(t)
	p := e.createProduct(t, "LAP-001", "Laptop", "")
	s := e.createStore(t, "Downtown", "North")
	inv := e.createInventory(t, p.ID, s.ID, 5, 10)

	w := e.do(http.MethodGet, path("/inventory/%d", inv.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[analytics.InventoryStatus](t, w)
	assert.Equal(t, analytics.StockLow, got.StockStatus)
	assert.Equal(t, "Laptop", got.ProductName)
	assert.Equal(t, "Downtown", got.StoreName)

	qty := 4
	w = e.do(http.MethodPut, path("/inventory/%d", inv.ID), handler.InventoryUpdateRequest{Quantity: &qty})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, path("/inventory/%d", inv.ID), nil)
	assert.Equal(t, analytics.StockCritical, decode[analytics.InventoryStatus](t, w).StockStatus)

	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/inventory/999", nil).Code)
}

func TestCreateInventoryHandler(t *testing.T) {
	e := newTestEnv(t)
	p := e.createProduct(t, "LAP-001", "Laptop", "")
	s := e.createStore(t, "Downtown", "North")

	w := e.do(http.MethodPost, "/inventory", handler.InventoryRequest{ProductID: p.ID, StoreID: s.ID, Quantity: 30})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.Inventory](t, w)
	assert.Equal(t, repo.DefaultReorderPoint, created.ReorderPoint)
	assert.Equal(t, repo.DefaultReorderQuantity, created.ReorderQuantity)

	w = e.do(http.MethodPost, "/inventory", handler.InventoryRequest{ProductID: p.ID, StoreID: s.ID, Quantity: 1})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(http.MethodPost, "/inventory", handler.InventoryRequest{ProductID: 999, StoreID: s.ID, Quantity: 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodPost, "/inventory", handler.InventoryRequest{ProductID: p.ID, StoreID: s.ID, Quantity: -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRestockAndMovements(t *testing.T) {
	e := newTestEnv(t)
	p := e.createProduct(t, "LAP-001", "Laptop", "")
	s := e.createStore(t, "Downtown", "North")
	inv := e.createInventory(t, p.ID, s.ID, 4, 10)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, path("/inventory/%d/restock", inv.ID), handler.RestockRequest{Quantity: 0}).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPost, "/inventory/999/restock", handler.RestockRequest{Quantity: 5}).Code)

	w := e.do(http.MethodPost, path("/inventory/%d/restock", inv.ID), handler.RestockRequest{Quantity: 20})
	require.Equal(t, http.StatusOK, w.Code)
	restocked := decode[models.Inventory](t, w)
	assert.Equal(t, 24, restocked.Quantity)
	require.NotNil(t, restocked.LastRestockAt)

	w = e.do(http.MethodGet, path("/inventory/%d/movements", inv.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	movements := decode[[]models.Movement](t, w)
	require.Len(t, movements, 2)
	assert.Equal(t, 2, totalCount(t, w))
	assert.Equal(t, models.MovementRestock, movements[0].Kind)
	assert.Equal(t, 20, movements[0].Delta)
	assert.Equal(t, models.MovementInitial, movements[1].Kind)

	w = e.do(http.MethodGet, path("/inventory/%d/movements?offset=1&limit=1", inv.ID), nil)
	paged := decode[[]models.Movement](t, w)
	require.Len(t, paged, 1)
	assert.Equal(t, 2, totalCount(t, w))
	assert.Equal(t, models.MovementInitial, paged[0].Kind)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, path("/inventory/%d/movements?since=yesterday", inv.ID), nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/inventory/999/movements", nil).Code)

	t.Run("Export as CSV", func(t *testing.T) {
		w := e.do(http.MethodGet, path("/inventory/%d/movements/export?format=csv", inv.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))

		rows, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"id", "inventory_id", "product_id", "store_id", "delta", "kind", "created_at"}, rows[0])
	})

	t.Run("Export as JSON", func(t *testing.T) {
		w := e.do(http.MethodGet, path("/inventory/%d/movements/export?format=json", inv.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]models.Movement](t, w), 2)
	})

	t.Run("Export with unknown format", func(t *testing.T) {
		w := e.do(http.MethodGet, path("/inventory/%d/movements/export?format=xml", inv.ID), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLowStockListingAndSummary(t *testing.T) {
	e := newTestEnv(t)
	s := e.createStore(t, "Downtown", "North")
	ok := e.createProduct(t, "OK-1", "Plenty", "")
	low := e.createProduct(t, "LOW-1", "Some", "")
	crit := e.createProduct(t, "CRI-1", "Few", "")
	e.createInventory(t, ok.ID, s.ID, 50, 10)
	e.createInventory(t, low.ID, s.ID, 10, 10)
	e.createInventory(t, crit.ID, s.ID, 2, 10)

	w := e.do(http.MethodGet, "/inventory", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[[]analytics.InventoryStatus](t, w)
	assert.Len(t, all, 3)
	assert.Equal(t, 3, totalCount(t, w))
	assert.Equal(t, "Downtown", all[0].StoreName)
	assert.Equal(t, "Plenty", all[0].ProductName)

	w = e.do(http.MethodGet, "/inventory?low_stock=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	lowOnly := decode[[]analytics.InventoryStatus](t, w)
	assert.Equal(t, 2, totalCount(t, w))
	require.Len(t, lowOnly, 2)
	for _, it := range lowOnly {
		assert.True(t, it.StockStatus.IsLow())
	}

	w = e.do(http.MethodGet, "/inventory/low-stock/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[[]analytics.InventoryStatus](t, w)
	require.Len(t, summary, 2)
	assert.Equal(t, 2, totalCount(t, w))
	assert.Equal(t, "1", w.Header().Get(handler.CriticalCountHeader))
	states := []analytics.StockState{summary[0].StockStatus, summary[1].StockStatus}
	assert.ElementsMatch(t, []analytics.StockState{analytics.StockLow, analytics.StockCritical}, states)

	t.Run("Sales history mode", func(t *testing.T) {
		// 3 units a day for 10 days: LOW at 30 or less, CRITICAL under 15.
		e.addDailySales(ok.ID, s.ID, 10, 3)

		w := e.do(http.MethodGet, "/inventory/low-stock/summary?mode=sales_history&days_of_sales=10", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[[]analytics.InventoryStatus](t, w))
		assert.Equal(t, 0, totalCount(t, w))
	})

	for _, q := range []string{"mode=weird", "days_of_sales=0", "days_of_sales=-3", "low_stock=maybe", "store_id=x"} {
		t.Run(q, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, "/inventory?"+q, nil).Code)
		})
	}
}

func TestLowStockAlerts(t *testing.T) {
	e := newTestEnv(t)
	s := e.createStore(t, "Downtown", "North")
	p := e.createProduct(t, "LAP-001", "Laptop", "")
	q := e.createProduct(t, "MON-001", "Monitor", "")
	e.createInventory(t, p.ID, s.ID, 50, 10)
	inv := e.createInventory(t, q.ID, s.ID, 3, 10)

	w := e.do(http.MethodGet, "/alerts/low-stock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[[]alerts.Alert](t, w)
	require.Len(t, got, 1)
	assert.Equal(t, inv.ID, got[0].InventoryID)
	assert.Equal(t, analytics.StockCritical, got[0].State)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, "/alerts/low-stock?limit=0", nil).Code)
}
