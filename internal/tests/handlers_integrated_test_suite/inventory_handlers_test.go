package handlers_integrated_test_suite

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/inventory-analytics/internal/analytics"
	handler "github.com/rogerio-castellano/inventory-analytics/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-analytics/internal/models"
	"github.com/rogerio-castellano/inventory-analytics/internal/purchasing"
)

func TestConcurrentRestocksKeepLedgerConsistent(t *testing.T) {
	clearAll(t)
	_, _, inv := seedInventory(t, 4, 10)

	const workers = 10
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			do(http.MethodPost, fmt.Sprintf("/inventory/%d/restock", inv.ID), handler.RestockRequest{Quantity: 3})
		}()
	}
	wg.Wait()

	w := do(http.MethodGet, fmt.Sprintf("/inventory/%d", inv.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[analytics.InventoryStatus](t, w)
	assert.Equal(t, 4+workers*3, got.Quantity)
	assert.Equal(t, analytics.StockOK, got.StockStatus)

	w = do(http.MethodGet, fmt.Sprintf("/inventory/%d/movements?limit=100", inv.ID), nil)
	movements := decode[[]models.Movement](t, w)
	assert.Equal(t, workers+1, totalCount(t, w))
	sum := 0
	for _, m := range movements {
		sum += m.Delta
	}
	assert.Equal(t, got.Quantity, sum)
}

func TestDuplicateInventoryIsRejected(t *testing.T) {
	clearAll(t)
	p, s, _ := seedInventory(t, 4, 10)

	w := do(http.MethodPost, "/inventory", handler.InventoryRequest{ProductID: p.ID, StoreID: s.ID, Quantity: 1})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(http.MethodDelete, fmt.Sprintf("/products/%d", p.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReceivingAnOrderBooksStockOnce(t *testing.T) {
	clearAll(t)
	p, s, inv := seedInventory(t, 5, 10)

	w := do(http.MethodPost, "/purchase-orders", purchasing.CreateOrderRequest{
		StoreID: s.ID,
		Status:  "approved",
		Items:   []purchasing.ItemRequest{{ProductID: p.ID, Quantity: 20}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[handler.PurchaseOrderResponse](t, w)

	for range 2 {
		w = do(http.MethodPut, fmt.Sprintf("/purchase-orders/%d", order.ID), handler.OrderStatusRequest{Status: "received"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = do(http.MethodGet, fmt.Sprintf("/inventory/%d", inv.ID), nil)
	assert.Equal(t, 25, decode[models.Inventory](t, w).Quantity)
}
