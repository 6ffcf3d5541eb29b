package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/inventory-analytics/internal/alerts"
	"github.com/rogerio-castellano/inventory-analytics/internal/analytics"
	handler "github.com/rogerio-castellano/inventory-analytics/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-analytics/internal/http/router"
	"github.com/rogerio-castellano/inventory-analytics/internal/models"
	"github.com/rogerio-castellano/inventory-analytics/internal/purchasing"
	"github.com/rogerio-castellano/inventory-analytics/internal/repo"
)

// testEnv is a router over fresh in-memory repositories.
type testEnv struct {
	r     http.Handler
	repos *repo.InMemoryRepositories
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repos := repo.NewInMemoryRepositories()
	policy := analytics.DefaultPolicy()
	notifier := alerts.NewNotifier(policy, alerts.NewMemoryPublisher(100), zap.NewNop())
	inventory := alerts.NewNotifyingInventory(repos.Inventory, notifier)

	handler.SetProductRepo(repos.Products)
	handler.SetStoreRepo(repos.Stores)
	handler.SetInventoryRepo(inventory)
	handler.SetMovementRepo(repos.Movements)
	handler.SetAnalyticsService(analytics.NewService(analytics.Repositories{
		Products:  repos.Products,
		Stores:    repos.Stores,
		Inventory: inventory,
		Movements: repos.Movements,
		Sales:     repos.Sales,
	}, policy, zap.NewNop()))
	handler.SetPurchasingService(purchasing.NewService(repos.Orders, inventory, zap.NewNop()))
	handler.SetAlertNotifier(notifier)
	handler.ResetHealthChecks()

	return &testEnv{
		r:     router.NewRouter(router.Options{Logger: zap.NewNop(), Swagger: true}),
		repos: repos,
	}
}

func (e *testEnv) do(method, path string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), "body: %s", w.Body.String())
	return v
}

// totalCount reads the pre-pagination count of a list response.
func totalCount(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	n, err := strconv.Atoi(w.Header().Get(handler.TotalCountHeader))
	require.NoError(t, err, "missing %s header", handler.TotalCountHeader)
	return n
}

func (e *testEnv) createProduct(t *testing.T, sku, name, category string) models.Product {
	t.Helper()
	w := e.do(http.MethodPost, "/products", handler.ProductRequest{SKU: sku, Name: name, Category: category})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Product](t, w)
}

func (e *testEnv) createStore(t *testing.T, name, region string) models.Store {
	t.Helper()
	w := e.do(http.MethodPost, "/stores", handler.StoreRequest{Name: name, Location: name + " street", Region: region})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Store](t, w)
}

func (e *testEnv) createInventory(t *testing.T, productID, storeID, quantity, reorderPoint int) models.Inventory {
	t.Helper()
	w := e.do(http.MethodPost, "/inventory", handler.InventoryRequest{
		ProductID:    productID,
		StoreID:      storeID,
		Quantity:     quantity,
		ReorderPoint: &reorderPoint,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Inventory](t, w)
}

// addDailySales records perDay units sold on each of the last days days.
func (e *testEnv) addDailySales(productID, storeID, days, perDay int) {
	now := time.Now().UTC()
	for i := 0; i < days; i++ {
		e.repos.Sales.AddSale(models.SalesRecord{
			ProductID:    productID,
			StoreID:      storeID,
			QuantitySold: perDay,
			SaleDate:     now.Add(-time.Duration(i) * 24 * time.Hour),
		})
	}
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func path(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
