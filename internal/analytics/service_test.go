package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/inventory-analytics/internal/apperr"
	"github.com/rogerio-castellano/inventory-analytics/internal/models"
	"github.com/rogerio-castellano/inventory-analytics/internal/repo"
)

type failingInventory struct {
	repo.InventoryRepository
}

func (failingInventory) ListAll(context.Context) ([]models.Inventory, error) {
	return nil, errors.New("connection refused")
}

func (failingInventory) Filter(context.Context, repo.InventoryFilter) ([]models.InventoryDetails, int, error) {
	return nil, 0, errors.New("connection refused")
}

func newTestService(t *testing.T) (*Service, *repo.InMemoryRepositories, time.Time) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	repos := repo.NewInMemoryRepositories()

	laptop, err := repos.Products.Create(ctx, models.Product{SKU: "LAP-001", Name: "Laptop", Category: "Electronics"})
	require.NoError(t, err)
	chair, err := repos.Products.Create(ctx, models.Product{SKU: "CHR-001", Name: "Chair", Category: "Furniture"})
	require.NoError(t, err)
	downtown, err := repos.Stores.Create(ctx, models.Store{Name: "Downtown", Location: "Main St", Region: "North"})
	require.NoError(t, err)

	for _, inv := range []models.Inventory{
		{ProductID: laptop.ID, StoreID: downtown.ID, Quantity: 20, ReorderPoint: 10},
		{ProductID: chair.ID, StoreID: downtown.ID, Quantity: 4, ReorderPoint: 10},
	} {
		_, err := repos.Inventory.Create(ctx, inv)
		require.NoError(t, err)
	}
	repos.Sales.AddSale(models.SalesRecord{ProductID: laptop.ID, StoreID: downtown.ID, QuantitySold: 50, SaleDate: now.AddDate(0, 0, -2)})

	svc := NewService(Repositories{
		Products:  repos.Products,
		Stores:    repos.Stores,
		Inventory: repos.Inventory,
		Movements: repos.Movements,
		Sales:     repos.Sales,
	}, DefaultPolicy(), zap.NewNop()).WithClock(func() time.Time { return now })
	return svc, repos, now
}

func TestService_Summary(t *testing.T) {
	svc, _, _ := newTestService(t)

	s, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 24, s.TotalInventory)
	assert.Equal(t, 1, s.LowStockItems)
	assert.Equal(t, []string{"Chair"}, s.CriticalProducts)
}

func TestService_ReadFailureIsUnavailable(t *testing.T) {
	svc, repos, _ := newTestService(t)
	svc.repos.Inventory = failingInventory{repos.Inventory}

	_, err := svc.Summary(context.Background())
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))

	_, _, err = svc.InventoryStatus(context.Background(), InventoryQuery{})
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}

func TestService_ReorderValidatesBeforeReading(t *testing.T) {
	svc, repos, _ := newTestService(t)
	svc.repos.Inventory = failingInventory{repos.Inventory}

	_, err := svc.ReorderSuggestions(context.Background(), ReorderRequest{DaysOfSales: 0})
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestService_ReorderSuggestions(t *testing.T) {
	svc, _, _ := newTestService(t)

	got, err := svc.ReorderSuggestions(context.Background(), ReorderRequest{DaysOfSales: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 30, got[0].SuggestedOrder)
	assert.InDelta(t, 5.0, got[0].AverageDailySales, 1e-9)
}

func TestService_InventoryStatusModes(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	all, total, err := svc.InventoryStatus(ctx, InventoryQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, StockOK, all[0].StockStatus)
	assert.Equal(t, StockCritical, all[1].StockStatus)

	low, total, err := svc.InventoryStatus(ctx, InventoryQuery{LowStock: true})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Chair", low[0].ProductName)

	// 50 laptops sold against 20 on hand is critical by sales; the chair never sold
	low, total, err = svc.InventoryStatus(ctx, InventoryQuery{LowStock: true, Mode: ModeSalesHistory, DaysOfSales: 10})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "Laptop", low[0].ProductName)
	assert.Equal(t, StockCritical, low[0].StockStatus)

	_, _, err = svc.InventoryStatus(ctx, InventoryQuery{DaysOfSales: -1})
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestService_LowStockPagination(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		st, err := repos.Stores.Create(ctx, models.Store{Name: "Branch " + string(rune('A'+i)), Location: "x"})
		require.NoError(t, err)
		_, err = repos.Inventory.Create(ctx, models.Inventory{ProductID: 1, StoreID: st.ID, Quantity: 1, ReorderPoint: 10})
		require.NoError(t, err)
	}

	offset, limit := 1, 2
	page, total, err := svc.InventoryStatus(ctx, InventoryQuery{
		LowStock: true,
		Filter:   repo.InventoryFilter{Offset: &offset, Limit: &limit},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, page, 2)
	for _, p := range page {
		assert.True(t, p.StockStatus.IsLow())
	}
}

func TestService_LowStockSummary(t *testing.T) {
	svc, _, _ := newTestService(t)

	s, err := svc.LowStockSummary(context.Background(), ModeStatic, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, 1, s.CriticalCount)
	assert.Zero(t, s.LowCount)
	assert.Zero(t, s.DaysOfSales)

	s, err = svc.LowStockSummary(context.Background(), ModeSalesHistory, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, s.DaysOfSales)
	assert.Equal(t, 1, s.Total)
}

func TestService_Predictions(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Predictions(context.Background(), 404)
	assert.ErrorIs(t, err, repo.ErrProductNotFound)

	got, err := svc.Predictions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Laptop", got[0].ProductName)
}

func TestService_TrendsAndDailySummary(t *testing.T) {
	svc, _, now := newTestService(t)
	ctx := context.Background()

	seq, err := svc.DailySummary(ctx, SeriesQuery{Start: &now, End: &now})
	require.NoError(t, err)
	var points []TrendPoint
	for p := range seq {
		points = append(points, p)
	}
	require.Len(t, points, 1)
	assert.Equal(t, 24, points[0].Quantity)

	out, err := svc.Trends(ctx, TrendQuery{TimeRange: RangeWeek})
	require.NoError(t, err)
	assert.Len(t, out.TrendData, 30)

	_, err = svc.Trends(ctx, TrendQuery{TimeRange: "decade"})
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}
