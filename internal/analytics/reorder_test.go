package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/inventory-analytics/internal/apperr"
	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

var reorderNow = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return reorderNow.AddDate(0, 0, -n)
}

func reorderSnapshot() Snapshot {
	return Snapshot{
		Products: []models.Product{
			{ID: 1, SKU: "LAP-001", Name: "Laptop"},
			{ID: 2, SKU: "CHR-001", Name: "Chair"},
		},
		Stores: []models.Store{
			{ID: 1, Name: "Downtown"},
			{ID: 2, Name: "Airport"},
		},
		Inventory: []models.Inventory{
			{ID: 4, ProductID: 2, StoreID: 2, Quantity: 100},
			{ID: 3, ProductID: 2, StoreID: 1, Quantity: 3},
			{ID: 2, ProductID: 1, StoreID: 2, Quantity: 7},
			{ID: 1, ProductID: 1, StoreID: 1, Quantity: 20},
		},
		Sales: []models.SalesRecord{
			{ProductID: 1, StoreID: 1, QuantitySold: 10, SaleDate: daysAgo(1)},
			{ProductID: 1, StoreID: 1, QuantitySold: 10, SaleDate: daysAgo(3)},
			{ProductID: 1, StoreID: 1, QuantitySold: 10, SaleDate: daysAgo(5)},
			{ProductID: 1, StoreID: 1, QuantitySold: 10, SaleDate: daysAgo(7)},
			{ProductID: 1, StoreID: 1, QuantitySold: 10, SaleDate: daysAgo(10)},
			{ProductID: 1, StoreID: 1, QuantitySold: 99, SaleDate: daysAgo(11)},
			{ProductID: 2, StoreID: 2, QuantitySold: 50, SaleDate: daysAgo(2)},
			{ProductID: 2, StoreID: 1, QuantitySold: 4, SaleDate: daysAgo(2)},
		},
	}
}

func TestReorderSuggestions_VelocityAndOrderSize(t *testing.T) {
	got, err := ReorderSuggestions(reorderSnapshot(), ReorderRequest{DaysOfSales: 10}, reorderNow)
	require.NoError(t, err)
	require.Len(t, got, 3)

	first := got[0]
	assert.Equal(t, 1, first.ProductID)
	assert.Equal(t, 1, first.StoreID)
	assert.Equal(t, "Laptop", first.ProductName)
	assert.Equal(t, "LAP-001", first.ProductSKU)
	assert.Equal(t, "Downtown", first.StoreName)
	assert.Equal(t, 50, first.TotalSales)
	assert.InDelta(t, 5.0, first.AverageDailySales, 1e-9)
	assert.Equal(t, 30, first.SuggestedOrder)
	assert.Equal(t, 10, first.DaysOfSales)
}

func TestReorderSuggestions_OmitsPairsWithoutSales(t *testing.T) {
	got, err := ReorderSuggestions(reorderSnapshot(), ReorderRequest{DaysOfSales: 10}, reorderNow)
	require.NoError(t, err)

	for _, s := range got {
		assert.False(t, s.ProductID == 1 && s.StoreID == 2, "laptop at airport has no sales")
		assert.Positive(t, s.TotalSales)
		assert.GreaterOrEqual(t, s.SuggestedOrder, 0)
	}
}

func TestReorderSuggestions_NeverNegative(t *testing.T) {
	got, err := ReorderSuggestions(reorderSnapshot(), ReorderRequest{DaysOfSales: 10, StoreID: intPtr(2)}, reorderNow)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 100, got[0].CurrentQuantity)
	assert.Equal(t, 0, got[0].SuggestedOrder)
}

func TestReorderSuggestions_DeterministicOrder(t *testing.T) {
	a, err := ReorderSuggestions(reorderSnapshot(), ReorderRequest{DaysOfSales: 30}, reorderNow)
	require.NoError(t, err)
	b, err := ReorderSuggestions(reorderSnapshot(), ReorderRequest{DaysOfSales: 30}, reorderNow)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	for i := 1; i < len(a); i++ {
		prev, cur := a[i-1], a[i]
		assert.True(t, prev.ProductID < cur.ProductID || (prev.ProductID == cur.ProductID && prev.StoreID < cur.StoreID))
	}
}

func TestReorderSuggestions_Filters(t *testing.T) {
	got, err := ReorderSuggestions(reorderSnapshot(), ReorderRequest{DaysOfSales: 10, ProductID: intPtr(2), StoreID: intPtr(1)}, reorderNow)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].TotalSales)
	assert.Equal(t, 1, got[0].SuggestedOrder)
}

func TestReorderSuggestions_RejectsNonPositiveDays(t *testing.T) {
	for _, days := range []int{0, -3} {
		_, err := ReorderSuggestions(reorderSnapshot(), ReorderRequest{DaysOfSales: days}, reorderNow)
		assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	}
}

func intPtr(v int) *int {
	return &v
}
