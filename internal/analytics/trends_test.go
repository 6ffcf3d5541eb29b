package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/inventory-analytics/internal/apperr"
	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

func dayTrend(t *testing.T, snap Snapshot) TrendAnalysis {
	t.Helper()
	out, err := DefaultPolicy().TrendAnalysis(snap, TrendQuery{
		TimeRange: RangeDay,
		Start:     ptime(at(1, 0)),
		End:       ptime(at(10, 0)),
	}, seriesNow)
	require.NoError(t, err)
	return out
}

func TestTrendAnalysis_GrowthAndExtremes(t *testing.T) {
	out := dayTrend(t, ledgerSnapshot())

	require.Len(t, out.TrendData, 10)
	assert.InDelta(t, -60.0, out.OverallGrowthRate, 1e-9)
	assert.Equal(t, at(1, 0), out.PeakPeriod, "ties go to the earliest bucket")
	assert.Equal(t, at(3, 0), out.LowPeriod)

	require.Len(t, out.Categories, 1)
	assert.Equal(t, "Electronics", out.Categories[0].Category)
	assert.InDelta(t, -60.0, out.Categories[0].GrowthRate, 1e-9)

	require.Len(t, out.Products, 1)
	assert.InDelta(t, 0.1, out.Products[0].RestockFrequency, 1e-9)
	assert.Zero(t, out.Products[0].StockOutFrequency)

	require.Len(t, out.Stores, 1)
	assert.InDelta(t, 11.9, out.Stores[0].AverageInventoryLevel, 1e-9)
	assert.Equal(t, at(1, 0), out.Stores[0].PeakInventoryDate)
	assert.Equal(t, at(3, 0), out.Stores[0].LowInventoryDate)

	require.NotEmpty(t, out.Recommendations)
	assert.True(t, strings.HasPrefix(out.Recommendations[0], "Increase stock for category Electronics"))
}

func TestTrendAnalysis_ZeroFirstBucketHasNoGrowth(t *testing.T) {
	out, err := DefaultPolicy().TrendAnalysis(ledgerSnapshot(), TrendQuery{
		TimeRange: RangeDay,
		Start:     ptime(time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)),
		End:       ptime(at(10, 0)),
	}, seriesNow)
	require.NoError(t, err)

	assert.Zero(t, out.TrendData[0].Quantity)
	assert.Zero(t, out.OverallGrowthRate)
	assert.Zero(t, growthRate([]TrendPoint{{Quantity: 0}, {Quantity: 10}}))
}

func TestTrendAnalysis_StockOutRecommendation(t *testing.T) {
	snap := Snapshot{
		Products:  []models.Product{{ID: 7, Name: "Widget"}},
		Stores:    []models.Store{{ID: 1, Name: "Downtown"}},
		Inventory: []models.Inventory{{ID: 3, ProductID: 7, StoreID: 1, Quantity: 0, ReorderPoint: 10, CreatedAt: at(1, 9)}},
		Movements: []models.Movement{
			{InventoryID: 3, ProductID: 7, StoreID: 1, Delta: 5, Kind: models.MovementInitial, CreatedAt: at(1, 9)},
			{InventoryID: 3, ProductID: 7, StoreID: 1, Delta: -5, Kind: models.MovementAdjustment, CreatedAt: at(2, 10)},
		},
	}
	out := dayTrend(t, snap)

	require.Len(t, out.Categories, 1)
	assert.Equal(t, "Uncategorized", out.Categories[0].Category)
	assert.InDelta(t, 0.9, out.Products[0].StockOutFrequency, 1e-9)
	assert.Contains(t, out.Recommendations, "Increase reorder point for Widget to reduce stock outs")
	for _, r := range out.Recommendations {
		assert.NotContains(t, r, "stable")
	}
}

func TestTrendAnalysis_GrowthRecommendation(t *testing.T) {
	snap := Snapshot{
		Products:  []models.Product{{ID: 1, Name: "Desk", Category: "Furniture"}},
		Stores:    []models.Store{{ID: 1, Name: "Downtown"}},
		Inventory: []models.Inventory{{ID: 1, ProductID: 1, StoreID: 1, Quantity: 20, ReorderPoint: 2, CreatedAt: at(1, 9)}},
		Movements: []models.Movement{
			{InventoryID: 1, ProductID: 1, StoreID: 1, Delta: 10, Kind: models.MovementInitial, CreatedAt: at(1, 9)},
			{InventoryID: 1, ProductID: 1, StoreID: 1, Delta: 10, Kind: models.MovementRestock, CreatedAt: at(5, 9)},
		},
	}
	out := dayTrend(t, snap)

	assert.InDelta(t, 100.0, out.OverallGrowthRate, 1e-9)
	require.Len(t, out.Recommendations, 1)
	assert.True(t, strings.HasPrefix(out.Recommendations[0], "Category Furniture grew by 100.0%"))
}

func TestTrendAnalysis_RestockReviewRecommendation(t *testing.T) {
	snap := Snapshot{
		Products:  []models.Product{{ID: 1, Name: "Desk", Category: "Furniture"}},
		Stores:    []models.Store{{ID: 1, Name: "Downtown"}},
		Inventory: []models.Inventory{{ID: 1, ProductID: 1, StoreID: 1, Quantity: 10, ReorderPoint: 2, CreatedAt: at(1, 9)}},
	}
	for day := 1; day <= 10; day++ {
		snap.Movements = append(snap.Movements,
			models.Movement{InventoryID: 1, ProductID: 1, StoreID: 1, Delta: 5, Kind: models.MovementRestock, CreatedAt: at(day, 10)},
			models.Movement{InventoryID: 1, ProductID: 1, StoreID: 1, Delta: -5, Kind: models.MovementAdjustment, CreatedAt: at(day, 18)},
		)
	}
	out := dayTrend(t, snap)

	assert.InDelta(t, 1.0, out.Products[0].RestockFrequency, 1e-9)
	assert.Equal(t, []string{"Review reorder quantity for Desk to optimize restocking frequency"}, out.Recommendations)
}

func TestTrendAnalysis_StableInventory(t *testing.T) {
	snap := Snapshot{
		Products:  []models.Product{{ID: 1, Name: "Desk", Category: "Furniture"}},
		Stores:    []models.Store{{ID: 1, Name: "Downtown"}},
		Inventory: []models.Inventory{{ID: 1, ProductID: 1, StoreID: 1, Quantity: 50, ReorderPoint: 10, CreatedAt: at(1, 0).AddDate(0, -1, 0)}},
	}
	out := dayTrend(t, snap)

	assert.Zero(t, out.OverallGrowthRate)
	assert.Equal(t, []string{"Inventory levels are stable across all categories"}, out.Recommendations)
}

func TestTrendAnalysis_BucketWidths(t *testing.T) {
	policy := DefaultPolicy()

	week, err := policy.TrendAnalysis(ledgerSnapshot(), TrendQuery{TimeRange: RangeWeek, Start: ptime(at(1, 0)), End: ptime(at(10, 0))}, seriesNow)
	require.NoError(t, err)
	require.Len(t, week.TrendData, 2)
	assert.Equal(t, at(8, 0), week.TrendData[1].Timestamp)
	assert.Equal(t, 15, week.TrendData[0].Quantity)
	assert.Equal(t, 1, week.TrendData[0].RestockCount)

	month, err := policy.TrendAnalysis(ledgerSnapshot(), TrendQuery{TimeRange: RangeMonth, Start: ptime(at(1, 0)), End: ptime(at(10, 0))}, seriesNow)
	require.NoError(t, err)
	require.Len(t, month.TrendData, 1)
	assert.Equal(t, 8, month.TrendData[0].Quantity)

	def, err := policy.TrendAnalysis(ledgerSnapshot(), TrendQuery{TimeRange: RangeDay}, seriesNow)
	require.NoError(t, err)
	assert.Len(t, def.TrendData, 30)
}

func TestTrendAnalysis_InvalidQueries(t *testing.T) {
	policy := DefaultPolicy()

	_, err := policy.TrendAnalysis(ledgerSnapshot(), TrendQuery{TimeRange: "year"}, seriesNow)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))

	_, err = policy.TrendAnalysis(ledgerSnapshot(), TrendQuery{TimeRange: RangeDay, Start: ptime(at(9, 0)), End: ptime(at(2, 0))}, seriesNow)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))

	_, err = policy.TrendAnalysis(ledgerSnapshot(), TrendQuery{TimeRange: RangeDay, Start: ptime(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))}, seriesNow)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}
