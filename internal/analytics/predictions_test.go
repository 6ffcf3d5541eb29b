package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

func TestPredictions(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	laptop := models.Product{ID: 1, Name: "Laptop"}
	snap := Snapshot{
		Products: []models.Product{laptop},
		Stores:   []models.Store{{ID: 1, Name: "Downtown"}, {ID: 2, Name: "Airport"}, {ID: 3, Name: "Mall"}},
		Inventory: []models.Inventory{
			{ID: 2, ProductID: 1, StoreID: 2, Quantity: 5, ReorderPoint: 10},
			{ID: 1, ProductID: 1, StoreID: 1, Quantity: 40, ReorderPoint: 10},
			{ID: 3, ProductID: 1, StoreID: 3, Quantity: 4, ReorderPoint: 10},
			{ID: 4, ProductID: 9, StoreID: 1, Quantity: 4, ReorderPoint: 10},
		},
	}
	for d := 1; d <= 10; d++ {
		snap.Sales = append(snap.Sales, models.SalesRecord{ProductID: 1, StoreID: 1, QuantitySold: 3, SaleDate: now.AddDate(0, 0, -d)})
	}
	snap.Sales = append(snap.Sales,
		models.SalesRecord{ProductID: 1, StoreID: 3, QuantitySold: 30, SaleDate: now.AddDate(0, 0, -2)},
		models.SalesRecord{ProductID: 1, StoreID: 1, QuantitySold: 500, SaleDate: now.AddDate(0, 0, -45)},
	)

	got := DefaultPolicy().Predictions(snap, laptop, now)
	require.Len(t, got, 3)

	downtown := got[0]
	assert.Equal(t, "Downtown", downtown.StoreName)
	assert.InDelta(t, 1.0, downtown.AverageDailySales, 1e-9)
	assert.InDelta(t, 30.0, downtown.PredictedDaysUntilReorder, 1e-9)
	assert.Equal(t, now.AddDate(0, 0, 30), downtown.RecommendedRestockDate)
	assert.InDelta(t, 10.0/30.0, downtown.ConfidenceScore, 1e-9)

	airport := got[1]
	assert.Zero(t, airport.AverageDailySales)
	assert.InDelta(t, 30.0, airport.PredictedDaysUntilReorder, 1e-9, "no velocity falls back to the window")
	assert.Zero(t, airport.ConfidenceScore)

	mall := got[2]
	assert.Zero(t, mall.PredictedDaysUntilReorder, "already below the reorder point")
	assert.Equal(t, now, mall.RecommendedRestockDate)
}
