package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/inventory-analytics/internal/apperr"
	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

func TestClassifyStatic(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		quantity int
		want     StockState
	}{
		{0, StockCritical},
		{4, StockCritical},
		{5, StockLow},
		{10, StockLow},
		{11, StockOK},
		{500, StockOK},
	}
	for _, tt := range tests {
		got := policy.ClassifyStatic(models.Inventory{Quantity: tt.quantity, ReorderPoint: 10})
		assert.Equal(t, tt.want, got, "quantity %d", tt.quantity)
	}
}

func severity(s StockState) int {
	switch s {
	case StockCritical:
		return 2
	case StockLow:
		return 1
	}
	return 0
}

func TestClassifyIsMonotonicInQuantity(t *testing.T) {
	for _, th := range []Thresholds{{Low: 10, Critical: 5}, {Low: 7, Critical: 3.5}, {Low: 0, Critical: 0}} {
		prev := severity(Classify(0, th))
		for q := 1; q <= 40; q++ {
			cur := severity(Classify(q, th))
			assert.LessOrEqual(t, cur, prev, "quantity %d thresholds %+v", q, th)
			prev = cur
		}
	}
}

func TestClassifierSalesHistory(t *testing.T) {
	suggestions := []ReorderSuggestion{{ProductID: 1, StoreID: 1, TotalSales: 20}}
	c := NewClassifier(ModeSalesHistory, DefaultPolicy(), suggestions)

	assert.Equal(t, ModeSalesHistory, c.Mode())
	assert.Equal(t, StockCritical, c.Classify(models.Inventory{ProductID: 1, StoreID: 1, Quantity: 9}))
	assert.Equal(t, StockLow, c.Classify(models.Inventory{ProductID: 1, StoreID: 1, Quantity: 10}))
	assert.Equal(t, StockLow, c.Classify(models.Inventory{ProductID: 1, StoreID: 1, Quantity: 20}))
	assert.Equal(t, StockOK, c.Classify(models.Inventory{ProductID: 1, StoreID: 1, Quantity: 21}))

	// no suggestion for the pair: nothing sold, nothing to worry about
	assert.Equal(t, StockOK, c.Classify(models.Inventory{ProductID: 2, StoreID: 1, Quantity: 0, ReorderPoint: 10}))
}

func TestClassifierStaticIgnoresSuggestions(t *testing.T) {
	c := NewClassifier(ModeStatic, DefaultPolicy(), []ReorderSuggestion{{ProductID: 1, StoreID: 1, TotalSales: 100}})
	assert.Equal(t, StockOK, c.Classify(models.Inventory{ProductID: 1, StoreID: 1, Quantity: 50, ReorderPoint: 10}))
}

func TestParseClassificationMode(t *testing.T) {
	m, err := ParseClassificationMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeStatic, m)

	m, err = ParseClassificationMode("sales_history")
	require.NoError(t, err)
	assert.Equal(t, ModeSalesHistory, m)

	_, err = ParseClassificationMode("velocity")
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}
