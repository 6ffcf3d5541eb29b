package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/inventory-analytics/internal/apperr"
	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

var seriesNow = time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

func at(day, hour int) time.Time {
	return time.Date(2025, 6, day, hour, 0, 0, 0, time.UTC)
}

func ptime(t time.Time) *time.Time {
	return &t
}

// ledgerSnapshot has one laptop record whose quantity went 20 -> 5 -> 15 -> 8.
func ledgerSnapshot() Snapshot {
	return Snapshot{
		Products:  []models.Product{{ID: 1, SKU: "LAP-001", Name: "Laptop", Category: "Electronics"}},
		Stores:    []models.Store{{ID: 1, Name: "Downtown", Region: "North"}, {ID: 2, Name: "Airport"}},
		Inventory: []models.Inventory{{ID: 1, ProductID: 1, StoreID: 1, Quantity: 8, ReorderPoint: 10, CreatedAt: at(1, 9)}},
		Movements: []models.Movement{
			{ID: 4, InventoryID: 1, ProductID: 1, StoreID: 1, Delta: -7, Kind: models.MovementAdjustment, CreatedAt: at(8, 12)},
			{ID: 1, InventoryID: 1, ProductID: 1, StoreID: 1, Delta: 20, Kind: models.MovementInitial, CreatedAt: at(1, 9)},
			{ID: 3, InventoryID: 1, ProductID: 1, StoreID: 1, Delta: 10, Kind: models.MovementRestock, CreatedAt: at(5, 11)},
			{ID: 2, InventoryID: 1, ProductID: 1, StoreID: 1, Delta: -15, Kind: models.MovementAdjustment, CreatedAt: at(3, 10)},
		},
	}
}

func collect(t *testing.T, policy Policy, snap Snapshot, q SeriesQuery) []TrendPoint {
	t.Helper()
	seq, err := policy.DailySummary(snap, q, seriesNow)
	require.NoError(t, err)
	var out []TrendPoint
	for p := range seq {
		out = append(out, p)
	}
	return out
}

func TestDailySummary_ReconstructsFromLedger(t *testing.T) {
	points := collect(t, DefaultPolicy(), ledgerSnapshot(), SeriesQuery{Start: ptime(at(1, 0)), End: ptime(at(10, 0))})
	require.Len(t, points, 10)

	quantities := make([]int, len(points))
	restocks := make([]int, len(points))
	low := make([]int, len(points))
	for i, p := range points {
		assert.Equal(t, at(i+1, 0), p.Timestamp)
		quantities[i] = p.Quantity
		restocks[i] = p.RestockCount
		low[i] = p.LowStockCount
	}
	assert.Equal(t, []int{20, 20, 5, 5, 15, 15, 15, 8, 8, 8}, quantities)
	assert.Equal(t, []int{0, 0, 0, 0, 1, 0, 0, 0, 0, 0}, restocks)
	assert.Equal(t, []int{0, 0, 1, 1, 0, 0, 0, 1, 1, 1}, low)
}

func TestDailySummary_SingleDay(t *testing.T) {
	points := collect(t, DefaultPolicy(), ledgerSnapshot(), SeriesQuery{Start: ptime(at(3, 8)), End: ptime(at(3, 20))})
	require.Len(t, points, 1)
	assert.Equal(t, at(3, 0), points[0].Timestamp)
	assert.Equal(t, 5, points[0].Quantity)
}

func TestDailySummary_BeforeRecordExisted(t *testing.T) {
	start := time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)
	points := collect(t, DefaultPolicy(), ledgerSnapshot(), SeriesQuery{Start: &start, End: ptime(at(1, 0))})
	require.Len(t, points, 3)
	assert.Zero(t, points[0].Quantity)
	assert.Zero(t, points[1].Quantity)
	assert.Equal(t, 20, points[2].Quantity)
}

func TestDailySummary_DefaultRange(t *testing.T) {
	points := collect(t, DefaultPolicy(), ledgerSnapshot(), SeriesQuery{})
	require.Len(t, points, 30)
	assert.Equal(t, at(10, 0), points[29].Timestamp)
	assert.Equal(t, time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC), points[0].Timestamp)
	assert.Equal(t, 8, points[29].Quantity)
}

func TestDailySummary_StoreScope(t *testing.T) {
	points := collect(t, DefaultPolicy(), ledgerSnapshot(), SeriesQuery{Start: ptime(at(1, 0)), End: ptime(at(5, 0)), StoreID: intPtr(2)})
	require.Len(t, points, 5)
	for _, p := range points {
		assert.Zero(t, p.Quantity)
		assert.Zero(t, p.RestockCount)
	}
}

func TestDailySummary_StopsEarly(t *testing.T) {
	seq, err := DefaultPolicy().DailySummary(ledgerSnapshot(), SeriesQuery{Start: ptime(at(1, 0)), End: ptime(at(10, 0))}, seriesNow)
	require.NoError(t, err)

	n := 0
	for range seq {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestDailySummary_RejectsBadRanges(t *testing.T) {
	_, err := DefaultPolicy().DailySummary(ledgerSnapshot(), SeriesQuery{Start: ptime(at(5, 0)), End: ptime(at(2, 0))}, seriesNow)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))

	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = DefaultPolicy().DailySummary(ledgerSnapshot(), SeriesQuery{Start: &start}, seriesNow)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestParseTimeRange(t *testing.T) {
	for _, s := range []string{"day", "week", "MONTH"} {
		_, err := ParseTimeRange(s)
		assert.NoError(t, err, s)
	}
	for _, s := range []string{"", "year", "hour"} {
		_, err := ParseTimeRange(s)
		assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err), s)
	}
}
