package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TrendQuery struct {
	TimeRange TimeRange
	Start     *time.Time
	End       *time.Time
	Category  string
	StoreID   *int
	ProductID *int
}

type CategoryTrend struct {
	Category   string       `json:"category"`
	TrendData  []TrendPoint `json:"trend_data"`
	GrowthRate float64      `json:"growth_rate"`
}

type ProductTrend struct {
	ProductID         int          `json:"product_id"`
	ProductName       string       `json:"product_name"`
	TrendData         []TrendPoint `json:"trend_data"`
	AverageQuantity   float64      `json:"average_quantity"`
	RestockFrequency  float64      `json:"restock_frequency"`
	StockOutFrequency float64      `json:"stock_out_frequency"`
}

type StoreTrend struct {
	StoreID               int          `json:"store_id"`
	StoreName             string       `json:"store_name"`
	TrendData             []TrendPoint `json:"trend_data"`
	AverageInventoryLevel float64      `json:"average_inventory_level"`
	PeakInventoryDate     time.Time    `json:"peak_inventory_date"`
	LowInventoryDate      time.Time    `json:"low_inventory_date"`
}

type TrendAnalysis struct {
	TimeRange         TimeRange       `json:"time_range"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	TrendData         []TrendPoint    `json:"trend_data"`
	OverallGrowthRate float64         `json:"overall_growth_rate"`
	PeakPeriod        time.Time       `json:"peak_period"`
	LowPeriod         time.Time       `json:"low_period"`
	Categories        []CategoryTrend `json:"categories"`
	Products          []ProductTrend  `json:"products"`
	Stores            []StoreTrend    `json:"stores"`
	Recommendations   []string        `json:"recommendations"`
}

// TrendRange resolves the bucket range of a trend query.
func (p Policy) TrendRange(q TrendQuery, now time.Time) (time.Time, time.Time, error) {
	tr, err := ParseTimeRange(string(q.TimeRange))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return tr.resolveRange(q.Start, q.End, p.DefaultTrendBuckets, now)
}

// TrendAnalysis buckets the scoped inventory over time and derives growth
// rates, extremes and recommendations from the buckets.
func (p Policy) TrendAnalysis(snap Snapshot, q TrendQuery, now time.Time) (TrendAnalysis, error) {
	tr, err := ParseTimeRange(string(q.TimeRange))
	if err != nil {
		return TrendAnalysis{}, err
	}
	start, end, err := tr.resolveRange(q.Start, q.End, p.DefaultTrendBuckets, now)
	if err != nil {
		return TrendAnalysis{}, err
	}
	buckets, err := tr.buckets(start, end)
	if err != nil {
		return TrendAnalysis{}, err
	}

	products := snap.productIndex()
	stores := snap.storeIndex()
	scope := Scope{StoreID: q.StoreID, ProductID: q.ProductID, Category: q.Category}

	out := TrendAnalysis{
		TimeRange:  tr,
		StartDate:  start,
		EndDate:    end,
		TrendData:  newHistory(snap, scope, p, products).series(buckets),
		Categories: []CategoryTrend{},
		Products:   []ProductTrend{},
		Stores:     []StoreTrend{},
	}
	out.OverallGrowthRate = growthRate(out.TrendData)
	out.PeakPeriod, out.LowPeriod = extremes(out.TrendData)

	categories := map[string]struct{}{}
	productIDs := map[int]struct{}{}
	storeIDs := map[int]struct{}{}
	for _, inv := range snap.Inventory {
		if !scope.matches(inv.ProductID, inv.StoreID, products) {
			continue
		}
		if prod, ok := products[inv.ProductID]; ok {
			categories[categoryOf(prod)] = struct{}{}
			productIDs[inv.ProductID] = struct{}{}
		}
		if _, ok := stores[inv.StoreID]; ok {
			storeIDs[inv.StoreID] = struct{}{}
		}
	}

	for _, name := range sortedStrings(categories) {
		sub := scope
		sub.Category = name
		series := newHistory(snap, sub, p, products).series(buckets)
		out.Categories = append(out.Categories, CategoryTrend{
			Category:   name,
			TrendData:  series,
			GrowthRate: growthRate(series),
		})
	}

	for _, id := range sortedKeys(productIDs) {
		sub := scope
		sub.ProductID = &id
		series := newHistory(snap, sub, p, products).series(buckets)
		restockFreq, stockOutFreq := frequencies(series)
		out.Products = append(out.Products, ProductTrend{
			ProductID:         id,
			ProductName:       products[id].Name,
			TrendData:         series,
			AverageQuantity:   averageQuantity(series),
			RestockFrequency:  restockFreq,
			StockOutFrequency: stockOutFreq,
		})
	}

	for _, id := range sortedKeys(storeIDs) {
		sub := scope
		sub.StoreID = &id
		series := newHistory(snap, sub, p, products).series(buckets)
		peak, low := extremes(series)
		out.Stores = append(out.Stores, StoreTrend{
			StoreID:               id,
			StoreName:             stores[id].Name,
			TrendData:             series,
			AverageInventoryLevel: averageQuantity(series),
			PeakInventoryDate:     peak,
			LowInventoryDate:      low,
		})
	}

	out.Recommendations = p.recommendations(out.Categories, out.Products)
	return out, nil
}

func (p Policy) recommendations(categories []CategoryTrend, products []ProductTrend) []string {
	recs := []string{}
	for _, c := range categories {
		if c.GrowthRate < -p.DeclineThreshold {
			recs = append(recs, fmt.Sprintf("Increase stock for category %s: inventory fell by %.1f%% over the period",
				c.Category, -c.GrowthRate))
		}
	}
	for _, pt := range products {
		if pt.StockOutFrequency > p.StockOutThreshold {
			recs = append(recs, fmt.Sprintf("Increase reorder point for %s to reduce stock outs", pt.ProductName))
		}
	}
	for _, pt := range products {
		if pt.RestockFrequency > p.RestockFrequencyThreshold {
			recs = append(recs, fmt.Sprintf("Review reorder quantity for %s to optimize restocking frequency", pt.ProductName))
		}
	}
	for _, c := range categories {
		if c.GrowthRate > p.GrowthThreshold {
			recs = append(recs, fmt.Sprintf("Category %s grew by %.1f%% over the period; check for overstock",
				c.Category, c.GrowthRate))
		}
	}
	if len(recs) == 0 {
		recs = append(recs, "Inventory levels are stable across all categories")
	}
	return recs
}

// growthRate compares the last bucket with the first, in percent. A series
// that starts at zero has no defined growth and reports 0.
func growthRate(series []TrendPoint) float64 {
	if len(series) < 2 || series[0].Quantity == 0 {
		return 0
	}
	first := decimal.NewFromInt(int64(series[0].Quantity))
	last := decimal.NewFromInt(int64(series[len(series)-1].Quantity))
	return last.Sub(first).Div(first).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// extremes returns the timestamps of the highest and lowest buckets; ties go
// to the earliest bucket.
func extremes(series []TrendPoint) (peak, low time.Time) {
	if len(series) == 0 {
		return peak, low
	}
	hi, lo := series[0], series[0]
	for _, pt := range series[1:] {
		if pt.Quantity > hi.Quantity {
			hi = pt
		}
		if pt.Quantity < lo.Quantity {
			lo = pt
		}
	}
	return hi.Timestamp, lo.Timestamp
}

func averageQuantity(series []TrendPoint) float64 {
	total := 0
	for _, pt := range series {
		total += pt.Quantity
	}
	return ratio(total, len(series))
}

// frequencies reports the share of buckets with a restock and the share at
// zero stock, counting only buckets in which a record already existed.
func frequencies(series []TrendPoint) (restock, stockOut float64) {
	var active, restocked, empty int
	for _, pt := range series {
		if pt.records == 0 {
			continue
		}
		active++
		if pt.RestockCount > 0 {
			restocked++
		}
		if pt.Quantity == 0 {
			empty++
		}
	}
	return ratio(restocked, active), ratio(empty, active)
}
