package analytics

import (
	"strings"

	"github.com/shopspring/decimal"
)

type ProductPerformance struct {
	ProductID     int     `json:"product_id"`
	ProductName   string  `json:"product_name"`
	ProductSKU    string  `json:"product_sku"`
	Category      string  `json:"category,omitempty"`
	TotalQuantity int     `json:"total_quantity"`
	StoreCount    int     `json:"store_count"`
	LowStockCount int     `json:"low_stock_count"`
	AvgQuantity   float64 `json:"avg_quantity"`
}

type StorePerformance struct {
	StoreID       int    `json:"store_id"`
	StoreName     string `json:"store_name"`
	StoreLocation string `json:"store_location"`
	Region        string `json:"region,omitempty"`
	TotalProducts int    `json:"total_products"`
	TotalQuantity int    `json:"total_quantity"`
	LowStockItems int    `json:"low_stock_items"`
	// RestockCount counts records that have been restocked at least once.
	RestockCount int `json:"restock_count"`
}

// ProductPerformanceReport aggregates inventory per product. An empty
// category matches every product; otherwise the match ignores case.
func (p Policy) ProductPerformanceReport(snap Snapshot, category string) []ProductPerformance {
	products := snap.productIndex()
	rows := map[int]*ProductPerformance{}
	stores := map[int]map[int]struct{}{}

	for _, inv := range snap.Inventory {
		prod, ok := products[inv.ProductID]
		if !ok {
			continue
		}
		if category != "" && !strings.EqualFold(prod.Category, category) {
			continue
		}
		row, ok := rows[prod.ID]
		if !ok {
			row = &ProductPerformance{
				ProductID:   prod.ID,
				ProductName: prod.Name,
				ProductSKU:  prod.SKU,
				Category:    prod.Category,
			}
			rows[prod.ID] = row
			stores[prod.ID] = map[int]struct{}{}
		}
		row.TotalQuantity += inv.Quantity
		stores[prod.ID][inv.StoreID] = struct{}{}
		if p.ClassifyStatic(inv).IsLow() {
			row.LowStockCount++
		}
	}

	out := make([]ProductPerformance, 0, len(rows))
	for _, id := range sortedKeys(rows) {
		row := rows[id]
		row.StoreCount = len(stores[id])
		row.AvgQuantity = ratio(row.TotalQuantity, row.StoreCount)
		out = append(out, *row)
	}
	return out
}

// StorePerformanceReport aggregates inventory per store, optionally limited
// to one region (case-insensitive).
func (p Policy) StorePerformanceReport(snap Snapshot, region string) []StorePerformance {
	stores := snap.storeIndex()
	rows := map[int]*StorePerformance{}
	products := map[int]map[int]struct{}{}

	for _, inv := range snap.Inventory {
		st, ok := stores[inv.StoreID]
		if !ok {
			continue
		}
		if region != "" && !strings.EqualFold(st.Region, region) {
			continue
		}
		row, ok := rows[st.ID]
		if !ok {
			row = &StorePerformance{
				StoreID:       st.ID,
				StoreName:     st.Name,
				StoreLocation: st.Location,
				Region:        st.Region,
			}
			rows[st.ID] = row
			products[st.ID] = map[int]struct{}{}
		}
		row.TotalQuantity += inv.Quantity
		products[st.ID][inv.ProductID] = struct{}{}
		if p.ClassifyStatic(inv).IsLow() {
			row.LowStockItems++
		}
		if inv.LastRestockAt != nil {
			row.RestockCount++
		}
	}

	out := make([]StorePerformance, 0, len(rows))
	for _, id := range sortedKeys(rows) {
		row := rows[id]
		row.TotalProducts = len(products[id])
		out = append(out, *row)
	}
	return out
}

// ratio divides exactly and reports 0 for an empty denominator.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(num)).Div(decimal.NewFromInt(int64(den))).InexactFloat64()
}

// percent is ratio scaled to 0..100.
func percent(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(num)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(den))).
		InexactFloat64()
}
