package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

type StockPrediction struct {
	ProductID                 int       `json:"product_id"`
	ProductName               string    `json:"product_name"`
	StoreID                   int       `json:"store_id"`
	StoreName                 string    `json:"store_name"`
	CurrentQuantity           int       `json:"current_quantity"`
	ReorderPoint              int       `json:"reorder_point"`
	AverageDailySales         float64   `json:"average_daily_sales"`
	PredictedDaysUntilReorder float64   `json:"predicted_days_until_reorder"`
	RecommendedRestockDate    time.Time `json:"recommended_restock_date"`
	ConfidenceScore           float64   `json:"confidence_score"`
}

// Predictions estimates, per store stocking the product, how long until the
// record falls to its reorder point at the recent sales velocity.
func (p Policy) Predictions(snap Snapshot, product models.Product, now time.Time) []StockPrediction {
	window := p.PredictionWindowDays
	from := now.AddDate(0, 0, -window)
	stores := snap.storeIndex()

	type usage struct {
		total int
		days  map[time.Time]struct{}
	}
	byStore := map[int]*usage{}
	for _, sale := range snap.Sales {
		if sale.ProductID != product.ID || sale.SaleDate.Before(from) || sale.SaleDate.After(now) {
			continue
		}
		u, ok := byStore[sale.StoreID]
		if !ok {
			u = &usage{days: map[time.Time]struct{}{}}
			byStore[sale.StoreID] = u
		}
		u.total += sale.QuantitySold
		if sale.QuantitySold > 0 {
			u.days[RangeDay.floor(sale.SaleDate)] = struct{}{}
		}
	}

	out := []StockPrediction{}
	for _, inv := range snap.Inventory {
		if inv.ProductID != product.ID {
			continue
		}
		var total, activeDays int
		if u, ok := byStore[inv.StoreID]; ok {
			total, activeDays = u.total, len(u.days)
		}
		velocity := decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(int64(window)))

		days := decimal.NewFromInt(int64(window))
		if velocity.IsPositive() {
			days = decimal.Max(decimal.Zero, decimal.NewFromInt(int64(inv.Quantity-inv.ReorderPoint)).Div(velocity))
		}
		predicted := days.InexactFloat64()

		out = append(out, StockPrediction{
			ProductID:                 product.ID,
			ProductName:               product.Name,
			StoreID:                   inv.StoreID,
			StoreName:                 stores[inv.StoreID].Name,
			CurrentQuantity:           inv.Quantity,
			ReorderPoint:              inv.ReorderPoint,
			AverageDailySales:         velocity.InexactFloat64(),
			PredictedDaysUntilReorder: predicted,
			RecommendedRestockDate:    now.Add(time.Duration(predicted * float64(24*time.Hour))),
			ConfidenceScore:           ratio(min(activeDays, window), window),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StoreID < out[j].StoreID })
	return out
}
