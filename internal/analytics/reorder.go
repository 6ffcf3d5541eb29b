package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rogerio-castellano/inventory-analytics/internal/apperr"
)

type ReorderRequest struct {
	DaysOfSales int  `json:"days_of_sales"`
	StoreID     *int `json:"store_id,omitempty"`
	ProductID   *int `json:"product_id,omitempty"`
}

func (r ReorderRequest) Validate() error {
	if r.DaysOfSales <= 0 {
		return apperr.InvalidArgument("days_of_sales must be positive")
	}
	return nil
}

type ReorderSuggestion struct {
	ProductID         int     `json:"product_id"`
	ProductName       string  `json:"product_name"`
	ProductSKU        string  `json:"product_sku"`
	StoreID           int     `json:"store_id"`
	StoreName         string  `json:"store_name"`
	CurrentQuantity   int     `json:"current_quantity"`
	TotalSales        int     `json:"total_sales"`
	AverageDailySales float64 `json:"average_daily_sales"`
	DaysOfSales       int     `json:"days_of_sales"`
	SuggestedOrder    int     `json:"suggested_order"`
}

// ReorderSuggestions sizes an order per (product, store) so that stock covers
// the sales of the last req.DaysOfSales days. Pairs without sales in the
// window are left out.
func ReorderSuggestions(snap Snapshot, req ReorderRequest, now time.Time) ([]ReorderSuggestion, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from := now.AddDate(0, 0, -req.DaysOfSales)
	sales := snap.salesBetween(from, now)
	products := snap.productIndex()
	stores := snap.storeIndex()
	days := decimal.NewFromInt(int64(req.DaysOfSales))

	out := []ReorderSuggestion{}
	for _, inv := range snap.Inventory {
		if req.StoreID != nil && inv.StoreID != *req.StoreID {
			continue
		}
		if req.ProductID != nil && inv.ProductID != *req.ProductID {
			continue
		}
		total := sales[pairKey{inv.ProductID, inv.StoreID}]
		if total == 0 {
			continue
		}

		p := products[inv.ProductID]
		out = append(out, ReorderSuggestion{
			ProductID:         inv.ProductID,
			ProductName:       p.Name,
			ProductSKU:        p.SKU,
			StoreID:           inv.StoreID,
			StoreName:         stores[inv.StoreID].Name,
			CurrentQuantity:   inv.Quantity,
			TotalSales:        total,
			AverageDailySales: decimal.NewFromInt(int64(total)).Div(days).InexactFloat64(),
			DaysOfSales:       req.DaysOfSales,
			SuggestedOrder:    max(0, total-inv.Quantity),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].StoreID < out[j].StoreID
	})
	return out, nil
}
