package analytics

import (
	"math"
	"sort"
)

type Summary struct {
	TotalProducts        int            `json:"total_products"`
	TotalStores          int            `json:"total_stores"`
	TotalInventory       int            `json:"total_inventory"`
	LowStockItems        int            `json:"low_stock_items"`
	InventoryHealthScore float64        `json:"inventory_health_score"`
	TopPerformingStores  []string       `json:"top_performing_stores"`
	CriticalProducts     []string       `json:"critical_products"`
	RegionalDistribution map[string]int `json:"regional_distribution"`
}

// Summary builds the dashboard headline numbers.
func (p Policy) Summary(snap Snapshot) Summary {
	products := snap.productIndex()
	stores := snap.storeIndex()

	s := Summary{
		TotalProducts:        len(snap.Products),
		TotalStores:          len(snap.Stores),
		TopPerformingStores:  []string{},
		CriticalProducts:     []string{},
		RegionalDistribution: map[string]int{},
	}

	perStore := map[int]int{}
	critical := map[int]int{}
	for _, inv := range snap.Inventory {
		s.TotalInventory += inv.Quantity
		perStore[inv.StoreID] += inv.Quantity

		state := p.ClassifyStatic(inv)
		if state.IsLow() {
			s.LowStockItems++
		}
		if state == StockCritical {
			critical[inv.ProductID]++
		}
	}
	s.InventoryHealthScore = healthScore(s.LowStockItems, len(snap.Inventory))

	// Store names ranked by quantity on hand, ties by id.
	ranked := []int{}
	for _, id := range sortedKeys(perStore) {
		if _, ok := stores[id]; ok {
			ranked = append(ranked, id)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return perStore[ranked[i]] > perStore[ranked[j]]
	})
	for _, id := range ranked[:min(len(ranked), p.TopStores)] {
		s.TopPerformingStores = append(s.TopPerformingStores, stores[id].Name)
	}

	ids := sortedKeys(critical)
	sort.SliceStable(ids, func(i, j int) bool {
		return critical[ids[i]] > critical[ids[j]]
	})
	for _, id := range ids {
		if prod, ok := products[id]; ok {
			s.CriticalProducts = append(s.CriticalProducts, prod.Name)
		}
	}

	for _, st := range snap.Stores {
		if st.Region == "" {
			continue
		}
		s.RegionalDistribution[st.Region] += perStore[st.ID]
	}
	return s
}

// healthScore is the share of records not running low, in 0..100.
func healthScore(low, records int) float64 {
	if records == 0 {
		return 100
	}
	return math.Max(0, math.Min(100, 100-percent(low, records)))
}
