package analytics

import (
	"sort"
	"time"

	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

// Snapshot is the set of records one request computes over.
type Snapshot struct {
	Products  []models.Product
	Stores    []models.Store
	Inventory []models.Inventory
	// Movements only needs to cover the period a series reconstructs.
	Movements []models.Movement
	Sales     []models.SalesRecord
}

type pairKey struct {
	productID int
	storeID   int
}

func (s Snapshot) productIndex() map[int]models.Product {
	idx := make(map[int]models.Product, len(s.Products))
	for _, p := range s.Products {
		idx[p.ID] = p
	}
	return idx
}

func (s Snapshot) storeIndex() map[int]models.Store {
	idx := make(map[int]models.Store, len(s.Stores))
	for _, st := range s.Stores {
		idx[st.ID] = st
	}
	return idx
}

// salesBetween sums quantity_sold per (product, store) for from <= sale_date <= to.
func (s Snapshot) salesBetween(from, to time.Time) map[pairKey]int {
	totals := map[pairKey]int{}
	for _, sale := range s.Sales {
		if sale.SaleDate.Before(from) || sale.SaleDate.After(to) {
			continue
		}
		totals[pairKey{sale.ProductID, sale.StoreID}] += sale.QuantitySold
	}
	return totals
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func sortedStrings[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
