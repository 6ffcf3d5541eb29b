// Package alerts records low-stock notifications raised by inventory writes.
package alerts

import (
	"context"
	"time"

	"github.com/rogerio-castellano/inventory-analytics/internal/analytics"
)

// Alert is raised when a write leaves an inventory record LOW or CRITICAL.
type Alert struct {
	InventoryID  int                  `json:"inventory_id"`
	ProductID    int                  `json:"product_id"`
	StoreID      int                  `json:"store_id"`
	Quantity     int                  `json:"quantity"`
	ReorderPoint int                  `json:"reorder_point"`
	State        analytics.StockState `json:"state"`
	Reason       string               `json:"reason"`
	At           time.Time            `json:"at"`
}

// Publisher keeps a bounded log of alerts, newest last.
type Publisher interface {
	Publish(ctx context.Context, a Alert) error
	// Recent returns up to n alerts, newest first.
	Recent(ctx context.Context, n int) ([]Alert, error)
}
