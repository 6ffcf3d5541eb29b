package repo

import (
	"context"

	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

type OrderFilter struct {
	StoreID *int
	Status  *models.OrderStatus
	Offset  *int
	Limit   *int
}

type PurchaseOrderRepository interface {
	// Create stores the order and its items together.
	Create(ctx context.Context, order models.PurchaseOrder) (models.PurchaseOrder, error)
	GetByID(ctx context.Context, id int) (models.PurchaseOrder, error)
	Filter(ctx context.Context, f OrderFilter) ([]models.PurchaseOrder, int, error)
	// UpdateStatus persists status and timestamps only if the stored status
	// still equals expected; otherwise it returns ErrOrderStatusChanged.
	UpdateStatus(ctx context.Context, order models.PurchaseOrder, expected models.OrderStatus) (models.PurchaseOrder, error)
}
