package repo

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

type InMemoryPurchaseOrderRepository struct {
	mu         sync.RWMutex
	orders     []models.PurchaseOrder
	nextID     int
	nextItemID int

	product func(ctx context.Context, id int) (models.Product, error)
	store   func(ctx context.Context, id int) (models.Store, error)
}

func NewInMemoryPurchaseOrderRepository(products ProductRepository, stores StoreRepository) *InMemoryPurchaseOrderRepository {
	return &InMemoryPurchaseOrderRepository{
		orders:     []models.PurchaseOrder{},
		nextID:     1,
		nextItemID: 1,
		product:    products.GetByID,
		store:      stores.GetByID,
	}
}

func (r *InMemoryPurchaseOrderRepository) Create(ctx context.Context, order models.PurchaseOrder) (models.PurchaseOrder, error) {
	if _, err := r.store(ctx, order.StoreID); err != nil {
		return models.PurchaseOrder{}, ErrStoreNotFound
	}
	for _, it := range order.Items {
		if _, err := r.product(ctx, it.ProductID); err != nil {
			return models.PurchaseOrder{}, ErrProductNotFound
		}
		if it.Quantity < 0 {
			return models.PurchaseOrder{}, ErrInvalidQuantityChange
		}
	}

	r.mu.Lock()
	now := nowUTC()
	order.ID = r.nextID
	r.nextID++
	order.CreatedAt, order.UpdatedAt = now, now
	items := make([]models.PurchaseOrderItem, len(order.Items))
	for i, it := range order.Items {
		it.ID = r.nextItemID
		it.PurchaseOrderID = order.ID
		it.CreatedAt = now
		r.nextItemID++
		items[i] = it
	}
	order.Items = items
	r.orders = append(r.orders, order)
	r.mu.Unlock()

	return r.enrich(ctx, order), nil
}

// enrich fills the display names of the store and the items.
func (r *InMemoryPurchaseOrderRepository) enrich(ctx context.Context, o models.PurchaseOrder) models.PurchaseOrder {
	if s, err := r.store(ctx, o.StoreID); err == nil {
		o.StoreName = s.Name
	}
	items := make([]models.PurchaseOrderItem, len(o.Items))
	for i, it := range o.Items {
		if p, err := r.product(ctx, it.ProductID); err == nil {
			it.ProductName, it.ProductSKU = p.Name, p.SKU
		}
		items[i] = it
	}
	o.Items = items
	return o
}

func (r *InMemoryPurchaseOrderRepository) GetByID(ctx context.Context, id int) (models.PurchaseOrder, error) {
	r.mu.RLock()
	var found *models.PurchaseOrder
	for _, o := range r.orders {
		if o.ID == id {
			found = &o
			break
		}
	}
	r.mu.RUnlock()

	if found == nil {
		return models.PurchaseOrder{}, ErrOrderNotFound
	}
	return r.enrich(ctx, *found), nil
}

func (r *InMemoryPurchaseOrderRepository) Filter(ctx context.Context, f OrderFilter) ([]models.PurchaseOrder, int, error) {
	r.mu.RLock()
	filtered := []models.PurchaseOrder{}
	// Newest first, like the Postgres listing.
	for i := len(r.orders) - 1; i >= 0; i-- {
		o := r.orders[i]
		if f.StoreID != nil && o.StoreID != *f.StoreID {
			continue
		}
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		filtered = append(filtered, o)
	}
	r.mu.RUnlock()

	start, end := page(len(filtered), f.Offset, f.Limit)
	out := make([]models.PurchaseOrder, 0, end-start)
	for _, o := range filtered[start:end] {
		out = append(out, r.enrich(ctx, o))
	}
	return out, len(filtered), nil
}

func (r *InMemoryPurchaseOrderRepository) UpdateStatus(ctx context.Context, order models.PurchaseOrder, expected models.OrderStatus) (models.PurchaseOrder, error) {
	r.mu.Lock()
	idx := -1
	for i, o := range r.orders {
		if o.ID == order.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return models.PurchaseOrder{}, ErrOrderNotFound
	}
	if r.orders[idx].Status != expected {
		r.mu.Unlock()
		return models.PurchaseOrder{}, ErrOrderStatusChanged
	}

	stored := r.orders[idx]
	stored.Status = order.Status
	stored.UpdatedAt = order.UpdatedAt
	stored.SubmittedAt = order.SubmittedAt
	stored.ApprovedAt = order.ApprovedAt
	stored.ReceivedAt = order.ReceivedAt
	r.orders[idx] = stored
	r.mu.Unlock()

	return r.enrich(ctx, stored), nil
}
