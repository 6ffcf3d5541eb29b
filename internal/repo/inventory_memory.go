package repo

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

// Defaults for records created without explicit reorder settings.
const (
	DefaultReorderPoint    = 10
	DefaultReorderQuantity = 50
)

type InMemoryInventoryRepository struct {
	mu      sync.RWMutex
	records []models.Inventory
	nextID  int

	ledger  *InMemoryMovementRepository
	product func(ctx context.Context, id int) (models.Product, error)
	store   func(ctx context.Context, id int) (models.Store, error)
}

// NewInMemoryInventoryRepository writes its movements to ledger. Products and
// stores are resolved through the given repositories.
func NewInMemoryInventoryRepository(ledger *InMemoryMovementRepository, products ProductRepository, stores StoreRepository) *InMemoryInventoryRepository {
	return &InMemoryInventoryRepository{
		records: []models.Inventory{},
		nextID:  1,
		ledger:  ledger,
		product: products.GetByID,
		store:   stores.GetByID,
	}
}

func (r *InMemoryInventoryRepository) checkRefs(ctx context.Context, productID, storeID int) error {
	if _, err := r.product(ctx, productID); err != nil {
		return ErrUnknownReference
	}
	if _, err := r.store(ctx, storeID); err != nil {
		return ErrUnknownReference
	}
	return nil
}

func (r *InMemoryInventoryRepository) indexOf(id int) int {
	for i, inv := range r.records {
		if inv.ID == id {
			return i
		}
	}
	return -1
}

func (r *InMemoryInventoryRepository) Create(ctx context.Context, inv models.Inventory) (models.Inventory, error) {
	if err := validateInventory(inv); err != nil {
		return models.Inventory{}, err
	}
	if err := r.checkRefs(ctx, inv.ProductID, inv.StoreID); err != nil {
		return models.Inventory{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.records {
		if existing.ProductID == inv.ProductID && existing.StoreID == inv.StoreID {
			return models.Inventory{}, ErrDuplicateInventory
		}
	}

	now := nowUTC()
	inv.ID = r.nextID
	inv.CreatedAt, inv.UpdatedAt = now, now
	inv.LastRestockAt = nil
	r.nextID++
	r.records = append(r.records, inv)
	r.ledger.append(inv, inv.Quantity, models.MovementInitial, now)
	return inv, nil
}

func (r *InMemoryInventoryRepository) GetByID(ctx context.Context, id int) (models.InventoryDetails, error) {
	r.mu.RLock()
	i := r.indexOf(id)
	var inv models.Inventory
	if i >= 0 {
		inv = r.records[i]
	}
	r.mu.RUnlock()

	if i < 0 {
		return models.InventoryDetails{}, ErrInventoryNotFound
	}
	return r.details(ctx, inv), nil
}

func (r *InMemoryInventoryRepository) details(ctx context.Context, inv models.Inventory) models.InventoryDetails {
	d := models.InventoryDetails{Inventory: inv}
	if p, err := r.product(ctx, inv.ProductID); err == nil {
		d.ProductName, d.ProductSKU = p.Name, p.SKU
	}
	if s, err := r.store(ctx, inv.StoreID); err == nil {
		d.StoreName, d.StoreLocation = s.Name, s.Location
	}
	return d
}

func (r *InMemoryInventoryRepository) Update(_ context.Context, id int, upd InventoryUpdate) (models.Inventory, error) {
	if err := validateUpdate(upd); err != nil {
		return models.Inventory{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Inventory{}, ErrInventoryNotFound
	}

	inv := r.records[i]
	delta := 0
	if upd.Quantity != nil {
		delta = *upd.Quantity - inv.Quantity
		inv.Quantity = *upd.Quantity
	}
	if upd.ReorderPoint != nil {
		inv.ReorderPoint = *upd.ReorderPoint
	}
	if upd.ReorderQuantity != nil {
		inv.ReorderQuantity = *upd.ReorderQuantity
	}

	now := nowUTC()
	inv.UpdatedAt = now
	r.records[i] = inv
	if delta != 0 {
		r.ledger.append(inv, delta, models.MovementAdjustment, now)
	}
	return inv, nil
}

func (r *InMemoryInventoryRepository) Restock(_ context.Context, id, quantity int) (models.Inventory, error) {
	if quantity <= 0 {
		return models.Inventory{}, ErrInvalidRestockQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Inventory{}, ErrInventoryNotFound
	}

	now := nowUTC()
	inv := r.records[i]
	inv.Quantity += quantity
	inv.UpdatedAt = now
	inv.LastRestockAt = &now
	r.records[i] = inv
	r.ledger.append(inv, quantity, models.MovementRestock, now)
	return inv, nil
}

func (r *InMemoryInventoryRepository) Receive(ctx context.Context, productID, storeID, quantity int) (models.Inventory, error) {
	if quantity < 0 {
		return models.Inventory{}, ErrInvalidQuantityChange
	}
	if err := r.checkRefs(ctx, productID, storeID); err != nil {
		return models.Inventory{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := nowUTC()
	for i, inv := range r.records {
		if inv.ProductID == productID && inv.StoreID == storeID {
			inv.Quantity += quantity
			inv.UpdatedAt = now
			inv.LastRestockAt = &now
			r.records[i] = inv
			r.ledger.append(inv, quantity, models.MovementReceipt, now)
			return inv, nil
		}
	}

	inv := models.Inventory{
		ID:              r.nextID,
		ProductID:       productID,
		StoreID:         storeID,
		Quantity:        quantity,
		ReorderPoint:    DefaultReorderPoint,
		ReorderQuantity: DefaultReorderQuantity,
		CreatedAt:       now,
		UpdatedAt:       now,
		LastRestockAt:   &now,
	}
	r.nextID++
	r.records = append(r.records, inv)
	r.ledger.append(inv, quantity, models.MovementReceipt, now)
	return inv, nil
}

func (r *InMemoryInventoryRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrInventoryNotFound
	}
	r.records = append(r.records[:i], r.records[i+1:]...)
	return nil
}

func (r *InMemoryInventoryRepository) Filter(ctx context.Context, f InventoryFilter) ([]models.InventoryDetails, int, error) {
	all, _ := r.ListAll(ctx)

	filtered := []models.InventoryDetails{}
	for _, inv := range all {
		if f.StoreID != nil && inv.StoreID != *f.StoreID {
			continue
		}
		if f.ProductID != nil && inv.ProductID != *f.ProductID {
			continue
		}
		d := r.details(ctx, inv)
		if f.Search != "" &&
			!containsFold(d.ProductName, f.Search) &&
			!containsFold(d.ProductSKU, f.Search) &&
			!containsFold(d.StoreName, f.Search) {
			continue
		}
		filtered = append(filtered, d)
	}

	start, end := page(len(filtered), f.Offset, f.Limit)
	return filtered[start:end], len(filtered), nil
}

func (r *InMemoryInventoryRepository) ListAll(_ context.Context) ([]models.Inventory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Inventory(nil), r.records...), nil
}

func (r *InMemoryInventoryRepository) referencesProduct(productID int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, inv := range r.records {
		if inv.ProductID == productID {
			return true
		}
	}
	return false
}

func (r *InMemoryInventoryRepository) referencesStore(storeID int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, inv := range r.records {
		if inv.StoreID == storeID {
			return true
		}
	}
	return false
}

func (r *InMemoryInventoryRepository) snapshot() []models.Inventory {
	all, _ := r.ListAll(context.Background())
	return all
}
