package repo

import (
	"context"

	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

// InventoryFilter narrows inventory listings. Search matches product name, SKU or store name.
type InventoryFilter struct {
	StoreID   *int
	ProductID *int
	Search    string
	Offset    *int
	Limit     *int
}

// InventoryUpdate sets absolute values; nil fields are left unchanged.
type InventoryUpdate struct {
	Quantity        *int
	ReorderPoint    *int
	ReorderQuantity *int
}

// InventoryRepository stores inventory records. Every quantity change appends
// one movement to the ledger in the same atomic unit.
type InventoryRepository interface {
	Create(ctx context.Context, inv models.Inventory) (models.Inventory, error)
	GetByID(ctx context.Context, id int) (models.InventoryDetails, error)
	Update(ctx context.Context, id int, upd InventoryUpdate) (models.Inventory, error)
	// Restock adds quantity to the record.
	Restock(ctx context.Context, id, quantity int) (models.Inventory, error)
	// Receive adds quantity to the (product, store) record, creating it when absent.
	Receive(ctx context.Context, productID, storeID, quantity int) (models.Inventory, error)
	Delete(ctx context.Context, id int) error
	Filter(ctx context.Context, f InventoryFilter) ([]models.InventoryDetails, int, error)
	ListAll(ctx context.Context) ([]models.Inventory, error)
}

func validateInventory(inv models.Inventory) error {
	if inv.Quantity < 0 || inv.ReorderPoint < 0 || inv.ReorderQuantity < 0 {
		return ErrInvalidQuantityChange
	}
	return nil
}

func validateUpdate(upd InventoryUpdate) error {
	for _, v := range []*int{upd.Quantity, upd.ReorderPoint, upd.ReorderQuantity} {
		if v != nil && *v < 0 {
			return ErrInvalidQuantityChange
		}
	}
	return nil
}
