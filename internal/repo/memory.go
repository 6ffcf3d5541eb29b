package repo

// InMemoryRepositories is a complete in-memory data set with the cross-references
// (inventory uses products and stores, deletes check inventory) wired up.
type InMemoryRepositories struct {
	Products  *InMemoryProductRepository
	Stores    *InMemoryStoreRepository
	Inventory *InMemoryInventoryRepository
	Movements *InMemoryMovementRepository
	Sales     *InMemorySalesRepository
	Orders    *InMemoryPurchaseOrderRepository
}

func NewInMemoryRepositories() *InMemoryRepositories {
	products := NewInMemoryProductRepository()
	stores := NewInMemoryStoreRepository()
	movements := NewInMemoryMovementRepository()
	inventory := NewInMemoryInventoryRepository(movements, products, stores)

	products.inUse = inventory.referencesProduct
	stores.inUse = inventory.referencesStore
	stores.inventory = inventory.snapshot

	return &InMemoryRepositories{
		Products:  products,
		Stores:    stores,
		Inventory: inventory,
		Movements: movements,
		Sales:     NewInMemorySalesRepository(),
		Orders:    NewInMemoryPurchaseOrderRepository(products, stores),
	}
}
