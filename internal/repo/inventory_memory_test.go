package repo

import (
	"context"
	"sync"
	"testing"

	"github.com/rogerio-castellano/inventory-analytics/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T) (*InMemoryRepositories, models.Product, models.Store) {
	t.Helper()
	ctx := context.Background()
	repos := NewInMemoryRepositories()

	p, err := repos.Products.Create(ctx, models.Product{SKU: "LAP-001", Name: "Laptop", Category: "laptops"})
	require.NoError(t, err)
	s, err := repos.Stores.Create(ctx, models.Store{Name: "Downtown", Location: "Main St", Region: "North"})
	require.NoError(t, err)
	return repos, p, s
}

func TestInMemoryInventory_CreateWritesInitialMovement(t *testing.T) {
	ctx := context.Background()
	repos, p, s := seedCatalog(t)

	inv, err := repos.Inventory.Create(ctx, models.Inventory{ProductID: p.ID, StoreID: s.ID, Quantity: 12, ReorderPoint: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, inv.ID)

	movements, total, err := repos.Movements.GetByInventoryID(ctx, inv.ID, MovementFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, models.MovementInitial, movements[0].Kind)
	assert.Equal(t, 12, movements[0].Delta)
}

func TestInMemoryInventory_CreateRejects(t *testing.T) {
	ctx := context.Background()
	repos, p, s := seedCatalog(t)

	_, err := repos.Inventory.Create(ctx, models.Inventory{ProductID: p.ID, StoreID: s.ID, Quantity: 1})
	require.NoError(t, err)

	tests := []struct {
		name string
		inv  models.Inventory
		want error
	}{
		{"duplicate pair", models.Inventory{ProductID: p.ID, StoreID: s.ID}, ErrDuplicateInventory},
		{"unknown product", models.Inventory{ProductID: 99, StoreID: s.ID}, ErrUnknownReference},
		{"unknown store", models.Inventory{ProductID: p.ID, StoreID: 99}, ErrUnknownReference},
		{"negative quantity", models.Inventory{ProductID: p.ID, StoreID: s.ID, Quantity: -1}, ErrInvalidQuantityChange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repos.Inventory.Create(ctx, tt.inv)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestInMemoryInventory_UpdateRecordsAdjustment(t *testing.T) {
	ctx := context.Background()
	repos, p, s := seedCatalog(t)
	inv, _ := repos.Inventory.Create(ctx, models.Inventory{ProductID: p.ID, StoreID: s.ID, Quantity: 20, ReorderPoint: 10})

	qty, rp := 8, 15
	updated, err := repos.Inventory.Update(ctx, inv.ID, InventoryUpdate{Quantity: &qty, ReorderPoint: &rp})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Quantity)
	assert.Equal(t, 15, updated.ReorderPoint)

	movements, _, _ := repos.Movements.GetByInventoryID(ctx, inv.ID, MovementFilter{})
	require.Len(t, movements, 2)
	assert.Equal(t, models.MovementAdjustment, movements[0].Kind)
	assert.Equal(t, -12, movements[0].Delta)

	// Only the reorder point changes: no movement.
	rp = 5
	_, err = repos.Inventory.Update(ctx, inv.ID, InventoryUpdate{ReorderPoint: &rp})
	require.NoError(t, err)
	_, total, _ := repos.Movements.GetByInventoryID(ctx, inv.ID, MovementFilter{})
	assert.Equal(t, 2, total)

	neg := -1
	_, err = repos.Inventory.Update(ctx, inv.ID, InventoryUpdate{Quantity: &neg})
	assert.ErrorIs(t, err, ErrInvalidQuantityChange)

	_, err = repos.Inventory.Update(ctx, 404, InventoryUpdate{Quantity: &qty})
	assert.ErrorIs(t, err, ErrInventoryNotFound)
}

func TestInMemoryInventory_ConcurrentRestocksAreNotLost(t *testing.T) {
	ctx := context.Background()
	repos, p, s := seedCatalog(t)
	inv, _ := repos.Inventory.Create(ctx, models.Inventory{ProductID: p.ID, StoreID: s.ID, Quantity: 0})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repos.Inventory.Restock(ctx, inv.ID, 2)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repos.Inventory.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Quantity)
	assert.NotNil(t, got.LastRestockAt)

	_, total, _ := repos.Movements.GetByInventoryID(ctx, inv.ID, MovementFilter{})
	assert.Equal(t, 51, total)
}

func TestInMemoryInventory_RestockValidation(t *testing.T) {
	ctx := context.Background()
	repos, p, s := seedCatalog(t)
	inv, _ := repos.Inventory.Create(ctx, models.Inventory{ProductID: p.ID, StoreID: s.ID, Quantity: 3})

	_, err := repos.Inventory.Restock(ctx, inv.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidRestockQuantity)
	_, err = repos.Inventory.Restock(ctx, 999, 5)
	assert.ErrorIs(t, err, ErrInventoryNotFound)
}

func TestInMemoryInventory_ReceiveCreatesOrIncrements(t *testing.T) {
	ctx := context.Background()
	repos, p, s := seedCatalog(t)

	created, err := repos.Inventory.Receive(ctx, p.ID, s.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, created.Quantity)
	assert.Equal(t, DefaultReorderPoint, created.ReorderPoint)

	again, err := repos.Inventory.Receive(ctx, p.ID, s.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, 10, again.Quantity)

	movements, _, _ := repos.Movements.GetByInventoryID(ctx, created.ID, MovementFilter{})
	require.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, models.MovementReceipt, m.Kind)
	}
}

func TestInMemoryInventory_FilterJoinsAndPaginates(t *testing.T) {
	ctx := context.Background()
	repos, p, s := seedCatalog(t)
	p2, _ := repos.Products.Create(ctx, models.Product{SKU: "PH-1", Name: "Phone"})
	s2, _ := repos.Stores.Create(ctx, models.Store{Name: "Mall", Location: "Ring Rd"})

	for _, pair := range [][2]int{{p.ID, s.ID}, {p2.ID, s.ID}, {p.ID, s2.ID}} {
		_, err := repos.Inventory.Create(ctx, models.Inventory{ProductID: pair[0], StoreID: pair[1], Quantity: 5})
		require.NoError(t, err)
	}

	got, total, err := repos.Inventory.Filter(ctx, InventoryFilter{StoreID: &s.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Laptop", got[0].ProductName)
	assert.Equal(t, "Downtown", got[0].StoreName)

	got, total, _ = repos.Inventory.Filter(ctx, InventoryFilter{Search: "phone"})
	assert.Equal(t, 1, total)
	assert.Equal(t, "PH-1", got[0].ProductSKU)

	offset, limit := 1, 1
	got, total, _ = repos.Inventory.Filter(ctx, InventoryFilter{Offset: &offset, Limit: &limit})
	assert.Equal(t, 3, total)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)
}

func TestInMemory_DeleteRefusedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	repos, p, s := seedCatalog(t)
	inv, _ := repos.Inventory.Create(ctx, models.Inventory{ProductID: p.ID, StoreID: s.ID, Quantity: 1})

	assert.ErrorIs(t, repos.Products.Delete(ctx, p.ID), ErrInUse)
	assert.ErrorIs(t, repos.Stores.Delete(ctx, s.ID), ErrInUse)

	require.NoError(t, repos.Inventory.Delete(ctx, inv.ID))
	assert.NoError(t, repos.Products.Delete(ctx, p.ID))
	assert.NoError(t, repos.Stores.Delete(ctx, s.ID))
	assert.ErrorIs(t, repos.Products.Delete(ctx, p.ID), ErrProductNotFound)
}

func TestInMemoryStore_Stats(t *testing.T) {
	ctx := context.Background()
	repos, p, s := seedCatalog(t)
	p2, _ := repos.Products.Create(ctx, models.Product{SKU: "PH-1", Name: "Phone"})
	empty, _ := repos.Stores.Create(ctx, models.Store{Name: "Empty", Location: "Nowhere"})
	_, _ = repos.Inventory.Create(ctx, models.Inventory{ProductID: p.ID, StoreID: s.ID, Quantity: 4})
	_, _ = repos.Inventory.Create(ctx, models.Inventory{ProductID: p2.ID, StoreID: s.ID, Quantity: 6})

	stats, err := repos.Stores.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, StoreStats{StoreID: s.ID, StoreName: "Downtown", TotalProducts: 2, TotalItems: 10}, stats[0])
	assert.Equal(t, StoreStats{StoreID: empty.ID, StoreName: "Empty"}, stats[1])

	_, err = repos.Stores.StatsByID(ctx, 42)
	assert.ErrorIs(t, err, ErrStoreNotFound)
}
