package repo

import (
	"context"
	"strings"
	"sync"

	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

type InMemoryStoreRepository struct {
	mu     sync.RWMutex
	stores []models.Store
	nextID int

	inUse     func(storeID int) bool
	inventory func() []models.Inventory
}

func NewInMemoryStoreRepository() *InMemoryStoreRepository {
	return &InMemoryStoreRepository{
		stores: []models.Store{},
		nextID: 1,
	}
}

func (r *InMemoryStoreRepository) Create(_ context.Context, store models.Store) (models.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.stores {
		if s.Name == store.Name {
			return models.Store{}, ErrDuplicatedValueUnique
		}
	}

	store.ID = r.nextID
	store.CreatedAt = nowUTC()
	r.nextID++
	r.stores = append(r.stores, store)
	return store, nil
}

func (r *InMemoryStoreRepository) GetByID(_ context.Context, id int) (models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.stores {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Store{}, ErrStoreNotFound
}

func (r *InMemoryStoreRepository) Update(_ context.Context, store models.Store) (models.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, s := range r.stores {
		if s.ID == store.ID {
			idx = i
		} else if s.Name == store.Name {
			return models.Store{}, ErrDuplicatedValueUnique
		}
	}
	if idx < 0 {
		return models.Store{}, ErrStoreNotFound
	}

	store.CreatedAt = r.stores[idx].CreatedAt
	r.stores[idx] = store
	return store, nil
}

func (r *InMemoryStoreRepository) Delete(_ context.Context, id int) error {
	if r.inUse != nil && r.inUse(id) {
		return ErrInUse
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.stores {
		if s.ID == id {
			r.stores = append(r.stores[:i], r.stores[i+1:]...)
			return nil
		}
	}
	return ErrStoreNotFound
}

func (r *InMemoryStoreRepository) Filter(_ context.Context, sf StoreFilter) ([]models.Store, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := []models.Store{}
	for _, s := range r.stores {
		if sf.Region != "" && !strings.EqualFold(s.Region, sf.Region) {
			continue
		}
		if sf.Search != "" && !containsFold(s.Name, sf.Search) && !containsFold(s.Location, sf.Search) {
			continue
		}
		filtered = append(filtered, s)
	}

	start, end := page(len(filtered), sf.Offset, sf.Limit)
	return filtered[start:end], len(filtered), nil
}

func (r *InMemoryStoreRepository) ListAll(_ context.Context) ([]models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Store(nil), r.stores...), nil
}

func (r *InMemoryStoreRepository) Stats(_ context.Context) ([]StoreStats, error) {
	r.mu.RLock()
	stores := append([]models.Store(nil), r.stores...)
	r.mu.RUnlock()

	var records []models.Inventory
	if r.inventory != nil {
		records = r.inventory()
	}

	stats := make([]StoreStats, 0, len(stores))
	for _, s := range stores {
		stats = append(stats, storeStatsFor(s, records))
	}
	return stats, nil
}

func (r *InMemoryStoreRepository) StatsByID(ctx context.Context, id int) (StoreStats, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return StoreStats{}, err
	}
	var records []models.Inventory
	if r.inventory != nil {
		records = r.inventory()
	}
	return storeStatsFor(s, records), nil
}

func storeStatsFor(s models.Store, records []models.Inventory) StoreStats {
	st := StoreStats{StoreID: s.ID, StoreName: s.Name}
	products := map[int]struct{}{}
	for _, inv := range records {
		if inv.StoreID != s.ID {
			continue
		}
		products[inv.ProductID] = struct{}{}
		st.TotalItems += inv.Quantity
	}
	st.TotalProducts = len(products)
	return st
}
