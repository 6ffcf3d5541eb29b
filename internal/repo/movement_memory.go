package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

type InMemoryMovementRepository struct {
	mu        sync.RWMutex
	movements []models.Movement
}

func NewInMemoryMovementRepository() *InMemoryMovementRepository {
	return &InMemoryMovementRepository{
		movements: []models.Movement{},
	}
}

// AddMovement appends a movement as-is. Tests use it to build history.
func (r *InMemoryMovementRepository) AddMovement(m models.Movement) models.Movement {
	r.mu.Lock()
	defer r.mu.Unlock()

	m.ID = len(r.movements) + 1
	r.movements = append(r.movements, m)
	return m
}

func (r *InMemoryMovementRepository) append(inv models.Inventory, delta int, kind models.MovementKind, at time.Time) {
	r.AddMovement(models.Movement{
		InventoryID: inv.ID,
		ProductID:   inv.ProductID,
		StoreID:     inv.StoreID,
		Delta:       delta,
		Kind:        kind,
		CreatedAt:   at,
	})
}

// GetByInventoryID returns the movements of one record, newest first, optionally
// filtered by date range and paginated.
func (r *InMemoryMovementRepository) GetByInventoryID(_ context.Context, inventoryID int, mf MovementFilter) ([]models.Movement, int, error) {
	r.mu.RLock()
	filtered := []models.Movement{}
	for _, m := range r.movements {
		if m.InventoryID != inventoryID {
			continue
		}
		if (mf.Since != nil && m.CreatedAt.Before(*mf.Since)) ||
			(mf.Until != nil && m.CreatedAt.After(*mf.Until)) {
			continue
		}
		filtered = append(filtered, m)
	}
	r.mu.RUnlock()

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].ID > filtered[j].ID
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	if mf.All {
		return filtered, len(filtered), nil
	}
	start, end := page(len(filtered), mf.Offset, mf.Limit)
	return filtered[start:end], len(filtered), nil
}

func (r *InMemoryMovementRepository) ListSince(_ context.Context, since time.Time) ([]models.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Movement{}
	for _, m := range r.movements {
		if !m.CreatedAt.Before(since) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
