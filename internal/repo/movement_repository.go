package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

// MovementRepository reads the inventory ledger. Movements are written by the
// inventory repository together with the quantity change they record.
type MovementRepository interface {
	GetByInventoryID(ctx context.Context, inventoryID int, mf MovementFilter) ([]models.Movement, int, error)
	// ListSince returns every movement created at or after since, oldest first.
	ListSince(ctx context.Context, since time.Time) ([]models.Movement, error)
}
