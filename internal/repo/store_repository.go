package repo

import (
	"context"

	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

// StoreStats summarizes the inventory a store carries.
type StoreStats struct {
	StoreID       int    `json:"store_id"`
	StoreName     string `json:"store_name"`
	TotalProducts int    `json:"total_products"`
	TotalItems    int    `json:"total_items"`
}

type StoreRepository interface {
	Create(ctx context.Context, store models.Store) (models.Store, error)
	GetByID(ctx context.Context, id int) (models.Store, error)
	Update(ctx context.Context, store models.Store) (models.Store, error)
	Delete(ctx context.Context, id int) error
	Filter(ctx context.Context, sf StoreFilter) ([]models.Store, int, error)
	ListAll(ctx context.Context) ([]models.Store, error)
	// Stats returns one row per store, including stores without inventory.
	Stats(ctx context.Context) ([]StoreStats, error)
	StatsByID(ctx context.Context, id int) (StoreStats, error)
}
