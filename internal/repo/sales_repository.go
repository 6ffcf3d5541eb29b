package repo

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

// SalesRepository reads sales history. Sales are recorded by the point-of-sale
// system; this service never writes them.
type SalesRepository interface {
	// ListSince returns every sale dated at or after since, oldest first.
	ListSince(ctx context.Context, since time.Time) ([]models.SalesRecord, error)
}

type InMemorySalesRepository struct {
	mu    sync.RWMutex
	sales []models.SalesRecord
}

func NewInMemorySalesRepository() *InMemorySalesRepository {
	return &InMemorySalesRepository{sales: []models.SalesRecord{}}
}

// AddSale loads a sale into the in-memory history.
func (r *InMemorySalesRepository) AddSale(s models.SalesRecord) models.SalesRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = len(r.sales) + 1
	r.sales = append(r.sales, s)
	return s
}

func (r *InMemorySalesRepository) ListSince(_ context.Context, since time.Time) ([]models.SalesRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.SalesRecord{}
	for _, s := range r.sales {
		if !s.SaleDate.Before(since) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SaleDate.Before(out[j].SaleDate) })
	return out, nil
}

type PostgresSalesRepository struct {
	db *sql.DB
}

func NewPostgresSalesRepository(db *sql.DB) *PostgresSalesRepository {
	return &PostgresSalesRepository{db: db}
}

func (r *PostgresSalesRepository) ListSince(ctx context.Context, since time.Time) ([]models.SalesRecord, error) {
	query := `SELECT id, product_id, store_id, quantity_sold, sale_date
		FROM sales_history WHERE sale_date >= $1 ORDER BY sale_date, id`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := []models.SalesRecord{}
	for rows.Next() {
		var s models.SalesRecord
		if err := rows.Scan(&s.ID, &s.ProductID, &s.StoreID, &s.QuantitySold, &s.SaleDate); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
