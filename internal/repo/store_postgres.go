package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

type PostgresStoreRepository struct {
	db *sql.DB
}

func NewPostgresStoreRepository(db *sql.DB) *PostgresStoreRepository {
	return &PostgresStoreRepository{db: db}
}

const storeColumns = `id, name, location, COALESCE(region, ''), created_at`

func scanStore(row interface{ Scan(...any) error }) (models.Store, error) {
	var s models.Store
	err := row.Scan(&s.ID, &s.Name, &s.Location, &s.Region, &s.CreatedAt)
	return s, err
}

func (r *PostgresStoreRepository) Create(ctx context.Context, s models.Store) (models.Store, error) {
	query := `INSERT INTO stores (name, location, region, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		RETURNING ` + storeColumns
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	created, err := scanStore(r.db.QueryRowContext(ctx, query, s.Name, s.Location, s.Region, nowUTC()))
	if err != nil {
		return models.Store{}, mapWriteError(err, ErrDuplicatedValueUnique, ErrInUse)
	}
	return created, nil
}

func (r *PostgresStoreRepository) GetByID(ctx context.Context, id int) (models.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	s, err := scanStore(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Store{}, ErrStoreNotFound
	}
	return s, err
}

func (r *PostgresStoreRepository) Update(ctx context.Context, s models.Store) (models.Store, error) {
	query := `UPDATE stores SET name = $1, location = $2, region = NULLIF($3, '')
		WHERE id = $4
		RETURNING ` + storeColumns
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	updated, err := scanStore(r.db.QueryRowContext(ctx, query, s.Name, s.Location, s.Region, s.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Store{}, ErrStoreNotFound
	}
	if err != nil {
		return models.Store{}, mapWriteError(err, ErrDuplicatedValueUnique, ErrInUse)
	}
	return updated, nil
}

func (r *PostgresStoreRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return mapWriteError(err, ErrDuplicatedValueUnique, ErrInUse)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrStoreNotFound
	}
	return nil
}

func (r *PostgresStoreRepository) Filter(ctx context.Context, sf StoreFilter) ([]models.Store, int, error) {
	conditions := ""
	args := []any{}
	argIdx := 1
	if sf.Region != "" {
		conditions += fmt.Sprintf(" AND region ILIKE $%d", argIdx)
		args = append(args, sf.Region)
		argIdx++
	}
	if sf.Search != "" {
		conditions += fmt.Sprintf(" AND (name ILIKE $%d OR location ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+sf.Search+"%")
		argIdx++
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM stores WHERE 1=1"+conditions, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset, limit := pageArgs(sf.Offset, sf.Limit)
	query := `SELECT ` + storeColumns + ` FROM stores WHERE 1=1` + conditions +
		fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	stores := []models.Store{}
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, 0, err
		}
		stores = append(stores, s)
	}
	return stores, total, rows.Err()
}

func (r *PostgresStoreRepository) ListAll(ctx context.Context) ([]models.Store, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+storeColumns+` FROM stores ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []models.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

const storeStatsQuery = `SELECT s.id, s.name,
		COUNT(DISTINCT i.product_id),
		COALESCE(SUM(i.quantity), 0)
	FROM stores s
	LEFT JOIN inventory i ON i.store_id = s.id`

func (r *PostgresStoreRepository) Stats(ctx context.Context) ([]StoreStats, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, storeStatsQuery+` GROUP BY s.id, s.name ORDER BY s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []StoreStats{}
	for rows.Next() {
		var st StoreStats
		if err := rows.Scan(&st.StoreID, &st.StoreName, &st.TotalProducts, &st.TotalItems); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func (r *PostgresStoreRepository) StatsByID(ctx context.Context, id int) (StoreStats, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var st StoreStats
	err := r.db.QueryRowContext(ctx, storeStatsQuery+` WHERE s.id = $1 GROUP BY s.id, s.name`, id).
		Scan(&st.StoreID, &st.StoreName, &st.TotalProducts, &st.TotalItems)
	if errors.Is(err, sql.ErrNoRows) {
		return StoreStats{}, ErrStoreNotFound
	}
	return st, err
}
