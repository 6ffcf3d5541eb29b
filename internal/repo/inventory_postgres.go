package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

type PostgresInventoryRepository struct {
	db *sql.DB
}

func NewPostgresInventoryRepository(db *sql.DB) *PostgresInventoryRepository {
	return &PostgresInventoryRepository{db: db}
}

const inventoryColumns = `id, product_id, store_id, quantity, reorder_point, reorder_quantity, created_at, updated_at, last_restock_at`

const inventoryDetailsQuery = `SELECT i.id, i.product_id, i.store_id, i.quantity, i.reorder_point, i.reorder_quantity,
		i.created_at, i.updated_at, i.last_restock_at, p.name, p.sku, s.name, s.location
	FROM inventory i
	JOIN products p ON p.id = i.product_id
	JOIN stores s ON s.id = i.store_id`

func scanInventory(row interface{ Scan(...any) error }) (models.Inventory, error) {
	var inv models.Inventory
	var lastRestock sql.NullTime
	err := row.Scan(&inv.ID, &inv.ProductID, &inv.StoreID, &inv.Quantity, &inv.ReorderPoint,
		&inv.ReorderQuantity, &inv.CreatedAt, &inv.UpdatedAt, &lastRestock)
	if lastRestock.Valid {
		inv.LastRestockAt = &lastRestock.Time
	}
	return inv, err
}

func scanInventoryDetails(row interface{ Scan(...any) error }) (models.InventoryDetails, error) {
	var d models.InventoryDetails
	var lastRestock sql.NullTime
	err := row.Scan(&d.ID, &d.ProductID, &d.StoreID, &d.Quantity, &d.ReorderPoint, &d.ReorderQuantity,
		&d.CreatedAt, &d.UpdatedAt, &lastRestock, &d.ProductName, &d.ProductSKU, &d.StoreName, &d.StoreLocation)
	if lastRestock.Valid {
		d.LastRestockAt = &lastRestock.Time
	}
	return d, err
}

// inTx runs fn in a transaction and commits when it returns nil.
func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *PostgresInventoryRepository) Create(ctx context.Context, inv models.Inventory) (models.Inventory, error) {
	if err := validateInventory(inv); err != nil {
		return models.Inventory{}, err
	}
	query := `INSERT INTO inventory (product_id, store_id, quantity, reorder_point, reorder_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING ` + inventoryColumns
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var created models.Inventory
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		created, err = scanInventory(tx.QueryRowContext(ctx, query,
			inv.ProductID, inv.StoreID, inv.Quantity, inv.ReorderPoint, inv.ReorderQuantity, nowUTC()))
		if err != nil {
			return mapWriteError(err, ErrDuplicateInventory, ErrUnknownReference)
		}
		return insertMovement(ctx, tx, created, created.Quantity, models.MovementInitial, created.CreatedAt)
	})
	if err != nil {
		return models.Inventory{}, err
	}
	return created, nil
}

func (r *PostgresInventoryRepository) GetByID(ctx context.Context, id int) (models.InventoryDetails, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	d, err := scanInventoryDetails(r.db.QueryRowContext(ctx, inventoryDetailsQuery+` WHERE i.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.InventoryDetails{}, ErrInventoryNotFound
	}
	return d, err
}

func (r *PostgresInventoryRepository) Update(ctx context.Context, id int, upd InventoryUpdate) (models.Inventory, error) {
	if err := validateUpdate(upd); err != nil {
		return models.Inventory{}, err
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var updated models.Inventory
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		var current int
		err := tx.QueryRowContext(ctx, `SELECT quantity FROM inventory WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInventoryNotFound
		}
		if err != nil {
			return err
		}

		query := `UPDATE inventory
			SET quantity = COALESCE($1, quantity),
				reorder_point = COALESCE($2, reorder_point),
				reorder_quantity = COALESCE($3, reorder_quantity),
				updated_at = $4
			WHERE id = $5
			RETURNING ` + inventoryColumns
		updated, err = scanInventory(tx.QueryRowContext(ctx, query,
			nullInt(upd.Quantity), nullInt(upd.ReorderPoint), nullInt(upd.ReorderQuantity), nowUTC(), id))
		if err != nil {
			return err
		}

		if delta := updated.Quantity - current; delta != 0 {
			return insertMovement(ctx, tx, updated, delta, models.MovementAdjustment, updated.UpdatedAt)
		}
		return nil
	})
	if err != nil {
		return models.Inventory{}, err
	}
	return updated, nil
}

func (r *PostgresInventoryRepository) Restock(ctx context.Context, id, quantity int) (models.Inventory, error) {
	if quantity <= 0 {
		return models.Inventory{}, ErrInvalidRestockQuantity
	}
	query := `
		UPDATE inventory
		SET quantity = quantity + $1, updated_at = $2, last_restock_at = $2
		WHERE id = $3
		RETURNING ` + inventoryColumns
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var inv models.Inventory
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		inv, err = scanInventory(tx.QueryRowContext(ctx, query, quantity, nowUTC(), id))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInventoryNotFound
		}
		if err != nil {
			return err
		}
		return insertMovement(ctx, tx, inv, quantity, models.MovementRestock, inv.UpdatedAt)
	})
	if err != nil {
		return models.Inventory{}, err
	}
	return inv, nil
}

func (r *PostgresInventoryRepository) Receive(ctx context.Context, productID, storeID, quantity int) (models.Inventory, error) {
	if quantity < 0 {
		return models.Inventory{}, ErrInvalidQuantityChange
	}
	query := `
		INSERT INTO inventory (product_id, store_id, quantity, created_at, updated_at, last_restock_at)
		VALUES ($1, $2, $3, $4, $4, $4)
		ON CONFLICT (product_id, store_id) DO UPDATE
		SET quantity = inventory.quantity + EXCLUDED.quantity,
			updated_at = EXCLUDED.updated_at,
			last_restock_at = EXCLUDED.last_restock_at
		RETURNING ` + inventoryColumns
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var inv models.Inventory
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		inv, err = scanInventory(tx.QueryRowContext(ctx, query, productID, storeID, quantity, nowUTC()))
		if err != nil {
			return mapWriteError(err, ErrDuplicateInventory, ErrUnknownReference)
		}
		return insertMovement(ctx, tx, inv, quantity, models.MovementReceipt, inv.UpdatedAt)
	})
	if err != nil {
		return models.Inventory{}, err
	}
	return inv, nil
}

func (r *PostgresInventoryRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrInventoryNotFound
	}
	return nil
}

func (r *PostgresInventoryRepository) Filter(ctx context.Context, f InventoryFilter) ([]models.InventoryDetails, int, error) {
	conditions := ""
	args := []any{}
	argIdx := 1
	if f.StoreID != nil {
		conditions += fmt.Sprintf(" AND i.store_id = $%d", argIdx)
		args = append(args, *f.StoreID)
		argIdx++
	}
	if f.ProductID != nil {
		conditions += fmt.Sprintf(" AND i.product_id = $%d", argIdx)
		args = append(args, *f.ProductID)
		argIdx++
	}
	if f.Search != "" {
		conditions += fmt.Sprintf(" AND (p.name ILIKE $%d OR p.sku ILIKE $%d OR s.name ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var total int
	countQuery := `SELECT COUNT(*) FROM inventory i
		JOIN products p ON p.id = i.product_id
		JOIN stores s ON s.id = i.store_id WHERE 1=1` + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset, limit := pageArgs(f.Offset, f.Limit)
	query := inventoryDetailsQuery + ` WHERE 1=1` + conditions +
		fmt.Sprintf(" ORDER BY i.id LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := []models.InventoryDetails{}
	for rows.Next() {
		d, err := scanInventoryDetails(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, d)
	}
	return records, total, rows.Err()
}

func (r *PostgresInventoryRepository) ListAll(ctx context.Context) ([]models.Inventory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+inventoryColumns+` FROM inventory ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.Inventory
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, inv)
	}
	return records, rows.Err()
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
