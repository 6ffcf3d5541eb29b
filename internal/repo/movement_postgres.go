package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

type PostgresMovementRepository struct {
	db *sql.DB
}

func NewPostgresMovementRepository(db *sql.DB) *PostgresMovementRepository {
	return &PostgresMovementRepository{db: db}
}

const movementColumns = `id, inventory_id, product_id, store_id, delta, kind, created_at`

// insertMovement appends a ledger entry inside the caller's transaction.
func insertMovement(ctx context.Context, tx *sql.Tx, inv models.Inventory, delta int, kind models.MovementKind, at time.Time) error {
	query := `INSERT INTO movements (inventory_id, product_id, store_id, delta, kind, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.ExecContext(ctx, query, inv.ID, inv.ProductID, inv.StoreID, delta, string(kind), at); err != nil {
		return fmt.Errorf("failed to insert movement: %w", err)
	}
	return nil
}

// GetByInventoryID returns the movements of one inventory record, newest first
func (r *PostgresMovementRepository) GetByInventoryID(ctx context.Context, inventoryID int, mf MovementFilter) ([]models.Movement, int, error) {
	whereClause, args := r.buildWhereClause(inventoryID, mf)

	if mf.Offset != nil && *mf.Offset < 0 {
		return nil, 0, fmt.Errorf("offset must be non-negative")
	}

	total, err := r.getTotal(ctx, whereClause, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	// Early return if offset is beyond total
	if !mf.All && mf.Offset != nil && *mf.Offset >= total {
		return []models.Movement{}, total, nil
	}

	query, queryArgs := r.buildMainQuery(whereClause, args, mf)
	movements, err := r.executeQuery(ctx, query, queryArgs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return movements, total, nil
}

// ListSince feeds history reconstruction: every movement at or after since, oldest first.
func (r *PostgresMovementRepository) ListSince(ctx context.Context, since time.Time) ([]models.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE created_at >= $1 ORDER BY created_at, id`
	return r.executeQuery(ctx, query, []any{since})
}

// buildWhereClause constructs the WHERE clause and returns arguments
func (r *PostgresMovementRepository) buildWhereClause(inventoryID int, mf MovementFilter) (string, []any) {
	args := []any{inventoryID}
	whereClause := "WHERE inventory_id = $1"
	argIndex := 2

	if mf.Since != nil {
		whereClause += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *mf.Since)
		argIndex++
	}

	if mf.Until != nil {
		whereClause += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, *mf.Until)
	}

	return whereClause, args
}

// buildMainQuery constructs the main SELECT query with pagination
func (r *PostgresMovementRepository) buildMainQuery(whereClause string, baseArgs []any, mf MovementFilter) (string, []any) {
	query := fmt.Sprintf("SELECT %s FROM movements %s ORDER BY created_at DESC, id DESC", movementColumns, whereClause)
	args := make([]any, len(baseArgs))
	copy(args, baseArgs)
	if mf.All {
		return query, args
	}

	offset, limit := pageArgs(mf.Offset, mf.Limit)
	argIndex := len(baseArgs) + 1
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	return query, args
}

// getTotal executes the count query
func (r *PostgresMovementRepository) getTotal(ctx context.Context, whereClause string, args []any) (int, error) {
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM movements %s", whereClause)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// executeQuery executes the main query and scans results
func (r *PostgresMovementRepository) executeQuery(ctx context.Context, query string, args []any) ([]models.Movement, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := []models.Movement{}
	for rows.Next() {
		var m models.Movement
		var kind string
		if err := rows.Scan(&m.ID, &m.InventoryID, &m.ProductID, &m.StoreID, &m.Delta, &kind, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Kind = models.MovementKind(kind)
		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return movements, nil
}
