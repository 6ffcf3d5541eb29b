package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

type PostgresPurchaseOrderRepository struct {
	db *sql.DB
}

func NewPostgresPurchaseOrderRepository(db *sql.DB) *PostgresPurchaseOrderRepository {
	return &PostgresPurchaseOrderRepository{db: db}
}

const orderSelect = `SELECT o.id, o.store_id, s.name, o.status, o.created_at, o.updated_at,
		o.submitted_at, o.approved_at, o.received_at
	FROM purchase_orders o
	JOIN stores s ON s.id = o.store_id`

func scanOrder(row interface{ Scan(...any) error }) (models.PurchaseOrder, error) {
	var o models.PurchaseOrder
	var status string
	var submitted, approved, received sql.NullTime
	err := row.Scan(&o.ID, &o.StoreID, &o.StoreName, &status, &o.CreatedAt, &o.UpdatedAt,
		&submitted, &approved, &received)
	o.Status = models.OrderStatus(status)
	o.SubmittedAt = timePtr(submitted)
	o.ApprovedAt = timePtr(approved)
	o.ReceivedAt = timePtr(received)
	return o, err
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func (r *PostgresPurchaseOrderRepository) Create(ctx context.Context, order models.PurchaseOrder) (models.PurchaseOrder, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var id int
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		now := nowUTC()
		err := tx.QueryRowContext(ctx,
			`INSERT INTO purchase_orders (store_id, status, created_at, updated_at) VALUES ($1, $2, $3, $3) RETURNING id`,
			order.StoreID, string(order.Status), now).Scan(&id)
		if err != nil {
			return mapWriteError(err, ErrDuplicatedValueUnique, ErrStoreNotFound)
		}

		for _, it := range order.Items {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO purchase_order_items (purchase_order_id, product_id, quantity, created_at) VALUES ($1, $2, $3, $4)`,
				id, it.ProductID, it.Quantity, now)
			if err != nil {
				return mapWriteError(err, ErrDuplicatedValueUnique, ErrProductNotFound)
			}
		}
		return nil
	})
	if err != nil {
		return models.PurchaseOrder{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *PostgresPurchaseOrderRepository) GetByID(ctx context.Context, id int) (models.PurchaseOrder, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	o, err := scanOrder(r.db.QueryRowContext(ctx, orderSelect+` WHERE o.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.PurchaseOrder{}, ErrOrderNotFound
	}
	if err != nil {
		return models.PurchaseOrder{}, err
	}

	items, err := r.items(ctx, []int{o.ID})
	if err != nil {
		return models.PurchaseOrder{}, err
	}
	o.Items = items[o.ID]
	if o.Items == nil {
		o.Items = []models.PurchaseOrderItem{}
	}
	return o, nil
}

func (r *PostgresPurchaseOrderRepository) Filter(ctx context.Context, f OrderFilter) ([]models.PurchaseOrder, int, error) {
	conditions := ""
	args := []any{}
	argIdx := 1
	if f.StoreID != nil {
		conditions += fmt.Sprintf(" AND o.store_id = $%d", argIdx)
		args = append(args, *f.StoreID)
		argIdx++
	}
	if f.Status != nil {
		conditions += fmt.Sprintf(" AND o.status = $%d", argIdx)
		args = append(args, string(*f.Status))
		argIdx++
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM purchase_orders o WHERE 1=1`+conditions, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset, limit := pageArgs(f.Offset, f.Limit)
	query := orderSelect + ` WHERE 1=1` + conditions +
		fmt.Sprintf(" ORDER BY o.created_at DESC, o.id DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []models.PurchaseOrder{}
	ids := []int{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return orders, total, nil
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []models.PurchaseOrderItem{}
		}
	}
	return orders, total, nil
}

func (r *PostgresPurchaseOrderRepository) items(ctx context.Context, orderIDs []int) (map[int][]models.PurchaseOrderItem, error) {
	query := `SELECT it.id, it.purchase_order_id, it.product_id, p.name, p.sku, it.quantity, it.created_at
		FROM purchase_order_items it
		JOIN products p ON p.id = it.product_id
		WHERE it.purchase_order_id = ANY($1)
		ORDER BY it.purchase_order_id, it.id`

	rows, err := r.db.QueryContext(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byOrder := map[int][]models.PurchaseOrderItem{}
	for rows.Next() {
		var it models.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.ProductName, &it.ProductSKU, &it.Quantity, &it.CreatedAt); err != nil {
			return nil, err
		}
		byOrder[it.PurchaseOrderID] = append(byOrder[it.PurchaseOrderID], it)
	}
	return byOrder, rows.Err()
}

func (r *PostgresPurchaseOrderRepository) UpdateStatus(ctx context.Context, order models.PurchaseOrder, expected models.OrderStatus) (models.PurchaseOrder, error) {
	query := `UPDATE purchase_orders
		SET status = $1, updated_at = $2, submitted_at = $3, approved_at = $4, received_at = $5
		WHERE id = $6 AND status = $7`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, string(order.Status), order.UpdatedAt,
		order.SubmittedAt, order.ApprovedAt, order.ReceivedAt, order.ID, string(expected))
	if err != nil {
		return models.PurchaseOrder{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		if _, err := r.GetByID(ctx, order.ID); err != nil {
			return models.PurchaseOrder{}, err
		}
		return models.PurchaseOrder{}, ErrOrderStatusChanged
	}
	return r.GetByID(ctx, order.ID)
}
