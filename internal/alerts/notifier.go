package alerts

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/inventory-analytics/internal/analytics"
	"github.com/rogerio-castellano/inventory-analytics/internal/models"
	"github.com/rogerio-castellano/inventory-analytics/internal/repo"
)

// Notifier publishes an alert for every record a write leaves running low.
// Publishing failures are logged and never fail the write.
type Notifier struct {
	policy    analytics.Policy
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewNotifier(policy analytics.Policy, publisher Publisher, logger *zap.Logger) *Notifier {
	return &Notifier{
		policy:    policy,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (n *Notifier) Check(ctx context.Context, inv models.Inventory, reason string) {
	state := n.policy.ClassifyStatic(inv)
	if !state.IsLow() {
		return
	}

	a := Alert{
		InventoryID:  inv.ID,
		ProductID:    inv.ProductID,
		StoreID:      inv.StoreID,
		Quantity:     inv.Quantity,
		ReorderPoint: inv.ReorderPoint,
		State:        state,
		Reason:       reason,
		At:           n.now(),
	}
	if err := n.publisher.Publish(ctx, a); err != nil {
		n.logger.Warn("failed to publish low stock alert",
			zap.Int("inventory_id", inv.ID),
			zap.String("state", string(state)),
			zap.Error(err))
		return
	}
	n.logger.Info("low stock alert",
		zap.Int("inventory_id", inv.ID),
		zap.Int("quantity", inv.Quantity),
		zap.Int("reorder_point", inv.ReorderPoint),
		zap.String("state", string(state)))
}

func (n *Notifier) Recent(ctx context.Context, limit int) ([]Alert, error) {
	return n.publisher.Recent(ctx, limit)
}

// NotifyingInventory checks every record an inventory write returns.
type NotifyingInventory struct {
	repo.InventoryRepository
	notifier *Notifier
}

func NewNotifyingInventory(inner repo.InventoryRepository, notifier *Notifier) *NotifyingInventory {
	return &NotifyingInventory{InventoryRepository: inner, notifier: notifier}
}

func (r *NotifyingInventory) Create(ctx context.Context, inv models.Inventory) (models.Inventory, error) {
	out, err := r.InventoryRepository.Create(ctx, inv)
	if err == nil {
		r.notifier.Check(ctx, out, "create")
	}
	return out, err
}

func (r *NotifyingInventory) Update(ctx context.Context, id int, upd repo.InventoryUpdate) (models.Inventory, error) {
	out, err := r.InventoryRepository.Update(ctx, id, upd)
	if err == nil {
		r.notifier.Check(ctx, out, "update")
	}
	return out, err
}

func (r *NotifyingInventory) Restock(ctx context.Context, id, quantity int) (models.Inventory, error) {
	out, err := r.InventoryRepository.Restock(ctx, id, quantity)
	if err == nil {
		r.notifier.Check(ctx, out, "restock")
	}
	return out, err
}

func (r *NotifyingInventory) Receive(ctx context.Context, productID, storeID, quantity int) (models.Inventory, error) {
	out, err := r.InventoryRepository.Receive(ctx, productID, storeID, quantity)
	if err == nil {
		r.notifier.Check(ctx, out, "receipt")
	}
	return out, err
}
