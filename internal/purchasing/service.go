// Package purchasing creates purchase orders, moves them through their
// statuses and books received goods into inventory.
package purchasing

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/inventory-analytics/internal/apperr"
	"github.com/rogerio-castellano/inventory-analytics/internal/models"
	"github.com/rogerio-castellano/inventory-analytics/internal/repo"
)

type ItemRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type CreateOrderRequest struct {
	StoreID int           `json:"store_id"`
	Status  string        `json:"status,omitempty"`
	Items   []ItemRequest `json:"items"`
}

func (r CreateOrderRequest) Validate() error {
	if r.StoreID <= 0 {
		return apperr.InvalidArgument("store_id is required")
	}
	if len(r.Items) == 0 {
		return apperr.InvalidArgument("an order needs at least one item")
	}
	for _, it := range r.Items {
		if it.ProductID <= 0 {
			return apperr.InvalidArgument("product_id is required on every item")
		}
		if it.Quantity < 0 {
			return apperr.InvalidArgument("item quantity must not be negative")
		}
	}
	return nil
}

type Service struct {
	orders    repo.PurchaseOrderRepository
	inventory repo.InventoryRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(orders repo.PurchaseOrderRepository, inventory repo.InventoryRepository, logger *zap.Logger) *Service {
	return &Service{
		orders:    orders,
		inventory: inventory,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a draft order, then moves it to the requested status.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (models.PurchaseOrder, error) {
	if err := req.Validate(); err != nil {
		return models.PurchaseOrder{}, err
	}
	target := models.OrderDraft
	if req.Status != "" {
		st, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			return models.PurchaseOrder{}, err
		}
		target = st
	}

	order := models.PurchaseOrder{StoreID: req.StoreID, Status: models.OrderDraft}
	for _, it := range req.Items {
		order.Items = append(order.Items, models.PurchaseOrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return models.PurchaseOrder{}, err
	}
	s.logger.Info("purchase order created",
		zap.Int("order_id", created.ID),
		zap.Int("store_id", created.StoreID),
		zap.Int("total_items", created.TotalItems()))

	if target == models.OrderDraft {
		return created, nil
	}
	return s.UpdateStatus(ctx, created.ID, target)
}

func (s *Service) Get(ctx context.Context, id int) (models.PurchaseOrder, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f repo.OrderFilter) ([]models.PurchaseOrder, int, error) {
	return s.orders.Filter(ctx, f)
}

// UpdateStatus moves an order to status. Entering received books every item
// into the store's inventory; an order that is already received is returned
// unchanged so goods are never booked twice.
func (s *Service) UpdateStatus(ctx context.Context, id int, status models.OrderStatus) (models.PurchaseOrder, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return models.PurchaseOrder{}, err
	}
	prev := order.Status
	if prev == models.OrderReceived && status == models.OrderReceived {
		return order, nil
	}

	if err := order.ApplyStatus(status, s.now()); err != nil {
		return models.PurchaseOrder{}, err
	}
	updated, err := s.orders.UpdateStatus(ctx, order, prev)
	if err != nil {
		if errors.Is(err, repo.ErrOrderStatusChanged) {
			s.logger.Warn("purchase order changed concurrently", zap.Int("order_id", id))
		}
		return models.PurchaseOrder{}, err
	}
	s.logger.Info("purchase order status updated",
		zap.Int("order_id", id),
		zap.String("from", string(prev)),
		zap.String("to", string(status)))

	if status == models.OrderReceived {
		if err := s.receive(ctx, updated); err != nil {
			return models.PurchaseOrder{}, err
		}
	}
	return updated, nil
}

func (s *Service) receive(ctx context.Context, order models.PurchaseOrder) error {
	for _, it := range order.Items {
		if it.Quantity == 0 {
			continue
		}
		inv, err := s.inventory.Receive(ctx, it.ProductID, order.StoreID, it.Quantity)
		if err != nil {
			s.logger.Error("failed to book received item",
				zap.Int("order_id", order.ID),
				zap.Int("product_id", it.ProductID),
				zap.Error(err))
			return err
		}
		s.logger.Info("received item booked",
			zap.Int("order_id", order.ID),
			zap.Int("inventory_id", inv.ID),
			zap.Int("quantity", it.Quantity),
			zap.Int("on_hand", inv.Quantity))
	}
	return nil
}
