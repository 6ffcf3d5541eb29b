package models

import (
	"time"

	"github.com/rogerio-castellano/inventory-analytics/internal/apperr"
)

type OrderStatus string

const (
	OrderDraft     OrderStatus = "draft"
	OrderSubmitted OrderStatus = "submitted"
	OrderApproved  OrderStatus = "approved"
	OrderReceived  OrderStatus = "received"
	OrderCancelled OrderStatus = "cancelled"
)

var orderStatuses = []OrderStatus{OrderDraft, OrderSubmitted, OrderApproved, OrderReceived, OrderCancelled}

// ParseOrderStatus accepts exactly the five known statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range orderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", apperr.InvalidArgument("unknown order status %q", s)
}

// IsTerminal reports whether no further workflow is expected from the status.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderReceived || s == OrderCancelled
}

// ValidateTransition is the only place order status changes are checked.
// The workflow is permissive: the dashboard may move an order to any status.
func ValidateTransition(from, to OrderStatus) error {
	if _, err := ParseOrderStatus(string(to)); err != nil {
		return err
	}
	return nil
}

type PurchaseOrderItem struct {
	ID              int       `json:"id"`
	PurchaseOrderID int       `json:"purchase_order_id"`
	ProductID       int       `json:"product_id"`
	ProductName     string    `json:"product_name,omitempty"`
	ProductSKU      string    `json:"product_sku,omitempty"`
	Quantity        int       `json:"quantity"`
	CreatedAt       time.Time `json:"created_at"`
}

type PurchaseOrder struct {
	ID          int                 `json:"id"`
	StoreID     int                 `json:"store_id"`
	StoreName   string              `json:"store_name"`
	Status      OrderStatus         `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	SubmittedAt *time.Time          `json:"submitted_at,omitempty"`
	ApprovedAt  *time.Time          `json:"approved_at,omitempty"`
	ReceivedAt  *time.Time          `json:"received_at,omitempty"`
	Items       []PurchaseOrderItem `json:"items"`
}

// TotalItems is the number of units ordered across all items.
func (o PurchaseOrder) TotalItems() int {
	total := 0
	for _, it := range o.Items {
		total += it.Quantity
	}
	return total
}

// ApplyStatus moves the order to status and stamps the matching timestamp.
func (o *PurchaseOrder) ApplyStatus(status OrderStatus, at time.Time) error {
	if err := ValidateTransition(o.Status, status); err != nil {
		return err
	}
	o.Status = status
	o.UpdatedAt = at
	switch status {
	case OrderSubmitted:
		o.SubmittedAt = &at
	case OrderApproved:
		o.ApprovedAt = &at
	case OrderReceived:
		o.ReceivedAt = &at
	}
	return nil
}
