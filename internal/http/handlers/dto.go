package handlers

import (
	"github.com/rogerio-castellano/inventory-analytics/internal/models"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details []ValidationError `json:"details,omitempty"`
}

type ProductRequest struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

type ImportProductsResult struct {
	ImportedProductsCount int               `json:"imported"`
	Errors                []ValidationError `json:"errors"`
}

type StoreRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Region   string `json:"region,omitempty"`
}

type InventoryRequest struct {
	ProductID       int  `json:"product_id"`
	StoreID         int  `json:"store_id"`
	Quantity        int  `json:"quantity"`
	ReorderPoint    *int `json:"reorder_point,omitempty"`
	ReorderQuantity *int `json:"reorder_quantity,omitempty"`
}

// InventoryUpdateRequest sets absolute values; omitted fields are unchanged.
type InventoryUpdateRequest struct {
	Quantity        *int `json:"quantity,omitempty"`
	ReorderPoint    *int `json:"reorder_point,omitempty"`
	ReorderQuantity *int `json:"reorder_quantity,omitempty"`
}

type RestockRequest struct {
	Quantity int `json:"quantity"`
}

type OrderStatusRequest struct {
	Status string `json:"status"`
}

type PurchaseOrderResponse struct {
	models.PurchaseOrder
	TotalItems int `json:"total_items"`
}

func toOrderResponse(o models.PurchaseOrder) PurchaseOrderResponse {
	if o.Items == nil {
		o.Items = []models.PurchaseOrderItem{}
	}
	return PurchaseOrderResponse{PurchaseOrder: o, TotalItems: o.TotalItems()}
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}
