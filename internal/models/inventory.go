package models

import "time"

// Inventory is the stock of one product at one store. There is at most one
// record per (ProductID, StoreID).
type Inventory struct {
	ID              int        `json:"id"`
	ProductID       int        `json:"product_id"`
	StoreID         int        `json:"store_id"`
	Quantity        int        `json:"quantity"`
	ReorderPoint    int        `json:"reorder_point"`
	ReorderQuantity int        `json:"reorder_quantity"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastRestockAt   *time.Time `json:"last_restock_at,omitempty"`
}

// InventoryDetails is an inventory record joined with its product and store.
type InventoryDetails struct {
	Inventory
	ProductName   string `json:"product_name"`
	ProductSKU    string `json:"product_sku"`
	StoreName     string `json:"store_name"`
	StoreLocation string `json:"store_location"`
}

// SalesRecord is one sale of a product at a store. Sales are read-only here.
type SalesRecord struct {
	ID           int       `json:"id"`
	ProductID    int       `json:"product_id"`
	StoreID      int       `json:"store_id"`
	QuantitySold int       `json:"quantity_sold"`
	SaleDate     time.Time `json:"sale_date"`
}
