package models

import "time"

// Product is a catalog item. SKU is unique across the catalog.
type Product struct {
	ID          int       `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store is a physical location carrying inventory. Region is optional and is the
// grouping key for regional analytics.
type Store struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Region    string    `json:"region,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
