package models

import "time"

type MovementKind string

const (
	MovementInitial    MovementKind = "initial"
	MovementRestock    MovementKind = "restock"
	MovementAdjustment MovementKind = "adjustment"
	MovementReceipt    MovementKind = "receipt"
)

// IsRestock reports whether the movement adds stock from outside the store.
func (k MovementKind) IsRestock() bool {
	return k == MovementRestock || k == MovementReceipt
}

// Movement is one entry of the inventory ledger. Every quantity change of an
// inventory record writes exactly one movement.
type Movement struct {
	ID          int          `json:"id"`
	InventoryID int          `json:"inventory_id"`
	ProductID   int          `json:"product_id"`
	StoreID     int          `json:"store_id"`
	Delta       int          `json:"delta"`
	Kind        MovementKind `json:"kind"`
	CreatedAt   time.Time    `json:"created_at"`
}
