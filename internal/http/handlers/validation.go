package handlers

import (
	"strings"
)

type ValidationError struct {
	Field       string `json:"field,omitempty"`
	Description string `json:"description"`
}

func validateProduct(p ProductRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(p.SKU) == "" {
		errs = append(errs, ValidationError{Field: "sku", Description: "SKU is required"})
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Description: "Name is required"})
	}
	return errs
}

func validateStore(s StoreRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Description: "Name is required"})
	}
	if strings.TrimSpace(s.Location) == "" {
		errs = append(errs, ValidationError{Field: "location", Description: "Location is required"})
	}
	return errs
}

func validateInventory(req InventoryRequest) []ValidationError {
	errs := []ValidationError{}
	if req.ProductID <= 0 {
		errs = append(errs, ValidationError{Field: "product_id", Description: "Product is required"})
	}
	if req.StoreID <= 0 {
		errs = append(errs, ValidationError{Field: "store_id", Description: "Store is required"})
	}
	if req.Quantity < 0 {
		errs = append(errs, ValidationError{Field: "quantity", Description: "Quantity cannot be negative"})
	}
	if req.ReorderPoint != nil && *req.ReorderPoint < 0 {
		errs = append(errs, ValidationError{Field: "reorder_point", Description: "Reorder point cannot be negative"})
	}
	if req.ReorderQuantity != nil && *req.ReorderQuantity < 0 {
		errs = append(errs, ValidationError{Field: "reorder_quantity", Description: "Reorder quantity cannot be negative"})
	}
	return errs
}
