package repo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rogerio-castellano/inventory-analytics/internal/apperr"
)

var (
	ErrProductNotFound   = apperr.New(apperr.KindNotFound, "product not found")
	ErrStoreNotFound     = apperr.New(apperr.KindNotFound, "store not found")
	ErrInventoryNotFound = apperr.New(apperr.KindNotFound, "inventory record not found")
	ErrOrderNotFound     = apperr.New(apperr.KindNotFound, "purchase order not found")

	ErrDuplicateInventory    = apperr.New(apperr.KindConflict, "inventory record already exists for this product and store")
	ErrDuplicatedValueUnique = apperr.New(apperr.KindConflict, "duplicated value for a unique field")
	ErrInUse                 = apperr.New(apperr.KindConflict, "record is still referenced by inventory or orders")
	ErrOrderStatusChanged    = apperr.New(apperr.KindConflict, "purchase order status changed concurrently")
	ErrUnknownReference      = apperr.New(apperr.KindNotFound, "referenced product or store not found")

	ErrInvalidQuantityChange  = apperr.New(apperr.KindInvalidArgument, "quantity cannot be negative")
	ErrInvalidRestockQuantity = apperr.New(apperr.KindInvalidArgument, "restock quantity must be greater than zero")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapWriteError translates constraint violations into the repository sentinels.
func mapWriteError(err error, unique, foreignKey error) error {
	switch pgCode(err) {
	case pgUniqueViolation:
		return unique
	case pgForeignKeyViolation:
		return foreignKey
	}
	return err
}
