package domain

import "errors"

var (
	// Inventory errors
	ErrInventoryNotFound      = errors.New("inventory not found")
	ErrInventoryAlreadyExists = errors.New("inventory already initialized for store and product")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInvalidQuantity        = errors.New("quantity must be positive")
	ErrInvalidUnitCost        = errors.New("unit cost must be positive")
	ErrZeroAdjustment         = errors.New("adjustment quantity cannot be zero")
	ErrUnknownMovementType    = errors.New("unknown movement type")
	ErrSameStore              = errors.New("cannot transfer to same store")

	// Catalog and directory errors
	ErrProductNotFound  = errors.New("product not found")
	ErrStoreNotFound    = errors.New("store not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrNoCurrentPrice   = errors.New("no current price for product")
	ErrInvalidPrice     = errors.New("price must be positive")
	ErrInvalidDiscount  = errors.New("discount must be between 0 and 100")

	// Order errors
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order must have at least one item")
	ErrInvalidOrderState = errors.New("operation not allowed for order status")
	ErrUnknownStatus     = errors.New("unknown order status")
)
