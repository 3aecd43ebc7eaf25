package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidIDFormat = errors.New("invalid ID format")
	ErrNotesTooLong    = errors.New("notes exceed maximum length")
)

// Validation constants
const (
	MaxNotesLength = 500
)

// ValidateQuantity validates a strictly positive quantity.
func ValidateQuantity(quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// ValidateInitialQuantity validates a quantity that may be zero.
func ValidateInitialQuantity(quantity int64) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidQuantity)
	}
	return nil
}

// ValidateUnitCost validates a strictly positive unit cost.
func ValidateUnitCost(unitCost decimal.Decimal) error {
	if unitCost.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidUnitCost
	}
	return nil
}

// ValidatePrice validates a strictly positive sale price.
func ValidatePrice(price decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPrice
	}
	return nil
}

// ValidateDiscount validates a discount percentage in [0, 100].
func ValidateDiscount(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidDiscount
	}
	return nil
}

// ValidateEntityID validates that an externally supplied entity id
// (store, product, employee, customer) is a UUID.
func ValidateEntityID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidIDFormat, id)
	}
	return nil
}

// ValidateNotes validates an optional free-text note.
func ValidateNotes(notes *string) error {
	if notes != nil && len(*notes) > MaxNotesLength {
		return fmt.Errorf("%w: limit is %d characters", ErrNotesTooLong, MaxNotesLength)
	}
	return nil
}

// ValidatePagination clamps pagination parameters to sane bounds.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 100

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
