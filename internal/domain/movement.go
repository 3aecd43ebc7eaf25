package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType classifies an inventory movement.
type MovementType string

const (
	MovementPurchase   MovementType = "purchase"
	MovementSale       MovementType = "sale"
	MovementAdjustment MovementType = "adjustment"
	MovementReturn     MovementType = "return"
	MovementTransfer   MovementType = "transfer"
)

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	switch t {
	case MovementPurchase, MovementSale, MovementAdjustment, MovementReturn, MovementTransfer:
		return true
	}
	return false
}

// Movement is one append-only audit record of a stock change. The balance for
// a (store, product) pair must always equal the running sum of its movements'
// quantity changes.
type Movement struct {
	ID             string
	StoreID        string
	ProductID      string
	QuantityChange int64
	UnitCost       decimal.Decimal
	Type           MovementType
	ReferenceID    *string
	Notes          *string
	CreatedAt      time.Time
}

// Validate checks movement invariants before it is appended.
func (m *Movement) Validate() error {
	if m.QuantityChange == 0 {
		return ErrZeroAdjustment
	}

	if m.UnitCost.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidUnitCost
	}

	if !m.Type.Valid() {
		return ErrUnknownMovementType
	}

	return nil
}

// MovementFilter narrows movement history queries. Zero values mean "any".
type MovementFilter struct {
	StoreID     string
	ProductID   string
	Type        MovementType
	ReferenceID string
	StartDate   *time.Time
	EndDate     *time.Time
	Limit       int
	Offset      int
}
