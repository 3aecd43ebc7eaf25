package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnitCostPrecision is the number of decimal places kept when blending
// weighted-average unit costs.
const UnitCostPrecision = 4

// Inventory is the stock balance for one product at one store. There is at
// most one record per (store, product) pair; a zero balance is a valid state.
type Inventory struct {
	ID              string
	StoreID         string
	ProductID       string
	QuantityBalance int64
	UnitCost        decimal.Decimal
	TotalCost       decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidateSale checks that quantity units can be removed from the balance.
func (i *Inventory) ValidateSale(quantity int64) error {
	if i.QuantityBalance < quantity {
		return ErrInsufficientStock
	}
	return nil
}

// ValidateAdjustment checks that applying delta keeps the balance non-negative.
func (i *Inventory) ValidateAdjustment(delta int64) error {
	if i.QuantityBalance+delta < 0 {
		return ErrInsufficientStock
	}
	return nil
}

// ApplyPurchase returns the balance after receiving quantity units at
// unitCost, blended by weighted-average costing. Total cost accumulates the
// incoming cost; unit cost is recomputed from the new totals.
func (i *Inventory) ApplyPurchase(quantity int64, unitCost decimal.Decimal) (newQuantity int64, newUnitCost, newTotalCost decimal.Decimal) {
	newQuantity = i.QuantityBalance + quantity
	newTotalCost = i.TotalCost.Add(unitCost.Mul(decimal.NewFromInt(quantity)))
	newUnitCost = newTotalCost.DivRound(decimal.NewFromInt(newQuantity), UnitCostPrecision)

	return newQuantity, newUnitCost, newTotalCost
}

// ApplySale returns the balance after removing quantity units. Sales do not
// change the weighted-average unit cost; total cost is recomputed from it.
func (i *Inventory) ApplySale(quantity int64) (newQuantity int64, newTotalCost decimal.Decimal) {
	return i.ApplyAdjustment(-quantity)
}

// ApplyAdjustment returns the balance after a signed correction. Unit cost is
// held constant.
func (i *Inventory) ApplyAdjustment(delta int64) (newQuantity int64, newTotalCost decimal.Decimal) {
	newQuantity = i.QuantityBalance + delta
	newTotalCost = i.UnitCost.Mul(decimal.NewFromInt(newQuantity))

	return newQuantity, newTotalCost
}

// ApplyReturn returns the balance after quantity units come back at the
// current unit cost. Returned goods do not re-blend the average.
func (i *Inventory) ApplyReturn(quantity int64) (newQuantity int64, newTotalCost decimal.Decimal) {
	return i.ApplyAdjustment(quantity)
}
