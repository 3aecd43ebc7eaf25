package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductPrice is one effective-dated price record for a product. The current
// price is the latest record whose effective date has passed and whose end
// date, if any, has not.
type ProductPrice struct {
	ID              string
	ProductID       string
	CurrentPrice    decimal.Decimal
	DiscountPercent *decimal.Decimal
	EffectiveDate   time.Time
	EndDate         *time.Time
	CreatedAt       time.Time
}

// Validate checks price record constraints.
func (p *ProductPrice) Validate() error {
	if p.CurrentPrice.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPrice
	}

	if p.DiscountPercent != nil {
		if err := ValidateDiscount(*p.DiscountPercent); err != nil {
			return err
		}
	}

	return nil
}

// Effective returns the price after applying the discount, if any.
func (p *ProductPrice) Effective() decimal.Decimal {
	if p.DiscountPercent == nil || p.DiscountPercent.IsZero() {
		return p.CurrentPrice
	}

	factor := decimal.NewFromInt(100).Sub(*p.DiscountPercent).Div(decimal.NewFromInt(100))

	return p.CurrentPrice.Mul(factor).Round(2)
}

// ActiveAt reports whether the record is in effect at the given time.
func (p *ProductPrice) ActiveAt(at time.Time) bool {
	if p.EffectiveDate.After(at) {
		return false
	}

	if p.EndDate != nil && !p.EndDate.After(at) {
		return false
	}

	return true
}
