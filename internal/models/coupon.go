package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Coupon is a discount rule looked up by code. A coupon carries exactly one
// of FlatAmount (fixed discount) or DiscountRate (fraction in [0,1)), an
// optional minimum purchase amount and an optional validity window.
// Coupons are immutable once issued; the catalog only supports lookup.
type Coupon struct {
	ID           string              `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Code         string              `json:"code" gorm:"uniqueIndex;type:varchar(50)" validate:"required"`
	FlatAmount   decimal.NullDecimal `json:"flat_amount" gorm:"type:decimal(20,2)"`
	DiscountRate decimal.NullDecimal `json:"discount_rate" gorm:"type:decimal(5,4)"`
	MinPurchase  decimal.NullDecimal `json:"min_purchase" gorm:"type:decimal(20,2)"`
	ValidFrom    *time.Time          `json:"valid_from"`
	ValidUntil   *time.Time          `json:"valid_until"`
	gorm.Model                       // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Eligible checks the coupon's validity window and minimum purchase amount
// against the order's total before discount. It returns an error wrapping
// ErrCouponNotApplicable when the order does not qualify.
func (c *Coupon) Eligible(now time.Time, totalBeforeDiscount decimal.Decimal) error {
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return fmt.Errorf("coupon %s is not valid before %s: %w", c.Code, c.ValidFrom.Format(time.RFC3339), ErrCouponNotApplicable)
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return fmt.Errorf("coupon %s expired at %s: %w", c.Code, c.ValidUntil.Format(time.RFC3339), ErrCouponNotApplicable)
	}
	if c.MinPurchase.Valid && totalBeforeDiscount.LessThan(c.MinPurchase.Decimal) {
		return fmt.Errorf("coupon %s requires a minimum purchase of %s: %w", c.Code, c.MinPurchase.Decimal, ErrCouponNotApplicable)
	}
	return nil
}

// DiscountFor computes the discount this coupon grants on the given total.
// Both branches are capped at the total so the payable amount never goes
// negative, even for a malformed rate outside [0,1). A rate discount is
// rounded to the currency precision. A coupon with neither field set
// grants nothing.
func (c *Coupon) DiscountFor(totalBeforeDiscount decimal.Decimal) decimal.Decimal {
	switch {
	case c.FlatAmount.Valid:
		if c.FlatAmount.Decimal.GreaterThan(totalBeforeDiscount) {
			return totalBeforeDiscount
		}
		return c.FlatAmount.Decimal
	case c.DiscountRate.Valid:
		discount := totalBeforeDiscount.Mul(c.DiscountRate.Decimal).Round(2)
		if discount.GreaterThan(totalBeforeDiscount) {
			return totalBeforeDiscount
		}
		return discount
	}
	return decimal.Zero
}
