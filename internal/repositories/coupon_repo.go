package repositories

import (
	"market/internal/models"
)

// CouponRepository defines the interface for the coupon catalog. Coupons
// are immutable once issued; lookup by code is the only read path the
// order engine needs.
type CouponRepository interface {
	FindByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
}
