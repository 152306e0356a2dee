package service

import (
	"fmt"
	"time"

	"github.com/Skotchmaster/shop_backend/internal/config"
	"github.com/Skotchmaster/shop_backend/internal/models"
)

// CouponPolicy decides whether a known coupon may be applied to a cart.
type CouponPolicy interface {
	Accept(c *models.Coupon, now time.Time) error
}

// LenientCoupons accepts every stored coupon, including expired ones.
type LenientCoupons struct{}

func (LenientCoupons) Accept(*models.Coupon, time.Time) error { return nil }

// StrictCoupons rejects coupons past their expiry.
type StrictCoupons struct{}

func (StrictCoupons) Accept(c *models.Coupon, now time.Time) error {
	if !c.Expiry.After(now) {
		return fmt.Errorf("%w: coupon %s expired", ErrValidation, c.Name)
	}
	return nil
}

func PolicyFromConfig(name string) CouponPolicy {
	if name == config.CouponPolicyStrict {
		return StrictCoupons{}
	}
	return LenientCoupons{}
}
