package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
)

type CartService struct {
	Repo   *repo.GormRepo
	Policy CouponPolicy
	// Transactional runs the cart replacement inside one transaction.
	Transactional bool
	Now           func() time.Time
}

type CartLineInput struct {
	ProductID uuid.UUID `json:"id"`
	Count     int       `json:"count"`
	Color     string    `json:"color"`
}

// SetCart replaces the caller's cart with the given lines priced at the
// current product prices.
func (s *CartService) SetCart(ctx context.Context, actor Actor, lines []CartLineInput) (*models.Cart, error) {
	l := logging.FromContext(ctx).With("svc", "cart.set", "user_id", actor.UserID)

	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, fmt.Errorf("%w: product id required", ErrValidation)
		}
		if line.Count <= 0 {
			return nil, fmt.Errorf("%w: count must be > 0", ErrValidation)
		}
		ids = append(ids, line.ProductID)
	}

	products, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	items := make([]models.CartItem, 0, len(lines))
	for _, line := range lines {
		p, ok := products[line.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, line.ProductID)
		}
		items = append(items, models.CartItem{
			ProductID: p.ID,
			Color:     strings.TrimSpace(line.Color),
			Count:     line.Count,
			Price:     p.Price,
		})
		total = total.Add(lineTotal(p.Price, line.Count))
	}

	cartTotal, _ := total.Float64()
	cart := &models.Cart{
		UserID:    actor.UserID,
		Items:     items,
		CartTotal: cartTotal,
	}

	replace := func(r *repo.GormRepo) error { return r.ReplaceCart(ctx, cart) }
	if s.Transactional {
		err = s.Repo.WithTx(ctx, replace)
	} else {
		err = replace(s.Repo)
	}
	if err != nil {
		l.Error("set_cart_error", "error", err)
		return nil, err
	}

	l.Info("set_cart_success", "items", len(items), "cart_total", cartTotal)
	return cart, nil
}

func (s *CartService) GetCart(ctx context.Context, actor Actor) (*models.Cart, error) {
	cart, err := s.Repo.GetCart(ctx, actor.UserID, true)
	if err != nil {
		return nil, notFound(err, "cart empty")
	}
	return cart, nil
}

func (s *CartService) EmptyCart(ctx context.Context, actor Actor) error {
	err := s.Repo.DeleteCart(ctx, actor.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// ApplyCoupon stores the discounted total of the caller's cart. Coupons are
// not consumed.
func (s *CartService) ApplyCoupon(ctx context.Context, actor Actor, name string) (float64, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return 0, fmt.Errorf("%w: coupon is required", ErrValidation)
	}

	coupon, err := s.Repo.FindCouponByName(ctx, name)
	if err != nil {
		return 0, notFound(err, "invalid coupon")
	}
	if err := s.policy().Accept(coupon, s.now()); err != nil {
		return 0, err
	}

	cart, err := s.Repo.GetCart(ctx, actor.UserID, false)
	if err != nil {
		return 0, notFound(err, "cart empty")
	}

	discounted := applyDiscount(cart.CartTotal, coupon.Discount)
	if err := s.Repo.SetCartDiscount(ctx, cart.ID, discounted, coupon.Name); err != nil {
		return 0, notFound(err, "cart empty")
	}
	return discounted, nil
}

func (s *CartService) policy() CouponPolicy {
	if s.Policy == nil {
		return LenientCoupons{}
	}
	return s.Policy
}

func (s *CartService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
