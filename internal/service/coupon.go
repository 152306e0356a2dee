package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
)

type CouponService struct {
	Repo *repo.GormRepo
}

type CouponInput struct {
	Name     string    `json:"name"`
	Discount int       `json:"discount"`
	Expiry   time.Time `json:"expiry"`
}

func (in *CouponInput) validate() error {
	in.Name = strings.ToUpper(strings.TrimSpace(in.Name))
	if in.Name == "" || in.Expiry.IsZero() {
		return fmt.Errorf("%w: please enter all fields", ErrValidation)
	}
	if in.Discount < 1 || in.Discount > 100 {
		return fmt.Errorf("%w: discount must be between 1 and 100", ErrValidation)
	}
	return nil
}

func (s *CouponService) Create(ctx context.Context, in CouponInput) (*models.Coupon, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	taken, err := s.Repo.CouponNameTaken(ctx, in.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: coupon %s", ErrDuplicate, in.Name)
	}

	c := &models.Coupon{Name: in.Name, Discount: in.Discount, Expiry: in.Expiry.UTC()}
	if err := s.Repo.CreateCoupon(ctx, c); err != nil {
		return nil, duplicate(err, "coupon")
	}
	return c, nil
}

func (s *CouponService) List(ctx context.Context) ([]models.Coupon, error) {
	return s.Repo.ListCoupons(ctx)
}

func (s *CouponService) Get(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	c, err := s.Repo.GetCoupon(ctx, id)
	if err != nil {
		return nil, notFound(err, "coupon")
	}
	return c, nil
}

func (s *CouponService) Update(ctx context.Context, id uuid.UUID, in CouponInput) (*models.Coupon, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c, err := s.Repo.GetCoupon(ctx, id)
	if err != nil {
		return nil, notFound(err, "coupon")
	}
	taken, err := s.Repo.CouponNameTaken(ctx, in.Name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: coupon %s", ErrDuplicate, in.Name)
	}

	c.Name, c.Discount, c.Expiry = in.Name, in.Discount, in.Expiry.UTC()
	if err := s.Repo.SaveCoupon(ctx, c); err != nil {
		return nil, duplicate(err, "coupon")
	}
	return c, nil
}

func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFound(s.Repo.DeleteCoupon(ctx, id), "coupon")
}
