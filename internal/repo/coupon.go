package repo

import (
	"context"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) GetCoupon(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	var c models.Coupon
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) FindCouponByName(ctx context.Context, name string) (*models.Coupon, error) {
	var c models.Coupon
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) CouponNameTaken(ctx context.Context, name string, except uuid.UUID) (bool, error) {
	if except == uuid.Nil {
		return r.exists(ctx, &models.Coupon{}, "name = ?", name)
	}
	return r.exists(ctx, &models.Coupon{}, "name = ? AND id <> ?", name, except)
}

func (r *GormRepo) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	var out []models.Coupon
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) SaveCoupon(ctx context.Context, c *models.Coupon) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *GormRepo) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Coupon{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
