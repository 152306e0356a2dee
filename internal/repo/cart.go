package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID, withProducts bool) (*models.Cart, error) {
	q := r.DB.WithContext(ctx).Where("user_id = ?", userID)
	if withProducts {
		q = q.Preload("Items.Product")
	} else {
		q = q.Preload("Items")
	}

	var cart models.Cart
	if err := q.First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// ReplaceCart removes the user's current cart, if any, and stores cart with
// its items in its place.
func (r *GormRepo) ReplaceCart(ctx context.Context, cart *models.Cart) error {
	if err := r.DeleteCart(ctx, cart.UserID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.DB.WithContext(ctx).Create(cart).Error
}

func (r *GormRepo) DeleteCart(ctx context.Context, userID uuid.UUID) error {
	db := r.DB.WithContext(ctx)

	var old models.Cart
	if err := db.Where("user_id = ?", userID).First(&old).Error; err != nil {
		return err
	}
	if err := db.Where("cart_id = ?", old.ID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return db.Delete(&old).Error
}

func (r *GormRepo) SetCartDiscount(ctx context.Context, cartID uuid.UUID, total float64, coupon string) error {
	res := r.DB.WithContext(ctx).Model(&models.Cart{}).Where("id = ?", cartID).
		Updates(map[string]any{
			"total_after_discount": total,
			"applied_coupon":       coupon,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
