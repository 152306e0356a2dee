package repo

import (
	"context"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateTaxonomy(ctx context.Context, t *models.Taxonomy) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *GormRepo) GetTaxonomy(ctx context.Context, kind string, id uuid.UUID) (*models.Taxonomy, error) {
	var t models.Taxonomy
	if err := r.DB.WithContext(ctx).Where("kind = ? AND id = ?", kind, id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormRepo) TaxonomyTitleTaken(ctx context.Context, kind, title string, except uuid.UUID) (bool, error) {
	if except == uuid.Nil {
		return r.exists(ctx, &models.Taxonomy{}, "kind = ? AND title = ?", kind, title)
	}
	return r.exists(ctx, &models.Taxonomy{}, "kind = ? AND title = ? AND id <> ?", kind, title, except)
}

func (r *GormRepo) ListTaxonomies(ctx context.Context, kind string) ([]models.Taxonomy, error) {
	var out []models.Taxonomy
	if err := r.DB.WithContext(ctx).Where("kind = ?", kind).Order("title ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) RenameTaxonomy(ctx context.Context, kind string, id uuid.UUID, title string) (*models.Taxonomy, error) {
	res := r.DB.WithContext(ctx).Model(&models.Taxonomy{}).Where("kind = ? AND id = ?", kind, id).Update("title", title)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetTaxonomy(ctx, kind, id)
}

func (r *GormRepo) DeleteTaxonomy(ctx context.Context, kind string, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("kind = ?", kind).Delete(&models.Taxonomy{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
