package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductQuery is an already validated listing request. Sort and Fields hold
// column names, Sort entries may carry a " DESC" suffix.
type ProductQuery struct {
	Category string
	Brand    string
	Color    string

	PriceGTE *float64
	PriceGT  *float64
	PriceLTE *float64
	PriceLT  *float64

	Sort   []string
	Fields []string

	Offset int
	Limit  int
}

type InventoryLine struct {
	ProductID uuid.UUID
	Count     int
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	out := make(map[uuid.UUID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var items []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, p := range items {
		out[p.ID] = p
	}
	return out, nil
}

func (r *GormRepo) SlugTaken(ctx context.Context, slug string, except uuid.UUID) (bool, error) {
	if except == uuid.Nil {
		return r.exists(ctx, &models.Product{}, "slug = ?", slug)
	}
	return r.exists(ctx, &models.Product{}, "slug = ? AND id <> ?", slug, except)
}

func (r *GormRepo) SaveProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Save(prod).Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ListProducts(ctx context.Context, q ProductQuery) (int64, []models.Product, error) {
	base := r.DB.WithContext(ctx).Model(&models.Product{})
	if q.Category != "" {
		base = base.Where("category = ?", q.Category)
	}
	if q.Brand != "" {
		base = base.Where("brand = ?", q.Brand)
	}
	if q.Color != "" {
		base = base.Where("color = ?", q.Color)
	}
	if q.PriceGTE != nil {
		base = base.Where("price >= ?", *q.PriceGTE)
	}
	if q.PriceGT != nil {
		base = base.Where("price > ?", *q.PriceGT)
	}
	if q.PriceLTE != nil {
		base = base.Where("price <= ?", *q.PriceLTE)
	}
	if q.PriceLT != nil {
		base = base.Where("price < ?", *q.PriceLT)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	find := base.Session(&gorm.Session{})
	if len(q.Fields) > 0 {
		find = find.Select(q.Fields)
	}
	if len(q.Sort) > 0 {
		find = find.Order(strings.Join(q.Sort, ", "))
	} else {
		find = find.Order("created_at DESC")
	}

	var items []models.Product
	if err := find.Offset(q.Offset).Limit(q.Limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// SearchProducts is a plain substring match used when no search cluster is
// configured.
func (r *GormRepo) SearchProducts(ctx context.Context, text string, offset, limit int) (int64, []models.Product, error) {
	pattern := "%" + strings.ToLower(text) + "%"
	base := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := base.Session(&gorm.Session{}).Order("title ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// ApplyInventory moves count units from quantity to sold for every line.
// It stops at the first failing line; earlier lines stay applied unless the
// repo is bound to a transaction.
func (r *GormRepo) ApplyInventory(ctx context.Context, lines []InventoryLine) error {
	for _, line := range lines {
		res := r.DB.WithContext(ctx).Model(&models.Product{}).
			Where("id = ?", line.ProductID).
			Updates(map[string]any{
				"quantity": gorm.Expr("quantity - ?", line.Count),
				"sold":     gorm.Expr("sold + ?", line.Count),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

func (r *GormRepo) AppendProductImages(ctx context.Context, id uuid.UUID, urls []string) (*models.Product, error) {
	prod, err := r.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	prod.Images = append(prod.Images, urls...)
	if err := r.DB.WithContext(ctx).Model(prod).Select("images").Updates(prod).Error; err != nil {
		return nil, err
	}
	return prod, nil
}
