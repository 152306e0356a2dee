package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateBlog(ctx context.Context, b *models.Blog) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *GormRepo) GetBlog(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	var b models.Blog
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	if err := r.fillReactions(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormRepo) IncrementBlogViews(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Model(&models.Blog{}).Where("id = ?", id).
		UpdateColumn("num_views", gorm.Expr("num_views + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) BlogSlugTaken(ctx context.Context, slug string, except uuid.UUID) (bool, error) {
	if except == uuid.Nil {
		return r.exists(ctx, &models.Blog{}, "slug = ?", slug)
	}
	return r.exists(ctx, &models.Blog{}, "slug = ? AND id <> ?", slug, except)
}

func (r *GormRepo) ListBlogs(ctx context.Context, offset, limit int) (int64, []models.Blog, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Blog{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var blogs []models.Blog
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&blogs).Error; err != nil {
		return 0, nil, err
	}
	for i := range blogs {
		if err := r.fillReactions(ctx, &blogs[i]); err != nil {
			return 0, nil, err
		}
	}
	return total, blogs, nil
}

func (r *GormRepo) SaveBlog(ctx context.Context, b *models.Blog) error {
	if err := r.DB.WithContext(ctx).Save(b).Error; err != nil {
		return err
	}
	return r.fillReactions(ctx, b)
}

func (r *GormRepo) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_id = ?", id).Delete(&models.BlogReaction{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Blog{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ToggleReaction sets the user's reaction on a blog to kind. Repeating the
// same reaction clears it; the opposite reaction is replaced.
func (r *GormRepo) ToggleReaction(ctx context.Context, blogID, userID uuid.UUID, kind string) error {
	db := r.DB.WithContext(ctx)

	var cur models.BlogReaction
	err := db.Where("blog_id = ? AND user_id = ?", blogID, userID).First(&cur).Error
	switch {
	case err == nil && cur.Kind == kind:
		return db.Where("blog_id = ? AND user_id = ?", blogID, userID).Delete(&models.BlogReaction{}).Error
	case err == nil:
		return db.Model(&models.BlogReaction{}).
			Where("blog_id = ? AND user_id = ?", blogID, userID).
			Update("kind", kind).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return db.Create(&models.BlogReaction{BlogID: blogID, UserID: userID, Kind: kind}).Error
	default:
		return err
	}
}

func (r *GormRepo) UserReaction(ctx context.Context, blogID, userID uuid.UUID) (string, error) {
	var cur models.BlogReaction
	err := r.DB.WithContext(ctx).Where("blog_id = ? AND user_id = ?", blogID, userID).First(&cur).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return cur.Kind, nil
}

func (r *GormRepo) fillReactions(ctx context.Context, b *models.Blog) error {
	type row struct {
		Kind string
		N    int64
	}
	var rows []row
	err := r.DB.WithContext(ctx).Model(&models.BlogReaction{}).
		Select("kind, COUNT(*) AS n").
		Where("blog_id = ?", b.ID).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	b.Likes, b.Dislikes = 0, 0
	for _, rw := range rows {
		switch rw.Kind {
		case models.ReactionLike:
			b.Likes = rw.N
		case models.ReactionDislike:
			b.Dislikes = rw.N
		}
	}
	return nil
}

func (r *GormRepo) AppendBlogImages(ctx context.Context, id uuid.UUID, urls []string) (*models.Blog, error) {
	b, err := r.GetBlog(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Images = append(b.Images, urls...)
	if err := r.DB.WithContext(ctx).Model(b).Select("images").Updates(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}
