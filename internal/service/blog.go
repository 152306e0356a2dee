package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
)

const defaultAuthor = "Admin"

type BlogService struct {
	Repo     *repo.GormRepo
	Uploader ImageUploader
}

type BlogInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Author      string `json:"author"`
}

func (s *BlogService) Create(ctx context.Context, in BlogInput) (*models.Blog, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || in.Description == "" || in.Category == "" {
		return nil, fmt.Errorf("%w: please enter all fields", ErrValidation)
	}
	if in.Author == "" {
		in.Author = defaultAuthor
	}

	sl, err := s.uniqueSlug(ctx, in.Title, uuid.Nil)
	if err != nil {
		return nil, err
	}
	b := &models.Blog{
		Title:       in.Title,
		Slug:        sl,
		Description: in.Description,
		Category:    in.Category,
		Author:      in.Author,
		Images:      []string{},
	}
	if err := s.Repo.CreateBlog(ctx, b); err != nil {
		return nil, duplicate(err, "blog slug")
	}
	return b, nil
}

// Get returns the blog and counts the read.
func (s *BlogService) Get(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	if err := s.Repo.IncrementBlogViews(ctx, id); err != nil {
		return nil, notFound(err, "blog")
	}
	b, err := s.Repo.GetBlog(ctx, id)
	if err != nil {
		return nil, notFound(err, "blog")
	}
	return b, nil
}

func (s *BlogService) List(ctx context.Context, offset, limit int) (int64, []models.Blog, error) {
	return s.Repo.ListBlogs(ctx, offset, limit)
}

func (s *BlogService) Update(ctx context.Context, id uuid.UUID, in BlogInput) (*models.Blog, error) {
	b, err := s.Repo.GetBlog(ctx, id)
	if err != nil {
		return nil, notFound(err, "blog")
	}

	if title := strings.TrimSpace(in.Title); title != "" && title != b.Title {
		sl, err := s.uniqueSlug(ctx, title, b.ID)
		if err != nil {
			return nil, err
		}
		b.Title, b.Slug = title, sl
	}
	if in.Description != "" {
		b.Description = in.Description
	}
	if in.Category != "" {
		b.Category = in.Category
	}
	if in.Author != "" {
		b.Author = in.Author
	}

	if err := s.Repo.SaveBlog(ctx, b); err != nil {
		return nil, duplicate(err, "blog slug")
	}
	return b, nil
}

func (s *BlogService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFound(s.Repo.DeleteBlog(ctx, id), "blog")
}

// Like toggles the caller's like. A like replaces an earlier dislike.
func (s *BlogService) Like(ctx context.Context, actor Actor, id uuid.UUID) (*models.Blog, error) {
	return s.react(ctx, actor, id, models.ReactionLike)
}

func (s *BlogService) Dislike(ctx context.Context, actor Actor, id uuid.UUID) (*models.Blog, error) {
	return s.react(ctx, actor, id, models.ReactionDislike)
}

func (s *BlogService) react(ctx context.Context, actor Actor, id uuid.UUID, kind string) (*models.Blog, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: blog id required", ErrValidation)
	}
	if _, err := s.Repo.GetBlog(ctx, id); err != nil {
		return nil, notFound(err, "blog")
	}
	if err := s.Repo.ToggleReaction(ctx, id, actor.UserID, kind); err != nil {
		return nil, err
	}
	b, err := s.Repo.GetBlog(ctx, id)
	if err != nil {
		return nil, notFound(err, "blog")
	}
	return b, nil
}

func (s *BlogService) UploadImages(ctx context.Context, id uuid.UUID, files []ImageFile) (*models.Blog, error) {
	if _, err := s.Repo.GetBlog(ctx, id); err != nil {
		return nil, notFound(err, "blog")
	}
	urls, err := uploadAll(ctx, s.Uploader, files)
	if err != nil {
		return nil, err
	}
	b, err := s.Repo.AppendBlogImages(ctx, id, urls)
	if err != nil {
		return nil, notFound(err, "blog")
	}
	return b, nil
}

func (s *BlogService) uniqueSlug(ctx context.Context, title string, except uuid.UUID) (string, error) {
	base := slug.Make(title)
	if base == "" {
		return "", fmt.Errorf("%w: title has no usable characters", ErrValidation)
	}
	candidate := base
	for i := 2; ; i++ {
		taken, err := s.Repo.BlogSlugTaken(ctx, candidate, except)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
