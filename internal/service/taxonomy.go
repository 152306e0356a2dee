package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
)

// TaxonomyService manages one kind of label: brands, product categories or
// blog categories.
type TaxonomyService struct {
	Repo *repo.GormRepo
	Kind string
}

func (s *TaxonomyService) Create(ctx context.Context, title string) (*models.Taxonomy, error) {
	title, err := s.checkTitle(ctx, title, uuid.Nil)
	if err != nil {
		return nil, err
	}
	t := &models.Taxonomy{Kind: s.Kind, Title: title}
	if err := s.Repo.CreateTaxonomy(ctx, t); err != nil {
		return nil, duplicate(err, s.Kind)
	}
	return t, nil
}

func (s *TaxonomyService) Get(ctx context.Context, id uuid.UUID) (*models.Taxonomy, error) {
	t, err := s.Repo.GetTaxonomy(ctx, s.Kind, id)
	if err != nil {
		return nil, notFound(err, s.Kind)
	}
	return t, nil
}

func (s *TaxonomyService) List(ctx context.Context) ([]models.Taxonomy, error) {
	return s.Repo.ListTaxonomies(ctx, s.Kind)
}

func (s *TaxonomyService) Update(ctx context.Context, id uuid.UUID, title string) (*models.Taxonomy, error) {
	title, err := s.checkTitle(ctx, title, id)
	if err != nil {
		return nil, err
	}
	t, err := s.Repo.RenameTaxonomy(ctx, s.Kind, id, title)
	if err != nil {
		return nil, duplicate(notFound(err, s.Kind), s.Kind)
	}
	return t, nil
}

func (s *TaxonomyService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFound(s.Repo.DeleteTaxonomy(ctx, s.Kind, id), s.Kind)
}

func (s *TaxonomyService) checkTitle(ctx context.Context, title string, except uuid.UUID) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrValidation)
	}
	taken, err := s.Repo.TaxonomyTitleTaken(ctx, s.Kind, title, except)
	if err != nil {
		return "", err
	}
	if taken {
		return "", fmt.Errorf("%w: %s %q", ErrDuplicate, s.Kind, title)
	}
	return title, nil
}
