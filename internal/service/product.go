package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/Skotchmaster/shop_backend/internal/events"
	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
)

// ProductIndex is the full text index kept next to the products table.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []uuid.UUID, error)
}

type ImageUploader interface {
	Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// ImageFile is one uploaded file as received by the HTTP layer.
type ImageFile struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

type ProductService struct {
	Repo     *repo.GormRepo
	Index    ProductIndex
	Uploader ImageUploader
	Events   events.Publisher
}

type ProductInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Quantity    int     `json:"quantity"`
	Color       string  `json:"color"`
}

type ProductPatch struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Brand       *string  `json:"brand"`
	Quantity    *int     `json:"quantity"`
	Color       *string  `json:"color"`
}

type ProductListParams struct {
	Category string
	Brand    string
	Color    string

	PriceGTE *float64
	PriceGT  *float64
	PriceLTE *float64
	PriceLT  *float64

	// Comma separated, "-" prefix sorts descending.
	Sort string
	// Comma separated list of fields to return.
	Fields string

	Offset int
	Limit  int
}

var productColumns = map[string]string{
	"id":          "id",
	"title":       "title",
	"slug":        "slug",
	"description": "description",
	"price":       "price",
	"category":    "category",
	"brand":       "brand",
	"quantity":    "quantity",
	"sold":        "sold",
	"images":      "images",
	"color":       "color",
	"created_at":  "created_at",
	"createdAt":   "created_at",
	"updated_at":  "updated_at",
	"updatedAt":   "updated_at",
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || in.Description == "" || in.Price <= 0 || in.Quantity <= 0 ||
		in.Category == "" || in.Brand == "" || in.Color == "" {
		return nil, fmt.Errorf("%w: please enter all fields", ErrValidation)
	}

	sl, err := s.uniqueSlug(ctx, in.Title, uuid.Nil)
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		Title:       in.Title,
		Slug:        sl,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Brand:       in.Brand,
		Quantity:    in.Quantity,
		Color:       in.Color,
		Images:      []string{},
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, duplicate(err, "product slug")
	}

	s.afterWrite(ctx, events.ProductCreated, p)
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, in ProductPatch) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		if title != p.Title {
			sl, err := s.uniqueSlug(ctx, title, p.ID)
			if err != nil {
				return nil, err
			}
			p.Title, p.Slug = title, sl
		}
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, fmt.Errorf("%w: price must be > 0", ErrValidation)
		}
		p.Price = *in.Price
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
		}
		p.Quantity = *in.Quantity
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Brand != nil {
		p.Brand = *in.Brand
	}
	if in.Color != nil {
		p.Color = *in.Color
	}

	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		return nil, duplicate(err, "product slug")
	}
	s.afterWrite(ctx, events.ProductUpdated, p)
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return inUse(notFound(err, "product"), "product")
	}

	l := logging.FromContext(ctx)
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			l.Warn("search_index_delete_failed", "product_id", id, "error", err)
		}
	}
	events.Emit(ctx, s.Events, events.TopicProductEvents, id.String(), events.ProductEvent{
		Type:      events.ProductDeleted,
		ProductID: id.String(),
	})
	return nil
}

// List applies filters, sorting, projection and paging. Asking for a page
// past the last product is ErrNotFound.
func (s *ProductService) List(ctx context.Context, p ProductListParams) (int64, []models.Product, error) {
	q := repo.ProductQuery{
		Category: p.Category,
		Brand:    p.Brand,
		Color:    p.Color,
		PriceGTE: p.PriceGTE,
		PriceGT:  p.PriceGT,
		PriceLTE: p.PriceLTE,
		PriceLT:  p.PriceLT,
		Offset:   p.Offset,
		Limit:    p.Limit,
	}

	for _, f := range splitCSV(p.Sort) {
		desc := strings.HasPrefix(f, "-")
		col, ok := productColumns[strings.TrimPrefix(f, "-")]
		if !ok || col == "images" || col == "description" {
			return 0, nil, fmt.Errorf("%w: cannot sort by %q", ErrValidation, f)
		}
		if desc {
			col += " DESC"
		}
		q.Sort = append(q.Sort, col)
	}

	if fields := splitCSV(p.Fields); len(fields) > 0 {
		q.Fields = []string{"id"}
		for _, f := range fields {
			col, ok := productColumns[f]
			if !ok {
				return 0, nil, fmt.Errorf("%w: unknown field %q", ErrValidation, f)
			}
			if col != "id" {
				q.Fields = append(q.Fields, col)
			}
		}
	}

	total, items, err := s.Repo.ListProducts(ctx, q)
	if err != nil {
		return 0, nil, err
	}
	if p.Offset > 0 && int64(p.Offset) >= total {
		return 0, nil, fmt.Errorf("%w: this page does not exist", ErrNotFound)
	}
	return total, items, nil
}

// Search uses the search index when configured and falls back to a
// substring match on the database.
func (s *ProductService) Search(ctx context.Context, text string, offset, limit int) (int64, []models.Product, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, []models.Product{}, nil
	}
	if s.Index == nil {
		return s.Repo.SearchProducts(ctx, text, offset, limit)
	}

	total, ids, err := s.Index.SearchProducts(ctx, text, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "error", err)
		return s.Repo.SearchProducts(ctx, text, offset, limit)
	}

	found, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return 0, nil, err
	}
	items := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := found[id]; ok {
			items = append(items, p)
		}
	}
	return total, items, nil
}

func (s *ProductService) UploadImages(ctx context.Context, id uuid.UUID, files []ImageFile) (*models.Product, error) {
	if _, err := s.Repo.GetProduct(ctx, id); err != nil {
		return nil, notFound(err, "product")
	}
	urls, err := uploadAll(ctx, s.Uploader, files)
	if err != nil {
		return nil, err
	}
	p, err := s.Repo.AppendProductImages(ctx, id, urls)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

func (s *ProductService) uniqueSlug(ctx context.Context, title string, except uuid.UUID) (string, error) {
	base := slug.Make(title)
	if base == "" {
		return "", fmt.Errorf("%w: title has no usable characters", ErrValidation)
	}
	candidate := base
	for i := 2; ; i++ {
		taken, err := s.Repo.SlugTaken(ctx, candidate, except)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *ProductService) afterWrite(ctx context.Context, kind string, p *models.Product) {
	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, *p); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
		}
	}
	events.Emit(ctx, s.Events, events.TopicProductEvents, p.ID.String(), events.ProductEvent{
		Type:      kind,
		ProductID: p.ID.String(),
		Title:     p.Title,
		Price:     p.Price,
		Quantity:  p.Quantity,
	})
}

func uploadAll(ctx context.Context, up ImageUploader, files []ImageFile) ([]string, error) {
	if up == nil {
		return nil, fmt.Errorf("%w: image storage is not configured", ErrValidation)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no images", ErrValidation)
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		if !strings.HasPrefix(f.ContentType, "image/") {
			return nil, fmt.Errorf("%w: %s is not an image", ErrValidation, f.Name)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		url, err := up.Upload(ctx, f.Name, rc, f.Size, f.ContentType)
		rc.Close()
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func splitCSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
