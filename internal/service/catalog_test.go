package service

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_backend/internal/models"
)

type fakeIndex struct {
	indexed map[uuid.UUID]models.Product
	deleted []uuid.UUID
	hits    []uuid.UUID
	err     error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{indexed: map[uuid.UUID]models.Product{}}
}

func (f *fakeIndex) IndexProduct(_ context.Context, p models.Product) error {
	f.indexed[p.ID] = p
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) SearchProducts(context.Context, string, int, int) (int64, []uuid.UUID, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.hits)), f.hits, nil
}

type fakeUploader struct {
	names []string
}

func (f *fakeUploader) Upload(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.names = append(f.names, name)
	return "http://cdn.test/images/" + name, nil
}

func imageFile(name, contentType string) ImageFile {
	return ImageFile{
		Name:        name,
		Size:        3,
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte("img"))), nil
		},
	}
}

func validProduct(title string) ProductInput {
	return ProductInput{
		Title:       title,
		Description: "a thing",
		Price:       9.99,
		Category:    "tools",
		Brand:       "acme",
		Quantity:    5,
		Color:       "red",
	}
}

func ptr[T any](v T) *T { return &v }

func TestProductService_CreateUpdateDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	idx := newFakeIndex()
	svc := &ProductService{Repo: env.Repo, Index: idx, Events: env.Events}

	p, err := svc.Create(ctx, validProduct("Red Hammer"))
	require.NoError(t, err)
	assert.Equal(t, "red-hammer", p.Slug)
	assert.Contains(t, idx.indexed, p.ID)

	dup, err := svc.Create(ctx, validProduct("Red  Hammer!"))
	require.NoError(t, err)
	assert.Equal(t, "red-hammer-2", dup.Slug)

	bad := validProduct("x")
	bad.Color = ""
	_, err = svc.Create(ctx, bad)
	assert.ErrorIs(t, err, ErrValidation)

	up, err := svc.Update(ctx, p.ID, ProductPatch{Title: ptr("Blue Hammer"), Price: ptr(12.5)})
	require.NoError(t, err)
	assert.Equal(t, "blue-hammer", up.Slug)
	assert.InDelta(t, 12.5, up.Price, 1e-9)
	assert.Equal(t, "Blue Hammer", idx.indexed[p.ID].Title)

	_, err = svc.Update(ctx, p.ID, ProductPatch{Price: ptr(-1.0)})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Update(ctx, uuid.New(), ProductPatch{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.Equal(t, []uuid.UUID{p.ID}, idx.deleted)
	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), ErrNotFound)

	assert.Equal(t, 4, env.Events.count())
}

func TestProductService_List(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := &ProductService{Repo: env.Repo}

	for _, in := range []ProductInput{
		{Title: "A", Description: "d", Price: 5, Category: "c1", Brand: "b", Quantity: 1, Color: "red"},
		{Title: "B", Description: "d", Price: 15, Category: "c1", Brand: "b", Quantity: 1, Color: "red"},
		{Title: "C", Description: "d", Price: 25, Category: "c2", Brand: "b", Quantity: 1, Color: "red"},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	total, items, err := svc.List(ctx, ProductListParams{Category: "c1", Sort: "-price", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "B", items[0].Title)

	total, items, err = svc.List(ctx, ProductListParams{PriceGTE: ptr(15.0), PriceLT: ptr(25.0), Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "B", items[0].Title)

	_, items, err = svc.List(ctx, ProductListParams{Fields: "title", Sort: "title", Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "A", items[0].Title)
	assert.NotEqual(t, uuid.Nil, items[0].ID)
	assert.Zero(t, items[0].Price)

	_, _, err = svc.List(ctx, ProductListParams{Sort: "password", Limit: 10})
	assert.ErrorIs(t, err, ErrValidation)
	_, _, err = svc.List(ctx, ProductListParams{Fields: "title,secret", Limit: 10})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.List(ctx, ProductListParams{Offset: 3, Limit: 3})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductService_Search(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := &ProductService{Repo: env.Repo}

	hammer, err := svc.Create(ctx, validProduct("Claw Hammer"))
	require.NoError(t, err)
	saw, err := svc.Create(ctx, validProduct("Hand Saw"))
	require.NoError(t, err)

	total, items, err := svc.Search(ctx, "hammer", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, hammer.ID, items[0].ID)

	idx := newFakeIndex()
	idx.hits = []uuid.UUID{saw.ID, uuid.New(), hammer.ID}
	svc.Index = idx

	_, items, err = svc.Search(ctx, "tools", 0, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, saw.ID, items[0].ID)
	assert.Equal(t, hammer.ID, items[1].ID)

	idx.err = errBoom
	total, _, err = svc.Search(ctx, "saw", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	total, items, err = svc.Search(ctx, "  ", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestProductService_UploadImages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := &ProductService{Repo: env.Repo}
	p, err := svc.Create(ctx, validProduct("Lamp"))
	require.NoError(t, err)

	_, err = svc.UploadImages(ctx, p.ID, []ImageFile{imageFile("a.png", "image/png")})
	assert.ErrorIs(t, err, ErrValidation, "no uploader configured")

	up := &fakeUploader{}
	svc.Uploader = up

	_, err = svc.UploadImages(ctx, p.ID, []ImageFile{imageFile("notes.txt", "text/plain")})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.UploadImages(ctx, uuid.New(), []ImageFile{imageFile("a.png", "image/png")})
	assert.ErrorIs(t, err, ErrNotFound)

	out, err := svc.UploadImages(ctx, p.ID, []ImageFile{
		imageFile("a.png", "image/png"),
		imageFile("b.jpg", "image/jpeg"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"http://cdn.test/images/a.png", "http://cdn.test/images/b.jpg"}, out.Images)

	stored, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Images, 2)
}

func TestBlogService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := &BlogService{Repo: env.Repo}
	alice := Actor{UserID: env.seedUser(t, "alice@x.io", "pw", false).ID}
	bob := Actor{UserID: env.seedUser(t, "bob@x.io", "pw", false).ID}

	_, err := svc.Create(ctx, BlogInput{Title: "no body"})
	assert.ErrorIs(t, err, ErrValidation)

	b, err := svc.Create(ctx, BlogInput{Title: "Spring Sale", Description: "d", Category: "news"})
	require.NoError(t, err)
	assert.Equal(t, "spring-sale", b.Slug)
	assert.Equal(t, "Admin", b.Author)

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.NumViews)
	got, err = svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumViews)

	got, err = svc.Like(ctx, alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Likes)

	got, err = svc.Dislike(ctx, bob, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Likes)
	assert.Equal(t, int64(1), got.Dislikes)

	// switching replaces the earlier reaction
	got, err = svc.Dislike(ctx, alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Likes)
	assert.Equal(t, int64(2), got.Dislikes)

	// repeating clears it
	got, err = svc.Dislike(ctx, alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Dislikes)

	_, err = svc.Like(ctx, alice, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	up, err := svc.Update(ctx, b.ID, BlogInput{Title: "Summer Sale"})
	require.NoError(t, err)
	assert.Equal(t, "summer-sale", up.Slug)
	assert.Equal(t, "news", up.Category)

	total, list, err := svc.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, b.ID))
	_, err = svc.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaxonomyService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	brands := &TaxonomyService{Repo: env.Repo, Kind: models.TaxonomyBrand}
	cats := &TaxonomyService{Repo: env.Repo, Kind: models.TaxonomyProductCategory}

	acme, err := brands.Create(ctx, " Acme ")
	require.NoError(t, err)
	assert.Equal(t, "Acme", acme.Title)

	_, err = brands.Create(ctx, "Acme")
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = brands.Create(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)

	// same title under another kind is fine
	_, err = cats.Create(ctx, "Acme")
	require.NoError(t, err)

	_, err = cats.Get(ctx, acme.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	renamed, err := brands.Update(ctx, acme.ID, "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", renamed.Title)

	list, err := brands.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, brands.Delete(ctx, acme.ID))
	assert.ErrorIs(t, brands.Delete(ctx, acme.ID), ErrNotFound)
}

func TestCouponService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := &CouponService{Repo: env.Repo}
	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	c, err := svc.Create(ctx, CouponInput{Name: "welcome", Discount: 10, Expiry: expiry})
	require.NoError(t, err)
	assert.Equal(t, "WELCOME", c.Name)

	tests := []struct {
		name string
		in   CouponInput
		want error
	}{
		{name: "duplicate", in: CouponInput{Name: "Welcome", Discount: 5, Expiry: expiry}, want: ErrDuplicate},
		{name: "zero discount", in: CouponInput{Name: "X", Discount: 0, Expiry: expiry}, want: ErrValidation},
		{name: "over 100", in: CouponInput{Name: "X", Discount: 101, Expiry: expiry}, want: ErrValidation},
		{name: "no expiry", in: CouponInput{Name: "X", Discount: 5}, want: ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	up, err := svc.Update(ctx, c.ID, CouponInput{Name: "welcome", Discount: 15, Expiry: expiry})
	require.NoError(t, err)
	assert.Equal(t, 15, up.Discount)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, c.ID))
	_, err = svc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := &UserService{Repo: env.Repo}
	alice := env.seedUser(t, "alice@x.io", "pw", false)
	bob := env.seedUser(t, "bob@x.io", "pw", false)
	actor := Actor{UserID: alice.ID}

	_, err := svc.UpdateUser(ctx, actor, UpdateUserInput{FirstName: "A", LastName: "L", Mobile: bob.Mobile})
	assert.ErrorIs(t, err, ErrDuplicate)

	u, err := svc.UpdateUser(ctx, actor, UpdateUserInput{FirstName: "Alice", LastName: "Liddell", Mobile: "777"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.FirstName)
	assert.Equal(t, "777", u.Mobile)

	u, err = svc.SaveAddress(ctx, actor, "1 Main St")
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", u.Address)

	blocked, err := svc.Block(ctx, bob.ID)
	require.NoError(t, err)
	assert.True(t, blocked.IsBlocked)
	_, err = svc.Block(ctx, bob.ID)
	assert.ErrorIs(t, err, ErrValidation)
	unblocked, err := svc.Unblock(ctx, bob.ID)
	require.NoError(t, err)
	assert.False(t, unblocked.IsBlocked)

	p := env.seedProduct(t, "p1", 1, 1)
	on, err := svc.ToggleWishlist(ctx, actor, p.ID)
	require.NoError(t, err)
	assert.True(t, on)
	wl, err := svc.Wishlist(ctx, actor)
	require.NoError(t, err)
	require.Len(t, wl, 1)
	assert.Equal(t, p.ID, wl[0].ID)

	on, err = svc.ToggleWishlist(ctx, actor, p.ID)
	require.NoError(t, err)
	assert.False(t, on)
	_, err = svc.ToggleWishlist(ctx, actor, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	total, users, err := svc.ListUsers(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 2)

	require.NoError(t, svc.DeleteUser(ctx, actor))
	_, err = svc.GetUser(ctx, actor)
	assert.ErrorIs(t, err, ErrNotFound)
}
