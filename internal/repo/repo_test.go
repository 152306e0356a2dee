package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRepo(t *testing.T) *GormRepo {
	return New(testutil.InitTestDB(t))
}

func seedUser(t *testing.T, r *GormRepo, email, mobile string) *models.User {
	t.Helper()
	u := &models.User{FirstName: "Ann", LastName: "Lee", Email: email, Mobile: mobile, PasswordHash: "x"}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func TestUsers_LookupsAndRefreshToken(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "ann@example.com", "555-0100")

	taken, err := r.EmailTaken(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = r.MobileTaken(ctx, "555-0100", u.ID)
	require.NoError(t, err)
	assert.False(t, taken, "own number is not taken")

	require.NoError(t, r.SetRefreshToken(ctx, u.ID, "rt-1"))
	got, err := r.FindUserByRefreshToken(ctx, "rt-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, r.SetRefreshToken(ctx, u.ID, ""))
	_, err = r.FindUserByRefreshToken(ctx, "rt-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = r.FindUserByRefreshToken(ctx, "")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, r.SetRefreshToken(ctx, uuid.New(), "x"), gorm.ErrRecordNotFound)
}

func TestWishlist_Toggle(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "w@example.com", "1")
	p := testutil.SeedProduct(t, r.DB, models.Product{Title: "lamp", Price: 5, Quantity: 1})

	on, err := r.ToggleWishlist(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, on)

	list, err := r.ListWishlist(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)

	on, err = r.ToggleWishlist(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, on)

	list, err = r.ListWishlist(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCart_ReplaceKeepsOnePerUser(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	p := testutil.SeedProduct(t, r.DB, models.Product{Title: "p1", Price: 10, Quantity: 10})

	first := &models.Cart{UserID: userID, CartTotal: 20, Items: []models.CartItem{{ProductID: p.ID, Count: 2, Price: 10}}}
	require.NoError(t, r.ReplaceCart(ctx, first))

	second := &models.Cart{UserID: userID, CartTotal: 30, Items: []models.CartItem{{ProductID: p.ID, Count: 3, Price: 10}}}
	require.NoError(t, r.ReplaceCart(ctx, second))

	var carts, items int64
	require.NoError(t, r.DB.Model(&models.Cart{}).Count(&carts).Error)
	require.NoError(t, r.DB.Model(&models.CartItem{}).Count(&items).Error)
	assert.EqualValues(t, 1, carts)
	assert.EqualValues(t, 1, items)

	got, err := r.GetCart(ctx, userID, true)
	require.NoError(t, err)
	assert.Equal(t, 30.0, got.CartTotal)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].Product)
	assert.Equal(t, "p1", got.Items[0].Product.Title)

	require.NoError(t, r.SetCartDiscount(ctx, got.ID, 24, "SAVE20"))
	got, err = r.GetCart(ctx, userID, false)
	require.NoError(t, err)
	require.NotNil(t, got.TotalAfterDiscount)
	assert.Equal(t, 24.0, *got.TotalAfterDiscount)
	require.NotNil(t, got.AppliedCoupon)
	assert.Equal(t, "SAVE20", *got.AppliedCoupon)

	require.NoError(t, r.DeleteCart(ctx, userID))
	_, err = r.GetCart(ctx, userID, false)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestApplyInventory(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, r.DB, models.Product{Title: "p1", Price: 10, Quantity: 10})

	require.NoError(t, r.ApplyInventory(ctx, []InventoryLine{{ProductID: p.ID, Count: 2}}))

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Quantity)
	assert.Equal(t, 2, got.Sold)

	err = r.ApplyInventory(ctx, []InventoryLine{{ProductID: uuid.New(), Count: 1}})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestWithTx_RollsBack(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, r.DB, models.Product{Title: "p1", Price: 10, Quantity: 10})

	boom := errors.New("boom")
	err := r.WithTx(ctx, func(tx *GormRepo) error {
		if err := tx.ApplyInventory(ctx, []InventoryLine{{ProductID: p.ID, Count: 4}}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)
	assert.Equal(t, 0, got.Sold)
}

func TestListProducts_FiltersSortAndFields(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	testutil.SeedProduct(t, r.DB, models.Product{Title: "a", Price: 5, Brand: "acme", Category: "tools"})
	testutil.SeedProduct(t, r.DB, models.Product{Title: "b", Price: 15, Brand: "acme", Category: "tools"})
	testutil.SeedProduct(t, r.DB, models.Product{Title: "c", Price: 25, Brand: "other", Category: "tools"})

	gte := 10.0
	total, items, err := r.ListProducts(ctx, ProductQuery{
		Brand:    "acme",
		PriceGTE: &gte,
		Limit:    10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].Title)

	total, items, err = r.ListProducts(ctx, ProductQuery{
		Sort:   []string{"price DESC"},
		Fields: []string{"id", "title", "price"},
		Limit:  2,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 2)
	assert.Equal(t, "c", items[0].Title)
	assert.Equal(t, "b", items[1].Title)
	assert.Empty(t, items[0].Brand, "brand was not selected")
}

func TestSearchProducts_Like(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	testutil.SeedProduct(t, r.DB, models.Product{Title: "Red Chair", Price: 5})
	testutil.SeedProduct(t, r.DB, models.Product{Title: "Blue Table", Price: 5})

	total, items, err := r.SearchProducts(ctx, "chair", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Red Chair", items[0].Title)
}

func TestBlogReactions_Toggle(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	b := &models.Blog{Title: "t", Slug: "t", Description: "d", Category: "news", Author: "Admin"}
	require.NoError(t, r.CreateBlog(ctx, b))
	userID := uuid.New()

	require.NoError(t, r.ToggleReaction(ctx, b.ID, userID, models.ReactionLike))
	got, err := r.GetBlog(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Likes)
	assert.EqualValues(t, 0, got.Dislikes)

	require.NoError(t, r.ToggleReaction(ctx, b.ID, userID, models.ReactionDislike))
	got, err = r.GetBlog(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.Likes)
	assert.EqualValues(t, 1, got.Dislikes)

	require.NoError(t, r.ToggleReaction(ctx, b.ID, userID, models.ReactionDislike))
	kind, err := r.UserReaction(ctx, b.ID, userID)
	require.NoError(t, err)
	assert.Empty(t, kind)

	require.NoError(t, r.IncrementBlogViews(ctx, b.ID))
	got, err = r.GetBlog(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.NumViews)
}

func TestOrders_StatusUpdate(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, r.DB, models.Product{Title: "p1", Price: 10, Quantity: 10})
	userID := uuid.New()

	o := &models.Order{
		UserID:      userID,
		OrderStatus: models.StatusCashOnDelivery,
		PaymentIntent: models.PaymentIntent{
			PaymentID:     uuid.NewString(),
			PaymentMethod: models.PaymentMethodCOD,
			Amount:        20,
			PaymentStatus: models.StatusCashOnDelivery,
			Currency:      models.CurrencyUSD,
		},
		Items: []models.OrderItem{{ProductID: p.ID, Count: 2, Price: 10}},
	}
	require.NoError(t, r.CreateOrder(ctx, o))

	list, err := r.ListOrders(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Items, 1)
	require.NotNil(t, list[0].Items[0].Product)

	updated, err := r.UpdateOrderStatus(ctx, o.ID, "Dispatched")
	require.NoError(t, err)
	assert.Equal(t, "Dispatched", updated.OrderStatus)
	assert.Equal(t, "Dispatched", updated.PaymentIntent.PaymentStatus)

	_, err = r.UpdateOrderStatus(ctx, uuid.New(), "x")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
