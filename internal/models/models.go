package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"     json:"id"`
	FirstName         string     `gorm:"not null"                 json:"first_name"`
	LastName          string     `gorm:"not null"                 json:"last_name"`
	Email             string     `gorm:"uniqueIndex;not null"     json:"email"`
	Mobile            string     `gorm:"uniqueIndex;not null"     json:"mobile"`
	PasswordHash      string     `gorm:"not null"                 json:"-"`
	IsAdmin           bool       `gorm:"not null"                 json:"is_admin"`
	IsVerified        bool       `gorm:"not null"                 json:"is_verified"`
	IsBlocked         bool       `gorm:"not null"                 json:"is_blocked"`
	Address           string     `                                json:"address,omitempty"`
	RefreshToken      string     `gorm:"index"                    json:"-"`
	PasswordChangedAt *time.Time `                                json:"password_changed_at,omitempty"`
	CreatedAt         time.Time  `                                json:"created_at"`
	UpdatedAt         time.Time  `                                json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type WishlistItem struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey" json:"product_id"`
	CreatedAt time.Time `                            json:"created_at"`
}

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Title       string    `gorm:"not null"              json:"title"`
	Slug        string    `gorm:"uniqueIndex;not null"  json:"slug"`
	Description string    `gorm:"not null"              json:"description"`
	Price       float64   `gorm:"not null"              json:"price"`
	Category    string    `gorm:"index"                 json:"category"`
	Brand       string    `gorm:"index"                 json:"brand"`
	Quantity    int       `gorm:"not null"              json:"quantity"`
	Sold        int       `gorm:"not null"              json:"sold"`
	Images      []string  `gorm:"serializer:json"       json:"images"`
	Color       string    `                             json:"color"`
	CreatedAt   time.Time `                             json:"created_at"`
	UpdatedAt   time.Time `                             json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Cart struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"                          json:"id"`
	UserID             uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"                json:"user_id"`
	Items              []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CartTotal          float64    `gorm:"not null"                                      json:"cart_total"`
	TotalAfterDiscount *float64   `                                                     json:"total_after_discount,omitempty"`
	AppliedCoupon      *string    `                                                     json:"applied_coupon,omitempty"`
	CreatedAt          time.Time  `                                                     json:"created_at"`
	UpdatedAt          time.Time  `                                                     json:"updated_at"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                             json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;index;not null"                         json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"                               json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Color     string    `                                                        json:"color"`
	Count     int       `gorm:"not null"                                         json:"count"`
	Price     float64   `gorm:"not null"                                         json:"price"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Coupon struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Name      string    `gorm:"uniqueIndex;not null"  json:"name"`
	Discount  int       `gorm:"not null"              json:"discount"`
	Expiry    time.Time `gorm:"not null"              json:"expiry"`
	CreatedAt time.Time `                             json:"created_at"`
	UpdatedAt time.Time `                             json:"updated_at"`
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

const (
	PaymentMethodCOD     = "COD"
	StatusCashOnDelivery = "Cash on Delivery"
	CurrencyUSD          = "usd"
)

// PaymentIntent is stored inline in the orders table.
type PaymentIntent struct {
	PaymentID      string  `gorm:"not null" json:"id"`
	PaymentMethod  string  `gorm:"not null" json:"method"`
	Amount         float64 `gorm:"not null" json:"amount"`
	PaymentStatus  string  `gorm:"not null" json:"status"`
	Currency       string  `gorm:"not null" json:"currency"`
	PaymentCreated int64   `gorm:"not null" json:"created"`
}

type Order struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey"                            json:"id"`
	UserID        uuid.UUID     `gorm:"type:uuid;index;not null"                        json:"user_id"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"  json:"items"`
	PaymentIntent PaymentIntent `gorm:"embedded"                                        json:"payment_intent"`
	OrderStatus   string        `gorm:"not null"                                        json:"order_status"`
	CreatedAt     time.Time     `                                                       json:"created_at"`
	UpdatedAt     time.Time     `                                                       json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem refers to its product without a foreign key so orders outlive
// deleted products.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"              json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"          json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"                json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:-" json:"product,omitempty"`
	Color     string    `                                         json:"color"`
	Count     int       `gorm:"not null"                          json:"count"`
	Price     float64   `gorm:"not null"                          json:"price"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

const (
	TaxonomyBrand           = "brand"
	TaxonomyProductCategory = "product_category"
	TaxonomyBlogCategory    = "blog_category"
)

// Taxonomy is a titled label of one kind: a brand, a product category or
// a blog category.
type Taxonomy struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                          json:"id"`
	Kind      string    `gorm:"not null;uniqueIndex:idx_taxonomy_kind_title"  json:"kind"`
	Title     string    `gorm:"not null;uniqueIndex:idx_taxonomy_kind_title"  json:"title"`
	CreatedAt time.Time `                                                     json:"created_at"`
	UpdatedAt time.Time `                                                     json:"updated_at"`
}

func (t *Taxonomy) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type Blog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null"             json:"title"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"not null"             json:"description"`
	Category    string    `gorm:"not null"             json:"category"`
	Author      string    `gorm:"not null"             json:"author"`
	NumViews    int       `gorm:"not null"             json:"num_views"`
	Images      []string  `gorm:"serializer:json"      json:"images"`
	Likes       int64     `gorm:"-"                    json:"likes"`
	Dislikes    int64     `gorm:"-"                    json:"dislikes"`
	CreatedAt   time.Time `                            json:"created_at"`
	UpdatedAt   time.Time `                            json:"updated_at"`
}

func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// BlogReaction holds at most one reaction per user and blog.
type BlogReaction struct {
	BlogID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"blog_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Kind      string    `gorm:"not null"             json:"kind"`
	CreatedAt time.Time `                            json:"created_at"`
}

// All lists every persisted model, in dependency order.
func All() []any {
	return []any{
		&User{}, &Product{}, &WishlistItem{}, &Cart{}, &CartItem{},
		&Coupon{}, &Order{}, &OrderItem{}, &Taxonomy{}, &Blog{}, &BlogReaction{},
	}
}
