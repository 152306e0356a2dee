package events

const (
	UserRegistered = "user_registered"
	UserVerified   = "user_verified"

	ProductCreated = "product_created"
	ProductUpdated = "product_updated"
	ProductDeleted = "product_deleted"

	OrderCreated       = "order_created"
	OrderStatusUpdated = "order_status_updated"
)

type UserEvent struct {
	Type   string `json:"type"`
	UserID string `json:"userID"`
	Email  string `json:"email,omitempty"`
}

type ProductEvent struct {
	Type      string  `json:"type"`
	ProductID string  `json:"productID"`
	Title     string  `json:"title,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Quantity  int     `json:"quantity,omitempty"`
}

type OrderEvent struct {
	Type    string  `json:"type"`
	OrderID string  `json:"orderID"`
	UserID  string  `json:"userID"`
	Amount  float64 `json:"amount,omitempty"`
	Status  string  `json:"status"`
}
