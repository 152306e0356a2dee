package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/shop_backend/internal/events"
	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	// Transactional writes the order and the inventory changes atomically.
	Transactional bool
	Now           func() time.Time
}

// CreateOrder turns the caller's cart into a cash-on-delivery order and
// moves the ordered units from stock to sold. The cart is left in place.
func (s *OrderService) CreateOrder(ctx context.Context, actor Actor, cod bool) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create", "user_id", actor.UserID)

	if !cod {
		return nil, fmt.Errorf("%w: create cash order failed", ErrUnsupportedPayment)
	}

	cart, err := s.Repo.GetCart(ctx, actor.UserID, false)
	if err != nil {
		return nil, notFound(err, "cart empty")
	}

	amount := cart.CartTotal
	if cart.AppliedCoupon != nil && cart.TotalAfterDiscount != nil {
		amount = *cart.TotalAfterDiscount
	}

	now := s.now()
	order := &models.Order{
		UserID: actor.UserID,
		PaymentIntent: models.PaymentIntent{
			PaymentID:      uuid.NewString(),
			PaymentMethod:  models.PaymentMethodCOD,
			Amount:         amount,
			PaymentStatus:  models.StatusCashOnDelivery,
			Currency:       models.CurrencyUSD,
			PaymentCreated: now.Unix(),
		},
		OrderStatus: models.StatusCashOnDelivery,
	}

	lines := make([]repo.InventoryLine, 0, len(cart.Items))
	for _, it := range cart.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: it.ProductID,
			Color:     it.Color,
			Count:     it.Count,
			Price:     it.Price,
		})
		lines = append(lines, repo.InventoryLine{ProductID: it.ProductID, Count: it.Count})
	}

	write := func(r *repo.GormRepo) error {
		if err := r.CreateOrder(ctx, order); err != nil {
			return err
		}
		return notFound(r.ApplyInventory(ctx, lines), "product")
	}
	if s.Transactional {
		err = s.Repo.WithTx(ctx, write)
	} else {
		err = write(s.Repo)
	}
	if err != nil {
		l.Error("create_order_error", "error", err)
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicOrderEvents, order.ID.String(), events.OrderEvent{
		Type:    events.OrderCreated,
		OrderID: order.ID.String(),
		UserID:  actor.UserID.String(),
		Amount:  amount,
		Status:  order.OrderStatus,
	})
	l.Info("create_order_success", "order_id", order.ID, "amount", amount)
	return order, nil
}

func (s *OrderService) GetOrders(ctx context.Context, actor Actor) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, actor.UserID)
}

func (s *OrderService) GetOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id required", ErrValidation)
	}
	return s.Repo.ListOrders(ctx, userID)
}

func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, uuid.Nil)
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, fmt.Errorf("%w: status is required", ErrValidation)
	}

	order, err := s.Repo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, notFound(err, "order")
	}

	events.Emit(ctx, s.Events, events.TopicOrderEvents, order.ID.String(), events.OrderEvent{
		Type:    events.OrderStatusUpdated,
		OrderID: order.ID.String(),
		UserID:  order.UserID.String(),
		Status:  status,
	})
	return order, nil
}

func (s *OrderService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
