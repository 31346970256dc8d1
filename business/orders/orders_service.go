package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golfProShop/domain"
	"golfProShop/pkg/logger"
	"golfProShop/pkg/metrics"
)

type OrdersRepository interface {
	CheckoutOrder(ctx context.Context, data domain.Order) (domain.Order, error)
	CancelOrder(ctx context.Context, orderID uint) (domain.Order, error)
	GetAllOrders(ctx context.Context) ([]domain.Order, error)
	GetOrdersByUser(ctx context.Context, userID uint) ([]domain.Order, error)
	GetOrder(ctx context.Context, orderID uint) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, status string) error
}

// CartReader supplies the lines checkout turns into an order.
type CartReader interface {
	Load(ctx context.Context, owner domain.Owner) ([]domain.CartEntry, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
}

type OrdersService struct {
	orderRepo   OrdersRepository
	cartReader  CartReader
	productRepo ProductRepository
	now         func() time.Time
}

func NewOrdersService(orderRepo OrdersRepository, cartReader CartReader, productRepo ProductRepository) *OrdersService {
	return &OrdersService{
		orderRepo:   orderRepo,
		cartReader:  cartReader,
		productRepo: productRepo,
		now:         time.Now,
	}
}

// allowedTransitions is the order status flow. Cancellation is handled
// separately because it restores stock.
var allowedTransitions = map[string][]string{
	domain.OrderStatusPending: {domain.OrderStatusPaid},
	domain.OrderStatusPaid:    {domain.OrderStatusShipped},
	domain.OrderStatusShipped: {domain.OrderStatusDelivered},
}

// Checkout turns the user's cart into a PENDING order. Prices and
// product names are snapshotted from the catalog at this moment; the
// cart is emptied and stock decremented in the same transaction.
func (s *OrdersService) Checkout(ctx context.Context, userID uint, paymentMethod string) (domain.Order, error) {
	entries, err := s.cartReader.Load(ctx, domain.Owner{UserID: userID})
	if err != nil {
		logger.Error("Failed to load cart for checkout", err)
		metrics.CheckoutTotal.WithLabelValues("failure").Inc()
		return domain.Order{}, err
	}

	if len(entries) == 0 {
		metrics.CheckoutTotal.WithLabelValues("empty_cart").Inc()
		return domain.Order{}, errors.New("cart is empty")
	}

	timeNow := s.now()
	order := domain.Order{
		UserID:        userID,
		OrderStatus:   domain.OrderStatusPending,
		PaymentMethod: paymentMethod,
		CreatedAt:     timeNow,
		UpdatedAt:     timeNow,
	}

	for _, entry := range entries {
		product, err := s.productRepo.FindByID(ctx, entry.ProductID)
		if err != nil {
			logger.Error("Product missing at checkout", err)
			metrics.CheckoutTotal.WithLabelValues("failure").Inc()
			return domain.Order{}, fmt.Errorf("product %d is no longer available", entry.ProductID)
		}

		unitPrice := product.EffectivePrice()
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:   entry.ProductID,
			ProductName: product.ProductName,
			Category:    product.ProductCategory,
			Quantity:    entry.Quantity,
			UnitPrice:   unitPrice,
		})
		order.TotalAmount += unitPrice * float64(entry.Quantity)
	}

	created, err := s.orderRepo.CheckoutOrder(ctx, order)
	if err != nil {
		logger.Error("Checkout failed", err)
		metrics.CheckoutTotal.WithLabelValues("failure").Inc()
		return domain.Order{}, err
	}

	metrics.CheckoutTotal.WithLabelValues("success").Inc()
	return created, nil
}

func (s *OrdersService) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orderRepo.GetAllOrders(ctx)
}

func (s *OrdersService) GetOrdersByUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	return s.orderRepo.GetOrdersByUser(ctx, userID)
}

func (s *OrdersService) GetOrder(ctx context.Context, orderID uint) (domain.Order, error) {
	return s.orderRepo.GetOrder(ctx, orderID)
}

// UpdateStatus moves the order along PENDING, PAID, SHIPPED,
// DELIVERED. Use Cancel for cancellation.
func (s *OrdersService) UpdateStatus(ctx context.Context, orderID uint, status string) error {
	if status == domain.OrderStatusCancelled {
		return errors.New("use the cancel operation to cancel an order")
	}

	order, err := s.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		logger.Error("Order not found for status update", err)
		return err
	}

	allowed := false
	for _, next := range allowedTransitions[order.OrderStatus] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("cannot move order from %s to %s", order.OrderStatus, status)
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		logger.Error("Failed to update order status", err)
		return err
	}

	return nil
}

// MarkPaid is called by the payment webhook after settlement.
func (s *OrdersService) MarkPaid(ctx context.Context, orderID uint) error {
	return s.UpdateStatus(ctx, orderID, domain.OrderStatusPaid)
}

// Cancel voids the order and puts its stock back on the shelf.
func (s *OrdersService) Cancel(ctx context.Context, orderID uint, userID uint, isAdmin bool) (domain.Order, error) {
	order, err := s.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		logger.Error("Order not found for cancel", err)
		return domain.Order{}, err
	}

	if !isAdmin && order.UserID != userID {
		return domain.Order{}, errors.New("order does not belong to this user")
	}

	cancelled, err := s.orderRepo.CancelOrder(ctx, orderID)
	if err != nil {
		logger.Error("Failed to cancel order", err)
		return domain.Order{}, err
	}

	return cancelled, nil
}
