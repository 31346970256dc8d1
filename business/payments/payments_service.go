package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golfProShop/domain"
	"golfProShop/pkg/logger"

	"gorm.io/datatypes"
)

type PaymentsRepository interface {
	CreatePayment(ctx context.Context, data domain.Payment) (domain.Payment, error)
	GetAllPayments(ctx context.Context) ([]domain.Payment, error)
	GetPayment(ctx context.Context, paymentID int) (domain.Payment, error)
	UpdatePayment(ctx context.Context, data domain.Payment) error
}

// InvoiceProvider creates a hosted payment page and returns its URL.
type InvoiceProvider interface {
	CreateInvoice(paymentID, userID, orderID int, email string, amount float64, items []domain.OrderItem) (string, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type OrdersRepository interface {
	GetOrder(ctx context.Context, orderID uint) (domain.Order, error)
}

// OrderSettler marks the order paid once the provider settles.
type OrderSettler interface {
	MarkPaid(ctx context.Context, orderID uint) error
}

type PaymentsService struct {
	paymentRepo PaymentsRepository
	invoices    InvoiceProvider
	userRepo    UserRepository
	orderRepo   OrdersRepository
	settler     OrderSettler
}

func NewPaymentsService(
	paymentRepo PaymentsRepository,
	invoices InvoiceProvider,
	userRepo UserRepository,
	orderRepo OrdersRepository,
	settler OrderSettler,
) *PaymentsService {
	return &PaymentsService{
		paymentRepo: paymentRepo,
		invoices:    invoices,
		userRepo:    userRepo,
		orderRepo:   orderRepo,
		settler:     settler,
	}
}

// WebhookRequest is the callback body the invoice provider posts after
// the customer pays or the invoice expires.
type WebhookRequest struct {
	ID         string  `json:"id"`
	ExternalID string  `json:"external_id" validate:"required"`
	Status     string  `json:"status" validate:"required"`
	Amount     float64 `json:"amount"`
	PaidAt     string  `json:"paid_at"`
	PaymentID  string  `json:"payment_id"`
}

// CreatePayment opens a PENDING payment for the order and returns the
// provider's invoice link.
func (s *PaymentsService) CreatePayment(ctx context.Context, userID uint, orderID uint) (domain.PaymentWithLink, error) {
	order, err := s.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		logger.Error("Order not found for payment", err)
		return domain.PaymentWithLink{}, err
	}

	if order.UserID != userID {
		return domain.PaymentWithLink{}, errors.New("order does not belong to this user")
	}
	if order.OrderStatus != domain.OrderStatusPending {
		return domain.PaymentWithLink{}, fmt.Errorf("order in status %s cannot be paid", order.OrderStatus)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logger.Error("User not found for payment", err)
		return domain.PaymentWithLink{}, err
	}

	oid := int(orderID)
	payment, err := s.paymentRepo.CreatePayment(ctx, domain.Payment{
		UserID:        int(userID),
		OrderID:       &oid,
		Amount:        order.TotalAmount,
		PaymentStatus: domain.PaymentStatusPending,
		PaymentMethod: "INVOICE",
		CreatedAt:     time.Now(),
	})
	if err != nil {
		logger.Error("Failed to create payment", err)
		return domain.PaymentWithLink{}, err
	}

	paymentLink, err := s.invoices.CreateInvoice(payment.ID, int(userID), oid, user.Email, order.TotalAmount, order.Items)
	if err != nil {
		logger.Error("Failed to create invoice", err)
		return domain.PaymentWithLink{}, err
	}

	return domain.PaymentWithLink{
		ID:            payment.ID,
		UserID:        payment.UserID,
		OrderID:       oid,
		PaymentStatus: payment.PaymentStatus,
		PaymentMethod: payment.PaymentMethod,
		PaymentLink:   paymentLink,
		CreatedAt:     payment.CreatedAt,
	}, nil
}

func (s *PaymentsService) GetAllPayments(ctx context.Context) ([]domain.Payment, error) {
	return s.paymentRepo.GetAllPayments(ctx)
}

func (s *PaymentsService) GetPayment(ctx context.Context, paymentID int) (domain.Payment, error) {
	return s.paymentRepo.GetPayment(ctx, paymentID)
}

// HandleWebhook settles or expires the payment named by the callback's
// external ID ("payment_id|user_id|order_id") and stores the raw
// callback for audits. A PAID settlement also advances the order.
func (s *PaymentsService) HandleWebhook(ctx context.Context, request WebhookRequest) error {
	parts := strings.Split(request.ExternalID, "|")
	if len(parts) != 3 {
		return errors.New("malformed external id")
	}

	paymentID, err := strconv.Atoi(parts[0])
	if err != nil {
		return errors.New("malformed external id")
	}
	orderID, err := strconv.Atoi(parts[2])
	if err != nil {
		return errors.New("malformed external id")
	}

	payment, err := s.paymentRepo.GetPayment(ctx, paymentID)
	if err != nil {
		logger.Error("Payment not found for webhook", err)
		return err
	}

	if payment.PaymentStatus != domain.PaymentStatusPending {
		logger.Warn("webhook for already settled payment", "payment_id", paymentID)
		return nil
	}

	switch request.Status {
	case "PAID", "SETTLED":
		payment.PaymentStatus = domain.PaymentStatusPaid
	case "EXPIRED":
		payment.PaymentStatus = domain.PaymentStatusExpired
	default:
		return fmt.Errorf("unknown payment status %s", request.Status)
	}

	payment.ProviderPayload = datatypes.JSONMap{
		"invoice_id":  request.ID,
		"external_id": request.ExternalID,
		"status":      request.Status,
		"amount":      request.Amount,
		"paid_at":     request.PaidAt,
	}
	payment.UpdatedAt = time.Now()

	if err := s.paymentRepo.UpdatePayment(ctx, payment); err != nil {
		logger.Error("Failed to update payment from webhook", err)
		return err
	}

	if payment.PaymentStatus == domain.PaymentStatusPaid {
		if err := s.settler.MarkPaid(ctx, uint(orderID)); err != nil {
			logger.Error("Failed to mark order paid", err)
			return err
		}
	}

	return nil
}
