package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"golfProShop/business/payments"
	"golfProShop/domain"
	"golfProShop/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type PaymentsService interface {
	CreatePayment(ctx context.Context, userID uint, orderID uint) (domain.PaymentWithLink, error)
	GetAllPayments(ctx context.Context) ([]domain.Payment, error)
	GetPayment(ctx context.Context, paymentID int) (domain.Payment, error)
	HandleWebhook(ctx context.Context, request payments.WebhookRequest) error
}

type PaymentsHandler struct {
	paymentsService PaymentsService
	validator       *validator.Validate
	webhookToken    string
	timeout         time.Duration
}

func NewPaymentsHandler(paymentsService PaymentsService, webhookToken string) *PaymentsHandler {
	return &PaymentsHandler{
		paymentsService: paymentsService,
		validator:       validator.New(),
		webhookToken:    webhookToken,
		timeout:         10 * time.Second,
	}
}

type CreatePaymentRequest struct {
	OrderID uint `json:"order_id" validate:"required,gt=0"`
}

// CreatePayment opens an invoice for a pending order and returns the
// provider's payment link.
func (h *PaymentsHandler) CreatePayment(c echo.Context) error {
	userID, ok := requireUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate payment request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	payment, err := h.paymentsService.CreatePayment(ctx, userID, req.OrderID)
	if err != nil {
		logger.Error("Failed to create payment", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, payment)
}

// GetAllPayments is admin-only.
func (h *PaymentsHandler) GetAllPayments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	list, err := h.paymentsService.GetAllPayments(ctx)
	if err != nil {
		logger.Error("Failed to get all payments", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, list)
}

func (h *PaymentsHandler) GetPayment(c echo.Context) error {
	paymentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		logger.Error("Invalid payment ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid payment ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	payment, err := h.paymentsService.GetPayment(ctx, paymentID)
	if err != nil {
		logger.Error("Failed to get payment", err)
		return c.JSON(http.StatusNotFound, ResponseError{Message: "payment not found"})
	}

	userID, _ := requireUserID(c)
	if payment.UserID != int(userID) && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, ResponseError{Message: "payment does not belong to this user"})
	}

	return c.JSON(http.StatusOK, payment)
}

// Webhook receives the provider's settlement callback, gated by the
// shared callback token header.
func (h *PaymentsHandler) Webhook(c echo.Context) error {
	if h.webhookToken != "" && c.Request().Header.Get("X-Callback-Token") != h.webhookToken {
		logger.Warn("webhook with invalid callback token")
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "invalid callback token"})
	}

	var req payments.WebhookRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid webhook body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate webhook", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.paymentsService.HandleWebhook(ctx, req); err != nil {
		logger.Error("Failed to process webhook", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "webhook processed",
	})
}
