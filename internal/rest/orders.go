package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"golfProShop/domain"
	"golfProShop/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type OrdersService interface {
	Checkout(ctx context.Context, userID uint, paymentMethod string) (domain.Order, error)
	GetAllOrders(ctx context.Context) ([]domain.Order, error)
	GetOrdersByUser(ctx context.Context, userID uint) ([]domain.Order, error)
	GetOrder(ctx context.Context, orderID uint) (domain.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status string) error
	Cancel(ctx context.Context, orderID uint, userID uint, isAdmin bool) (domain.Order, error)
}

type OrdersHandler struct {
	ordersService OrdersService
	validator     *validator.Validate
	timeout       time.Duration
}

func NewOrdersHandler(ordersService OrdersService) *OrdersHandler {
	return &OrdersHandler{
		ordersService: ordersService,
		validator:     validator.New(),
		timeout:       10 * time.Second,
	}
}

type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=INVOICE TRANSFER COD"`
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PAID SHIPPED DELIVERED"`
}

func requireUserID(c echo.Context) (uint, bool) {
	userID, ok := c.Get("user_id").(uint)
	return userID, ok && userID > 0
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "admin"
}

// Checkout converts the authenticated user's cart into an order.
func (h *OrdersHandler) Checkout(c echo.Context) error {
	userID, ok := requireUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate checkout request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.Checkout(ctx, userID, req.PaymentMethod)
	if err != nil {
		logger.Error("Checkout failed", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(order))
}

// GetMyOrders lists the caller's order history.
func (h *OrdersHandler) GetMyOrders(c echo.Context) error {
	userID, ok := requireUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	orders, err := h.ordersService.GetOrdersByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to get user orders", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(orders))
}

// GetAllOrders is admin-only.
func (h *OrdersHandler) GetAllOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	orders, err := h.ordersService.GetAllOrders(ctx)
	if err != nil {
		logger.Error("Failed to get all orders", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(orders))
}

func (h *OrdersHandler) GetOrder(c echo.Context) error {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		logger.Error("Invalid order ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid order ID"})
	}

	userID, ok := requireUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.GetOrder(ctx, uint(orderID))
	if err != nil {
		logger.Error("Failed to get order", err)
		return c.JSON(http.StatusNotFound, ResponseError{Message: "order not found"})
	}

	if order.UserID != userID && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, ResponseError{Message: "order does not belong to this user"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(order))
}

// UpdateStatus is admin-only: moves an order along the fulfillment
// flow.
func (h *OrdersHandler) UpdateStatus(c echo.Context) error {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		logger.Error("Invalid order ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid order ID"})
	}

	var req OrderStatusRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate status request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.ordersService.UpdateStatus(ctx, uint(orderID), req.Status); err != nil {
		logger.Error("Failed to update order status", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Order status updated successfully"))
}

func (h *OrdersHandler) CancelOrder(c echo.Context) error {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		logger.Error("Invalid order ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid order ID"})
	}

	userID, ok := requireUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.Cancel(ctx, uint(orderID), userID, isAdmin(c))
	if err != nil {
		logger.Error("Failed to cancel order", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(order))
}
