package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golfProShop/domain"
	"golfProShop/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CartService interface {
	Load(ctx context.Context, owner domain.Owner) ([]domain.CartEntry, error)
	Add(ctx context.Context, owner domain.Owner, productID uint64, quantity int) ([]domain.CartEntry, error)
	UpdateQuantity(ctx context.Context, owner domain.Owner, productID uint64, newQuantity int) ([]domain.CartEntry, error)
	Remove(ctx context.Context, owner domain.Owner, productID uint64) ([]domain.CartEntry, error)
	RemoveMany(ctx context.Context, owner domain.Owner, productIDs []uint64) ([]domain.CartEntry, error)
	Clear(ctx context.Context, owner domain.Owner) error
}

type CartHandler struct {
	cartService CartService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewCartHandler(cartService CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type CartAddRequest struct {
	ProductID uint64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type CartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

type CartRemoveManyRequest struct {
	ProductIDs []uint64 `json:"product_ids" validate:"required,min=1,dive,gt=0"`
}

// resolveOwner picks the authenticated user when a token was
// presented, otherwise the guest cookie planted by the middleware.
func resolveOwner(c echo.Context) (domain.Owner, error) {
	if userID, ok := c.Get("user_id").(uint); ok && userID > 0 {
		return domain.Owner{UserID: userID}, nil
	}
	if guestID, ok := c.Get("guest_id").(string); ok && guestID != "" {
		return domain.Owner{GuestID: guestID}, nil
	}
	return domain.Owner{}, errors.New("no cart owner")
}

func (h *CartHandler) GetCart(c echo.Context) error {
	owner, err := resolveOwner(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	entries, err := h.cartService.Load(ctx, owner)
	if err != nil {
		logger.Error("Failed to load cart", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": entries,
	})
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	owner, err := resolveOwner(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var req CartAddRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate cart add", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	entries, err := h.cartService.Add(ctx, owner, req.ProductID, req.Quantity)
	if err != nil {
		logger.Error("Failed to add to cart", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "item added to cart",
		"items":   entries,
	})
}

// UpdateQuantity sets the line's quantity; zero removes it.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	owner, err := resolveOwner(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	productID, err := parseProductID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var req CartQuantityRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate quantity update", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	entries, err := h.cartService.UpdateQuantity(ctx, owner, productID, req.Quantity)
	if err != nil {
		logger.Error("Failed to update cart quantity", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": entries,
	})
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	owner, err := resolveOwner(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	productID, err := parseProductID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	entries, err := h.cartService.Remove(ctx, owner, productID)
	if err != nil {
		logger.Error("Failed to remove from cart", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": entries,
	})
}

func (h *CartHandler) RemoveManyFromCart(c echo.Context) error {
	owner, err := resolveOwner(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var req CartRemoveManyRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate bulk remove", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	entries, err := h.cartService.RemoveMany(ctx, owner, req.ProductIDs)
	if err != nil {
		logger.Error("Failed to remove items from cart", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": entries,
	})
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	owner, err := resolveOwner(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.cartService.Clear(ctx, owner); err != nil {
		logger.Error("Failed to clear cart", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "cart cleared",
	})
}
