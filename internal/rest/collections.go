package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"golfProShop/domain"
	"golfProShop/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CollectionsService interface {
	Load(ctx context.Context, owner domain.Owner, kind string) ([]domain.PresenceEntry, error)
	Add(ctx context.Context, owner domain.Owner, kind string, productID uint64) ([]domain.PresenceEntry, error)
	Remove(ctx context.Context, owner domain.Owner, kind string, productID uint64) ([]domain.PresenceEntry, error)
	RemoveMany(ctx context.Context, owner domain.Owner, kind string, productIDs []uint64) ([]domain.PresenceEntry, error)
	Clear(ctx context.Context, owner domain.Owner, kind string) error
}

// CollectionsHandler serves the wishlist and recently viewed lists.
// The kind is fixed per route group at registration time.
type CollectionsHandler struct {
	collections CollectionsService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewCollectionsHandler(collections CollectionsService) *CollectionsHandler {
	return &CollectionsHandler{
		collections: collections,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type PresenceAddRequest struct {
	ProductID uint64 `json:"product_id" validate:"required,gt=0"`
}

type PresenceRemoveManyRequest struct {
	ProductIDs []uint64 `json:"product_ids" validate:"required,min=1,dive,gt=0"`
}

func parseProductID(c echo.Context) (uint64, error) {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		return 0, errors.New("invalid product ID")
	}
	return productID, nil
}

func (h *CollectionsHandler) Get(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		owner, err := resolveOwner(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		defer cancel()

		entries, err := h.collections.Load(ctx, owner, kind)
		if err != nil {
			logger.Error("Failed to load collection", err)
			return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"items": entries,
		})
	}
}

func (h *CollectionsHandler) Add(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		owner, err := resolveOwner(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}

		var req PresenceAddRequest
		if err := c.Bind(&req); err != nil {
			logger.Error("Invalid request body", err)
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}

		if err := h.validator.Struct(&req); err != nil {
			logger.Error("Failed to validate collection add", err)
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		defer cancel()

		entries, err := h.collections.Add(ctx, owner, kind, req.ProductID)
		if err != nil {
			logger.Error("Failed to add to collection", err)
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"items": entries,
		})
	}
}

func (h *CollectionsHandler) Remove(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
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

		entries, err := h.collections.Remove(ctx, owner, kind, productID)
		if err != nil {
			logger.Error("Failed to remove from collection", err)
			return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"items": entries,
		})
	}
}

func (h *CollectionsHandler) RemoveMany(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		owner, err := resolveOwner(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}

		var req PresenceRemoveManyRequest
		if err := c.Bind(&req); err != nil {
			logger.Error("Invalid request body", err)
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}

		if err := h.validator.Struct(&req); err != nil {
			logger.Error("Failed to validate collection bulk remove", err)
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		defer cancel()

		entries, err := h.collections.RemoveMany(ctx, owner, kind, req.ProductIDs)
		if err != nil {
			logger.Error("Failed to remove items from collection", err)
			return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"items": entries,
		})
	}
}

func (h *CollectionsHandler) Clear(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		owner, err := resolveOwner(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		defer cancel()

		if err := h.collections.Clear(ctx, owner, kind); err != nil {
			logger.Error("Failed to clear collection", err)
			return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "collection cleared",
		})
	}
}
