package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"golfProShop/domain"
	"golfProShop/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ReviewService interface {
	CreateReview(ctx context.Context, review *domain.Review) error
	GetProductReviews(ctx context.Context, productID uint64, isAdmin bool) ([]domain.Review, error)
	SetReviewHidden(ctx context.Context, id uint, hidden bool) error
	DeleteReview(ctx context.Context, id uint, userID uint, isAdmin bool) error
}

type ReviewHandler struct {
	reviewService ReviewService
	validator     *validator.Validate
	timeout       time.Duration
}

func NewReviewHandler(reviewService ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
		timeout:       10 * time.Second,
	}
}

type CreateReviewRequest struct {
	ProductID uint64 `json:"product_id" validate:"required,gt=0"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

type ModerateReviewRequest struct {
	Hidden bool `json:"hidden"`
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	userID, ok := requireUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate review", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	review := domain.Review{
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.reviewService.CreateReview(ctx, &review); err != nil {
		logger.Error("Failed to create review", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) GetProductReviews(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		logger.Error("Invalid product ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	reviews, err := h.reviewService.GetProductReviews(ctx, productID, isAdmin(c))
	if err != nil {
		logger.Error("Failed to get reviews", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, reviews)
}

// ModerateReview is admin-only: hides or unhides a review.
func (h *ReviewHandler) ModerateReview(c echo.Context) error {
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		logger.Error("Invalid review ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid review ID"})
	}

	var req ModerateReviewRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.reviewService.SetReviewHidden(ctx, uint(reviewID), req.Hidden); err != nil {
		logger.Error("Failed to moderate review", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "review moderated",
	})
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		logger.Error("Invalid review ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid review ID"})
	}

	userID, ok := requireUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.reviewService.DeleteReview(ctx, uint(reviewID), userID, isAdmin(c)); err != nil {
		logger.Error("Failed to delete review", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "review deleted",
	})
}
