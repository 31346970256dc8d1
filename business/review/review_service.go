package review

import (
	"context"
	"errors"
	"time"

	"golfProShop/domain"
	"golfProShop/pkg/logger"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	FindByProduct(ctx context.Context, productID uint64, includeHidden bool) ([]domain.Review, error)
	FindByID(ctx context.Context, id uint) (domain.Review, error)
	FindByUserAndProduct(ctx context.Context, userID uint, productID uint64) (domain.Review, error)
	SetHidden(ctx context.Context, id uint, hidden bool) error
	Delete(ctx context.Context, id uint) error
}

// PurchaseChecker verifies the reviewer actually bought the product.
type PurchaseChecker interface {
	GetOrdersByUser(ctx context.Context, userID uint) ([]domain.Order, error)
}

type reviewService struct {
	reviewRepo ReviewRepository
	purchases  PurchaseChecker
}

func NewReviewService(reviewRepo ReviewRepository, purchases PurchaseChecker) *reviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		purchases:  purchases,
	}
}

// CreateReview accepts one review per user per product, and only from
// buyers with a delivered order containing it.
func (s *reviewService) CreateReview(ctx context.Context, review *domain.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	if review.ProductID == 0 {
		return errors.New("invalid product id")
	}

	existing, err := s.reviewRepo.FindByUserAndProduct(ctx, review.UserID, review.ProductID)
	if err == nil && existing.ID > 0 {
		return errors.New("product already reviewed")
	}

	bought, err := s.hasDelivered(ctx, review.UserID, review.ProductID)
	if err != nil {
		logger.Error("Failed to check purchase history", err)
		return err
	}
	if !bought {
		return errors.New("only verified buyers can review this product")
	}

	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		logger.Error("Failed to create review", err)
		return err
	}

	return nil
}

func (s *reviewService) hasDelivered(ctx context.Context, userID uint, productID uint64) (bool, error) {
	orders, err := s.purchases.GetOrdersByUser(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, order := range orders {
		if order.OrderStatus != domain.OrderStatusDelivered {
			continue
		}
		for _, item := range order.Items {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}

	return false, nil
}

// GetProductReviews returns visible reviews; admins also see hidden
// ones.
func (s *reviewService) GetProductReviews(ctx context.Context, productID uint64, isAdmin bool) ([]domain.Review, error) {
	if productID == 0 {
		return nil, errors.New("invalid product id")
	}

	reviews, err := s.reviewRepo.FindByProduct(ctx, productID, isAdmin)
	if err != nil {
		logger.Error("Failed to find reviews", err)
		return nil, err
	}

	return reviews, nil
}

// SetReviewHidden is the moderation switch.
func (s *reviewService) SetReviewHidden(ctx context.Context, id uint, hidden bool) error {
	if _, err := s.reviewRepo.FindByID(ctx, id); err != nil {
		logger.Error("Review not found for moderation", err)
		return err
	}

	if err := s.reviewRepo.SetHidden(ctx, id, hidden); err != nil {
		logger.Error("Failed to moderate review", err)
		return err
	}

	return nil
}

// DeleteReview removes the caller's own review, or any review for an
// admin.
func (s *reviewService) DeleteReview(ctx context.Context, id uint, userID uint, isAdmin bool) error {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Review not found for delete", err)
		return err
	}

	if !isAdmin && review.UserID != userID {
		return errors.New("review does not belong to this user")
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete review", err)
		return err
	}

	return nil
}
