package postgres

import (
	"context"
	"errors"

	"golfProShop/domain"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{
		DB: db,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return r.DB.WithContext(ctx).Create(review).Error
}

func (r *ReviewRepository) FindByProduct(ctx context.Context, productID uint64, includeHidden bool) ([]domain.Review, error) {
	query := r.DB.WithContext(ctx).Where("product_id=?", productID)
	if !includeHidden {
		query = query.Where("is_hidden=?", false)
	}

	var reviews []domain.Review
	err := query.Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uint) (domain.Review, error) {
	var review domain.Review
	err := r.DB.WithContext(ctx).Where("id=?", id).First(&review).Error
	if err != nil {
		return domain.Review{}, err
	}

	return review, nil
}

func (r *ReviewRepository) FindByUserAndProduct(ctx context.Context, userID uint, productID uint64) (domain.Review, error) {
	var review domain.Review
	err := r.DB.WithContext(ctx).
		Where("user_id=? AND product_id=?", userID, productID).
		First(&review).Error
	if err != nil {
		return domain.Review{}, err
	}

	return review, nil
}

func (r *ReviewRepository) SetHidden(ctx context.Context, id uint, hidden bool) error {
	row := r.DB.WithContext(ctx).
		Model(&domain.Review{}).
		Where("id=?", id).
		Update("is_hidden", hidden)
	if row.Error != nil {
		return row.Error
	}
	if row.RowsAffected == 0 {
		return errors.New("review not found")
	}

	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	row := r.DB.WithContext(ctx).Where("id=?", id).Delete(&domain.Review{})
	if row.Error != nil {
		return row.Error
	}
	if row.RowsAffected == 0 {
		return errors.New("review not found")
	}

	return nil
}
