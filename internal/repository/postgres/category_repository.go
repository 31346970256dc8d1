package postgres

import (
	"context"
	"errors"

	"golfProShop/domain"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{
		DB: db,
	}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return r.DB.WithContext(ctx).Create(category).Error
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint64) (domain.Category, error) {
	var category domain.Category
	err := r.DB.WithContext(ctx).Where("id=?", id).First(&category).Error
	if err != nil {
		return domain.Category{}, err
	}

	return category, nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.DB.WithContext(ctx).Order("category_name").Find(&categories).Error
	if err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	row := r.DB.WithContext(ctx).Where("id=?", category.ID).Updates(category)
	if row.Error != nil {
		return row.Error
	}
	if row.RowsAffected == 0 {
		return errors.New("category not found")
	}

	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint64) error {
	row := r.DB.WithContext(ctx).Where("id=?", id).Delete(&domain.Category{})
	if row.Error != nil {
		return row.Error
	}
	if row.RowsAffected == 0 {
		return errors.New("category not found")
	}

	return nil
}
