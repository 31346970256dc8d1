package postgres

import (
	"context"

	"golfProShop/domain"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.DB.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint64) (domain.Product, error) {
	var product domain.Product
	err := r.DB.WithContext(ctx).Where("id=?", id).First(&product).Error
	if err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (r *ProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := r.DB.WithContext(ctx).Model(&domain.Product{})

	if filter.Category != "" {
		query = query.Where("product_category=?", filter.Category)
	}
	if filter.Brand != "" {
		query = query.Where("brand=?", filter.Brand)
	}
	if filter.Handedness != "" {
		// "both" products show up for either hand
		query = query.Where("handedness IN ?", []string{filter.Handedness, domain.HandednessBoth})
	}
	if filter.Gender != "" {
		query = query.Where("gender IN ?", []string{filter.Gender, domain.GenderUnisex})
	}

	var products []domain.Product
	err := query.Order("id").Find(&products).Error
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *ProductRepository) FindLowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.DB.WithContext(ctx).
		Where("stock <= ?", threshold).
		Order("stock").
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	return r.DB.WithContext(ctx).Save(product).Error
}

// AdjustStock changes stock by delta and fails the transaction when it
// would go negative.
func (r *ProductRepository) AdjustStock(ctx context.Context, id uint64, delta int) error {
	result := r.DB.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id=? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Delete(&domain.Product{}, id).Error
}
