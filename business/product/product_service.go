package product

import (
	"context"
	"errors"
	"fmt"

	"golfProShop/domain"
	"golfProShop/pkg/logger"
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	FindLowStock(ctx context.Context, threshold int) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	AdjustStock(ctx context.Context, id uint64, delta int) error
	Delete(ctx context.Context, id uint64) error
}

type productService struct {
	productRepo       ProductRepository
	lowStockThreshold int
}

func NewProductService(productRepo ProductRepository, lowStockThreshold int) *productService {
	if lowStockThreshold <= 0 {
		lowStockThreshold = 5
	}
	return &productService{
		productRepo:       productRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

var validHandedness = map[string]bool{
	domain.HandednessRight: true,
	domain.HandednessLeft:  true,
	domain.HandednessBoth:  true,
}

var validGender = map[string]bool{
	domain.GenderMens:   true,
	domain.GenderWomens: true,
	domain.GenderUnisex: true,
}

func (s *productService) GetAllProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all products")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if filter.Handedness != "" && !validHandedness[filter.Handedness] {
		return nil, errors.New("handedness must be right, left, or both")
	}
	if filter.Gender != "" && !validGender[filter.Gender] {
		return nil, errors.New("gender must be mens, womens, or unisex")
	}

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint64) (*domain.Product, error) {
	if id == 0 {
		logger.Error("invalid product id")
		return nil, errors.New("invalid product id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when get product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find product by id", err)
		return nil, err
	}

	return &product, nil
}

func (s *productService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if err := validateProduct(product); err != nil {
		logger.Error("Invalid product data", err)
		return nil, err
	}

	if product.Handedness == "" {
		product.Handedness = domain.HandednessBoth
	}
	if product.Gender == "" {
		product.Gender = domain.GenderUnisex
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("failed to create new product", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logger.Info("product created successfully")

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if product.ID == 0 {
		logger.Error("Invalid product data: ID is required")
		return nil, errors.New("product ID is required")
	}

	if err := validateProduct(product); err != nil {
		logger.Error("Invalid product data", err)
		return nil, err
	}

	existing, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		logger.Error("product not found for update", err)
		return nil, err
	}
	product.CreatedAt = existing.CreatedAt

	if err := s.productRepo.Update(ctx, product); err != nil {
		logger.Error("failed to update product", err)
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint64) error {
	if id == 0 {
		return errors.New("invalid product id")
	}

	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		logger.Error("product not found for delete", err)
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete product", err)
		return err
	}

	return nil
}

// GetLowStockProducts lists products at or below the restock threshold,
// used by the admin dashboard.
func (s *productService) GetLowStockProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.productRepo.FindLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		logger.Error("failed to find low stock products", err)
		return nil, err
	}

	return products, nil
}

// RestockProduct increases stock by the given amount.
func (s *productService) RestockProduct(ctx context.Context, id uint64, amount int) error {
	if id == 0 {
		return errors.New("invalid product id")
	}
	if amount <= 0 {
		return errors.New("restock amount must be greater than 0")
	}

	if err := s.productRepo.AdjustStock(ctx, id, amount); err != nil {
		logger.Error("failed to restock product", err)
		return err
	}

	return nil
}

func validateProduct(product *domain.Product) error {
	if product.ProductName == "" {
		return errors.New("product name is required")
	}
	if product.ProductCategory == "" {
		return errors.New("product category is required")
	}
	if product.Brand == "" {
		return errors.New("brand is required")
	}
	if product.NormalPrice <= 0 {
		return errors.New("normal price must be greater than 0")
	}
	if product.SalePrice < 0 || product.SalePrice > product.NormalPrice {
		return errors.New("sale price must be between 0 and the normal price")
	}
	if product.Stock < 0 {
		return errors.New("stock cannot be negative")
	}
	if product.Handedness != "" && !validHandedness[product.Handedness] {
		return errors.New("handedness must be right, left, or both")
	}
	if product.Gender != "" && !validGender[product.Gender] {
		return errors.New("gender must be mens, womens, or unisex")
	}
	return nil
}
