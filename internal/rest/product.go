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

type ProductService interface {
	GetAllProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id uint64) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uint64) error
	GetLowStockProducts(ctx context.Context) ([]domain.Product, error)
	RestockProduct(ctx context.Context, id uint64, amount int) error
}

type ProductHandler struct {
	productService ProductService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type CreateProductRequest struct {
	CategoryID      uint64  `json:"category_id"`
	ProductName     string  `json:"product_name" validate:"required"`
	ProductCategory string  `json:"product_category" validate:"required"`
	Brand           string  `json:"brand" validate:"required"`
	Handedness      string  `json:"handedness" validate:"omitempty,oneof=right left both"`
	Gender          string  `json:"gender" validate:"omitempty,oneof=mens womens unisex"`
	Description     string  `json:"description"`
	ImageURL        string  `json:"image_url" validate:"omitempty,url"`
	NormalPrice     float64 `json:"normal_price" validate:"required,gt=0"`
	SalePrice       float64 `json:"sale_price" validate:"gte=0"`
	Stock           int     `json:"stock" validate:"gte=0"`
}

type RestockRequest struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}

// GetAllProducts lists the catalog, optionally filtered by category,
// brand, handedness, and gender query params.
func (h *ProductHandler) GetAllProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	filter := domain.ProductFilter{
		Category:   c.QueryParam("category"),
		Brand:      c.QueryParam("brand"),
		Handedness: c.QueryParam("handedness"),
		Gender:     c.QueryParam("gender"),
	}

	products, err := h.productService.GetAllProducts(ctx, filter)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get all products",
		"products": products,
	})
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	productIdStr := c.Param("id")
	productID, err := strconv.ParseUint(productIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid product ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.productService.GetProductByID(ctx, productID)
	if err != nil {
		logger.Error("Failed to find product by ID", err)
		return c.JSON(http.StatusNotFound, ResponseError{Message: "product not found"})
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate create product", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.productService.CreateProduct(ctx, &domain.Product{
		CategoryID:      req.CategoryID,
		ProductName:     req.ProductName,
		ProductCategory: req.ProductCategory,
		Brand:           req.Brand,
		Handedness:      req.Handedness,
		Gender:          req.Gender,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		NormalPrice:     req.NormalPrice,
		SalePrice:       req.SalePrice,
		Stock:           req.Stock,
	})
	if err != nil {
		logger.Error("Failed to create product", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "product created successfully",
		"product": product,
	})
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	productIdStr := c.Param("id")
	productID, err := strconv.ParseUint(productIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid product ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product ID"})
	}

	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate update product", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.productService.UpdateProduct(ctx, &domain.Product{
		ID:              productID,
		CategoryID:      req.CategoryID,
		ProductName:     req.ProductName,
		ProductCategory: req.ProductCategory,
		Brand:           req.Brand,
		Handedness:      req.Handedness,
		Gender:          req.Gender,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		NormalPrice:     req.NormalPrice,
		SalePrice:       req.SalePrice,
		Stock:           req.Stock,
	})
	if err != nil {
		logger.Error("Failed to update product", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "product updated successfully",
		"product": product,
	})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	productIdStr := c.Param("id")
	productID, err := strconv.ParseUint(productIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid product ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.productService.DeleteProduct(ctx, productID); err != nil {
		logger.Error("Failed to delete product", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "product deleted successfully",
	})
}

// GetLowStockProducts is the admin restock dashboard feed.
func (h *ProductHandler) GetLowStockProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.GetLowStockProducts(ctx)
	if err != nil {
		logger.Error("Failed to find low stock products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get low stock products",
		"products": products,
	})
}

func (h *ProductHandler) RestockProduct(c echo.Context) error {
	productIdStr := c.Param("id")
	productID, err := strconv.ParseUint(productIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid product ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product ID"})
	}

	var req RestockRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate restock request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.productService.RestockProduct(ctx, productID, req.Amount); err != nil {
		logger.Error("Failed to restock product", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "product restocked successfully",
	})
}
