package postgres

import (
	"context"
	"errors"
	"fmt"

	"golfProShop/domain"

	"gorm.io/gorm"
)

type OrdersRepository struct {
	DB *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		DB: db,
	}
}

func (r *OrdersRepository) CreateOrder(ctx context.Context, data domain.Order) (domain.Order, error) {
	err := r.DB.WithContext(ctx).Create(&data).Error
	if err != nil {
		return domain.Order{}, err
	}

	return data, nil
}

func (r *OrdersRepository) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.DB.WithContext(ctx).Preload("Items").Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrdersRepository) GetOrdersByUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id=?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrdersRepository) GetOrder(ctx context.Context, orderID uint) (domain.Order, error) {
	var order domain.Order
	err := r.DB.WithContext(ctx).Preload("Items").Where("id=?", orderID).First(&order).Error
	if err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

// GetOrdersInWindow returns orders with created_at in [start, end).
// Zero bounds are open-ended.
func (r *OrdersRepository) GetOrdersInWindow(ctx context.Context, window domain.Window) ([]domain.Order, error) {
	query := r.DB.WithContext(ctx).Preload("Items")

	if !window.Start.IsZero() {
		query = query.Where("created_at >= ?", window.Start)
	}
	if !window.End.IsZero() {
		query = query.Where("created_at < ?", window.End)
	}

	var orders []domain.Order
	err := query.Order("created_at").Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrdersRepository) UpdateOrderStatus(ctx context.Context, orderID uint, status string) error {
	row := r.DB.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id=?", orderID).
		Update("order_status", status)
	if row.Error != nil {
		return row.Error
	}
	if row.RowsAffected == 0 {
		return errors.New("order not found")
	}

	return nil
}

func (r *OrdersRepository) DeleteOrder(ctx context.Context, orderID uint) error {
	row := r.DB.WithContext(ctx).Where("id=?", orderID).Delete(&domain.Order{})
	if row.Error != nil {
		return row.Error
	}
	if row.RowsAffected == 0 {
		return errors.New("order not found")
	}

	return nil
}

// CheckoutOrder creates the order, decrements stock for every line,
// and empties the buyer's cart in one transaction. Insufficient stock
// on any line rolls back the whole checkout.
func (r *OrdersRepository) CheckoutOrder(ctx context.Context, data domain.Order) (domain.Order, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := &ProductRepository{DB: tx}
		for _, item := range data.Items {
			if err := products.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("insufficient stock for product %d", item.ProductID)
				}
				return err
			}
		}

		if err := tx.Create(&data).Error; err != nil {
			return err
		}

		carts := &CartRepository{DB: tx}
		return carts.ClearCart(ctx, data.UserID)
	})
	if err != nil {
		return domain.Order{}, err
	}

	return data, nil
}

// CancelOrder flips the order to CANCELLED and restores the stock it
// had reserved, atomically. Only PENDING and PAID orders can be
// cancelled.
func (r *OrdersRepository) CancelOrder(ctx context.Context, orderID uint) (domain.Order, error) {
	var order domain.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Where("id=?", orderID).First(&order).Error; err != nil {
			return err
		}

		if order.OrderStatus != domain.OrderStatusPending && order.OrderStatus != domain.OrderStatusPaid {
			return fmt.Errorf("order in status %s cannot be cancelled", order.OrderStatus)
		}

		if err := tx.Model(&domain.Order{}).Where("id=?", orderID).
			Update("order_status", domain.OrderStatusCancelled).Error; err != nil {
			return err
		}

		products := &ProductRepository{DB: tx}
		for _, item := range order.Items {
			if err := products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		order.OrderStatus = domain.OrderStatusCancelled
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	return order, nil
}
