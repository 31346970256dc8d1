package domain

import "time"

const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        uint        `gorm:"column:user_id;index" json:"user_id"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount   float64     `gorm:"column:total_amount;type:numeric" json:"total_amount"`
	OrderStatus   string      `gorm:"column:order_status" json:"order_status"`
	PaymentMethod string      `gorm:"column:payment_method" json:"payment_method"`
	CreatedAt     time.Time   `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"column:updated_at" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots the product name, category and price at checkout
// so later catalog edits don't rewrite history.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"column:order_id;index" json:"order_id"`
	ProductID   uint64  `gorm:"column:product_id" json:"product_id"`
	ProductName string  `gorm:"column:product_name;type:text" json:"product_name"`
	Category    string  `gorm:"column:category;type:text" json:"category"`
	Quantity    int     `gorm:"column:quantity" json:"quantity"`
	UnitPrice   float64 `gorm:"column:unit_price;type:numeric" json:"unit_price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
