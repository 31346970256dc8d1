package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusExpired = "EXPIRED"
)

type Payment struct {
	ID              int               `gorm:"primaryKey" json:"id"`
	UserID          int               `gorm:"column:user_id;index" json:"user_id"`
	OrderID         *int              `gorm:"column:order_id" json:"order_id"`
	Amount          float64           `gorm:"column:amount;type:numeric" json:"amount"`
	PaymentStatus   string            `gorm:"column:payment_status" json:"payment_status"`
	PaymentMethod   string            `gorm:"column:payment_method" json:"payment_method"`
	ProviderPayload datatypes.JSONMap `gorm:"column:provider_payload;type:jsonb" json:"provider_payload,omitempty"`
	CreatedAt       time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"column:updated_at" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

type PaymentWithLink struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	OrderID       int       `json:"order_id"`
	PaymentStatus string    `json:"payment_status"`
	PaymentMethod string    `json:"payment_method"`
	PaymentLink   string    `json:"payment_link"`
	CreatedAt     time.Time `json:"created_at"`
}
