package domain

import "time"

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint64    `gorm:"column:product_id;index" json:"product_id"`
	UserID    uint      `gorm:"column:user_id;index" json:"user_id"`
	Rating    int       `gorm:"column:rating;not null" json:"rating"`
	Comment   string    `gorm:"column:comment;type:text" json:"comment"`
	IsHidden  bool      `gorm:"column:is_hidden;default:false" json:"is_hidden"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}
