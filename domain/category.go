package domain

import "time"

// Category is a top-level product grouping: drivers, irons, wedges,
// putters, balls, bags, apparel.
type Category struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	CategoryName string    `gorm:"column:category_name;unique;not null"`
	Description  string    `gorm:"column:description;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (Category) TableName() string {
	return "categories"
}
