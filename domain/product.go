package domain

import "time"

const (
	HandednessRight = "right"
	HandednessLeft  = "left"
	HandednessBoth  = "both"
)

const (
	GenderMens   = "mens"
	GenderWomens = "womens"
	GenderUnisex = "unisex"
)

type Product struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement"`
	CategoryID      uint64    `gorm:"column:category_id;default:0"`
	ProductName     string    `gorm:"column:product_name;type:text"`
	ProductCategory string    `gorm:"column:product_category;type:text"`
	Brand           string    `gorm:"column:brand;type:text"`
	Handedness      string    `gorm:"column:handedness;default:both"`
	Gender          string    `gorm:"column:gender;default:unisex"`
	Description     string    `gorm:"column:description;type:text"`
	ImageURL        string    `gorm:"column:image_url;type:text"`
	NormalPrice     float64   `gorm:"column:normal_price;type:numeric"`
	SalePrice       float64   `gorm:"column:sale_price;type:numeric"`
	Stock           int       `gorm:"column:stock;default:0"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// EffectivePrice is the price captured onto cart and order lines.
func (p Product) EffectivePrice() float64 {
	if p.SalePrice > 0 && p.SalePrice < p.NormalPrice {
		return p.SalePrice
	}
	return p.NormalPrice
}

// ProductFilter narrows catalog browsing. Zero values mean "any".
type ProductFilter struct {
	Category   string
	Brand      string
	Handedness string
	Gender     string
}
