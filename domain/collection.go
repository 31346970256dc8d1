package domain

import "time"

// Collection kinds share the same owner model but carry different
// merge and eviction rules.
const (
	CollectionCart           = "cart"
	CollectionWishlist       = "wishlist"
	CollectionRecentlyViewed = "recently_viewed"
)

// Owner identifies who a collection belongs to: an authenticated user
// when UserID is set, otherwise a guest tracked by cookie.
type Owner struct {
	GuestID string
	UserID  uint
}

func (o Owner) Authenticated() bool {
	return o.UserID > 0
}

// CartEntry is a single cart line, storage-agnostic. Unit price is
// captured at add time and not re-derived from the live product price.
type CartEntry struct {
	ProductID uint64    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PresenceEntry is a wishlist or recently-viewed line; presence only,
// no quantity.
type PresenceEntry struct {
	ProductID uint64    `json:"product_id"`
	SeenAt    time.Time `json:"seen_at"`
}

// CartItem is the persisted cart row for authenticated users. At most
// one row per user and product.
type CartItem struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"column:user_id;uniqueIndex:idx_cart_owner_product"`
	ProductID uint64    `gorm:"column:product_id;uniqueIndex:idx_cart_owner_product"`
	Quantity  int       `gorm:"column:quantity;not null"`
	UnitPrice float64   `gorm:"column:unit_price;type:numeric"`
	AddedAt   time.Time `gorm:"column:added_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (i CartItem) Entry() CartEntry {
	return CartEntry{
		ProductID: i.ProductID,
		Quantity:  i.Quantity,
		UnitPrice: i.UnitPrice,
		AddedAt:   i.AddedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// PresenceItem is the persisted wishlist / recently-viewed row for
// authenticated users, discriminated by Kind.
type PresenceItem struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"column:user_id;uniqueIndex:idx_presence_owner_product"`
	Kind      string    `gorm:"column:kind;uniqueIndex:idx_presence_owner_product"`
	ProductID uint64    `gorm:"column:product_id;uniqueIndex:idx_presence_owner_product"`
	SeenAt    time.Time `gorm:"column:seen_at"`
}

func (PresenceItem) TableName() string {
	return "presence_items"
}

func (i PresenceItem) Entry() PresenceEntry {
	return PresenceEntry{
		ProductID: i.ProductID,
		SeenAt:    i.SeenAt,
	}
}
