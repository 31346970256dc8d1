package postgres

import (
	"context"
	"time"

	"golfProShop/domain"

	"gorm.io/gorm"
)

// CartRepository stores the authenticated side of cart collections.
// The whole collection is read and written as a unit, matching the
// synchronizer's reconcile-then-replace model.
type CartRepository struct {
	DB *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{
		DB: db,
	}
}

func (r *CartRepository) GetCart(ctx context.Context, userID uint) ([]domain.CartEntry, error) {
	var items []domain.CartItem
	err := r.DB.WithContext(ctx).
		Where("user_id=?", userID).
		Order("added_at").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	entries := make([]domain.CartEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, item.Entry())
	}

	return entries, nil
}

// ReplaceCart swaps the user's cart for the given entries atomically.
func (r *CartRepository) ReplaceCart(ctx context.Context, userID uint, entries []domain.CartEntry) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id=?", userID).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}

		if len(entries) == 0 {
			return nil
		}

		items := make([]domain.CartItem, 0, len(entries))
		for _, e := range entries {
			items = append(items, domain.CartItem{
				UserID:    userID,
				ProductID: e.ProductID,
				Quantity:  e.Quantity,
				UnitPrice: e.UnitPrice,
				AddedAt:   e.AddedAt,
				UpdatedAt: e.UpdatedAt,
			})
		}

		return tx.Create(&items).Error
	})
}

func (r *CartRepository) ClearCart(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Where("user_id=?", userID).Delete(&domain.CartItem{}).Error
}

// GetPresence returns a wishlist or recently-viewed collection ordered
// most recent first.
func (r *CartRepository) GetPresence(ctx context.Context, userID uint, kind string) ([]domain.PresenceEntry, error) {
	var items []domain.PresenceItem
	err := r.DB.WithContext(ctx).
		Where("user_id=? AND kind=?", userID, kind).
		Order("seen_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	entries := make([]domain.PresenceEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, item.Entry())
	}

	return entries, nil
}

func (r *CartRepository) ReplacePresence(ctx context.Context, userID uint, kind string, entries []domain.PresenceEntry) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id=? AND kind=?", userID, kind).Delete(&domain.PresenceItem{}).Error; err != nil {
			return err
		}

		if len(entries) == 0 {
			return nil
		}

		items := make([]domain.PresenceItem, 0, len(entries))
		for _, e := range entries {
			seenAt := e.SeenAt
			if seenAt.IsZero() {
				seenAt = time.Now()
			}
			items = append(items, domain.PresenceItem{
				UserID:    userID,
				Kind:      kind,
				ProductID: e.ProductID,
				SeenAt:    seenAt,
			})
		}

		return tx.Create(&items).Error
	})
}

func (r *CartRepository) ClearPresence(ctx context.Context, userID uint, kind string) error {
	return r.DB.WithContext(ctx).
		Where("user_id=? AND kind=?", userID, kind).
		Delete(&domain.PresenceItem{}).Error
}
