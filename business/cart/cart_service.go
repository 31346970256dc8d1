package cart

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golfProShop/domain"
	"golfProShop/pkg/logger"
	"golfProShop/pkg/metrics"
)

// RemoteCartRepository is the authenticated-owner side of the cart.
type RemoteCartRepository interface {
	GetCart(ctx context.Context, userID uint) ([]domain.CartEntry, error)
	ReplaceCart(ctx context.Context, userID uint, entries []domain.CartEntry) error
	ClearCart(ctx context.Context, userID uint) error
}

// GuestCartStore is the guest side, keyed by the cookie guest ID.
type GuestCartStore interface {
	GetCart(ctx context.Context, guestID string) ([]domain.CartEntry, error)
	PutCart(ctx context.Context, guestID string, entries []domain.CartEntry) error
	ClearCart(ctx context.Context, guestID string) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
}

// CartService keeps one keyed cart per owner. Mutations go to the
// store the owner resolves to: remote for authenticated users, guest
// store otherwise. Every mutation for a given owner is serialized
// through a per-owner lock, so a rapid second click waits for the
// first write instead of racing it; the reconcile step holds the same
// locks, which doubles as its in-progress guard.
type CartService struct {
	remoteRepo  RemoteCartRepository
	guestStore  GuestCartStore
	productRepo ProductRepository

	locks keyedLocks

	// last collection successfully read or written per owner, served
	// when a remote read fails
	snapMu    sync.RWMutex
	snapshots map[string][]domain.CartEntry

	now func() time.Time
}

func NewCartService(remoteRepo RemoteCartRepository, guestStore GuestCartStore, productRepo ProductRepository) *CartService {
	return &CartService{
		remoteRepo:  remoteRepo,
		guestStore:  guestStore,
		productRepo: productRepo,
		snapshots:   make(map[string][]domain.CartEntry),
		now:         time.Now,
	}
}

func ownerKey(owner domain.Owner) string {
	if owner.Authenticated() {
		return fmt.Sprintf("user:%d", owner.UserID)
	}
	return "guest:" + owner.GuestID
}

func (s *CartService) readCart(ctx context.Context, owner domain.Owner) ([]domain.CartEntry, error) {
	if owner.Authenticated() {
		return s.remoteRepo.GetCart(ctx, owner.UserID)
	}
	return s.guestStore.GetCart(ctx, owner.GuestID)
}

func (s *CartService) writeCart(ctx context.Context, owner domain.Owner, entries []domain.CartEntry) error {
	if owner.Authenticated() {
		return s.remoteRepo.ReplaceCart(ctx, owner.UserID, entries)
	}
	return s.guestStore.PutCart(ctx, owner.GuestID, entries)
}

func (s *CartService) saveSnapshot(owner domain.Owner, entries []domain.CartEntry) {
	s.snapMu.Lock()
	s.snapshots[ownerKey(owner)] = entries
	s.snapMu.Unlock()
}

func (s *CartService) snapshot(owner domain.Owner) []domain.CartEntry {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snapshots[ownerKey(owner)]
}

// Load returns the owner's current cart. It never fails fatally: when
// the store read errors the last known snapshot is returned instead.
func (s *CartService) Load(ctx context.Context, owner domain.Owner) ([]domain.CartEntry, error) {
	entries, err := s.readCart(ctx, owner)
	if err != nil {
		logger.Warn("cart read failed, serving cached snapshot", "owner", ownerKey(owner), "error", err)
		cached := s.snapshot(owner)
		if cached == nil {
			cached = []domain.CartEntry{}
		}
		return cached, nil
	}

	s.saveSnapshot(owner, entries)
	return entries, nil
}

// Add inserts a product or, if the product is already in the cart,
// increments its quantity. The unit price is captured from the catalog
// at add time and kept on later increments.
func (s *CartService) Add(ctx context.Context, owner domain.Owner, productID uint64, quantity int) ([]domain.CartEntry, error) {
	if productID == 0 {
		return nil, errors.New("invalid product id")
	}
	if quantity < 1 {
		return nil, errors.New("quantity must be at least 1")
	}

	unlock := s.locks.lock(ownerKey(owner))
	defer unlock()

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}

	entries, err := s.readCart(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	now := s.now()
	found := false
	for i := range entries {
		if entries[i].ProductID == productID {
			entries[i].Quantity += quantity
			entries[i].UpdatedAt = now
			found = true
			break
		}
	}
	if !found {
		entries = append(entries, domain.CartEntry{
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: product.EffectivePrice(),
			AddedAt:   now,
			UpdatedAt: now,
		})
	}

	if err := s.writeCart(ctx, owner, entries); err != nil {
		return nil, fmt.Errorf("failed to store cart: %w", err)
	}

	s.saveSnapshot(owner, entries)
	return entries, nil
}

// UpdateQuantity overwrites the quantity on an existing line. A value
// below 1 removes the line; a missing line is a no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, owner domain.Owner, productID uint64, newQuantity int) ([]domain.CartEntry, error) {
	if newQuantity < 1 {
		return s.Remove(ctx, owner, productID)
	}

	unlock := s.locks.lock(ownerKey(owner))
	defer unlock()

	entries, err := s.readCart(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	changed := false
	for i := range entries {
		if entries[i].ProductID == productID {
			entries[i].Quantity = newQuantity
			entries[i].UpdatedAt = s.now()
			changed = true
			break
		}
	}
	if !changed {
		return entries, nil
	}

	if err := s.writeCart(ctx, owner, entries); err != nil {
		return nil, fmt.Errorf("failed to store cart: %w", err)
	}

	s.saveSnapshot(owner, entries)
	return entries, nil
}

func (s *CartService) Remove(ctx context.Context, owner domain.Owner, productID uint64) ([]domain.CartEntry, error) {
	return s.RemoveMany(ctx, owner, []uint64{productID})
}

// RemoveMany deletes the matching lines; absent products are not an
// error.
func (s *CartService) RemoveMany(ctx context.Context, owner domain.Owner, productIDs []uint64) ([]domain.CartEntry, error) {
	unlock := s.locks.lock(ownerKey(owner))
	defer unlock()

	entries, err := s.readCart(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	drop := make(map[uint64]struct{}, len(productIDs))
	for _, id := range productIDs {
		drop[id] = struct{}{}
	}

	kept := entries[:0]
	for _, e := range entries {
		if _, ok := drop[e.ProductID]; !ok {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return entries, nil
	}

	if err := s.writeCart(ctx, owner, kept); err != nil {
		return nil, fmt.Errorf("failed to store cart: %w", err)
	}

	s.saveSnapshot(owner, kept)
	return kept, nil
}

func (s *CartService) Clear(ctx context.Context, owner domain.Owner) error {
	unlock := s.locks.lock(ownerKey(owner))
	defer unlock()

	var err error
	if owner.Authenticated() {
		err = s.remoteRepo.ClearCart(ctx, owner.UserID)
	} else {
		err = s.guestStore.ClearCart(ctx, owner.GuestID)
	}
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	s.saveSnapshot(owner, []domain.CartEntry{})
	return nil
}

// ReconcileOnLogin folds the guest cart into the user's remote cart,
// once, at the login transition. Quantities for shared products sum;
// the unit price follows the more recently updated line; guest-only
// lines are inserted; remote-only lines stay untouched. The guest
// cart is cleared afterwards even when persisting the merge failed, so
// a retry of the login flow cannot double-merge.
func (s *CartService) ReconcileOnLogin(ctx context.Context, guestID string, userID uint) error {
	if guestID == "" || userID == 0 {
		return errors.New("reconcile requires a guest id and a user id")
	}

	unlock := s.locks.lockPair("guest:"+guestID, fmt.Sprintf("user:%d", userID))
	defer unlock()

	guestEntries, err := s.guestStore.GetCart(ctx, guestID)
	if err != nil {
		return fmt.Errorf("failed to read guest cart: %w", err)
	}

	// idempotency guard: an already-consumed guest cart reads empty
	if len(guestEntries) == 0 {
		return nil
	}

	remoteEntries, err := s.remoteRepo.GetCart(ctx, userID)
	if err != nil {
		metrics.CartReconcileTotal.WithLabelValues(domain.CollectionCart, "failure").Inc()
		return fmt.Errorf("failed to read remote cart: %w", err)
	}

	merged := MergeCartEntries(guestEntries, remoteEntries)

	writeErr := s.remoteRepo.ReplaceCart(ctx, userID, merged)
	if writeErr != nil {
		logger.Error("cart reconcile write failed, guest cart dropped", "user_id", userID, "error", writeErr)
	}

	// cleared unconditionally, even on write failure
	if err := s.guestStore.ClearCart(ctx, guestID); err != nil {
		logger.Warn("failed to clear guest cart after reconcile", "guest_id", guestID, "error", err)
	}

	if writeErr != nil {
		metrics.CartReconcileTotal.WithLabelValues(domain.CollectionCart, "failure").Inc()
		return fmt.Errorf("failed to store merged cart: %w", writeErr)
	}

	s.saveSnapshot(domain.Owner{UserID: userID}, merged)
	metrics.CartReconcileTotal.WithLabelValues(domain.CollectionCart, "success").Inc()
	return nil
}

// MergeCartEntries combines a guest cart with a remote cart. Shared
// product IDs sum their quantities and keep the unit price of the
// more recently updated line. Output order is remote lines first, then
// guest-only lines by product ID, so the result is deterministic.
func MergeCartEntries(guest, remote []domain.CartEntry) []domain.CartEntry {
	merged := make([]domain.CartEntry, len(remote))
	copy(merged, remote)

	index := make(map[uint64]int, len(merged))
	for i, e := range merged {
		index[e.ProductID] = i
	}

	var guestOnly []domain.CartEntry
	for _, g := range guest {
		i, ok := index[g.ProductID]
		if !ok {
			guestOnly = append(guestOnly, g)
			continue
		}

		merged[i].Quantity += g.Quantity
		if g.UpdatedAt.After(merged[i].UpdatedAt) {
			merged[i].UnitPrice = g.UnitPrice
			merged[i].UpdatedAt = g.UpdatedAt
		}
		if g.AddedAt.Before(merged[i].AddedAt) {
			merged[i].AddedAt = g.AddedAt
		}
	}

	sort.Slice(guestOnly, func(i, j int) bool {
		return guestOnly[i].ProductID < guestOnly[j].ProductID
	})

	return append(merged, guestOnly...)
}
