package collections

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

// RemotePresenceRepository is the authenticated side of wishlist and
// recently-viewed collections.
type RemotePresenceRepository interface {
	GetPresence(ctx context.Context, userID uint, kind string) ([]domain.PresenceEntry, error)
	ReplacePresence(ctx context.Context, userID uint, kind string, entries []domain.PresenceEntry) error
	ClearPresence(ctx context.Context, userID uint, kind string) error
}

// GuestPresenceStore is the guest side, keyed by the cookie guest ID.
type GuestPresenceStore interface {
	GetPresence(ctx context.Context, guestID, kind string) ([]domain.PresenceEntry, error)
	PutPresence(ctx context.Context, guestID, kind string, entries []domain.PresenceEntry) error
	ClearPresence(ctx context.Context, guestID, kind string) error
}

// Service maintains the presence-only collections: wishlist (unbounded
// set) and recently-viewed (capped, most-recent-first, a repeat view
// moves the product to the front). Mutations per owner+kind are
// serialized the same way the cart service serializes carts.
type Service struct {
	remoteRepo RemotePresenceRepository
	guestStore GuestPresenceStore

	recentCap int

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	// last collection successfully read or written per owner+kind,
	// served when a read fails
	snapMu    sync.RWMutex
	snapshots map[string][]domain.PresenceEntry

	now func() time.Time
}

func NewService(remoteRepo RemotePresenceRepository, guestStore GuestPresenceStore, recentCap int) *Service {
	if recentCap <= 0 {
		recentCap = 20
	}
	return &Service{
		remoteRepo: remoteRepo,
		guestStore: guestStore,
		recentCap:  recentCap,
		locks:      make(map[string]*sync.Mutex),
		snapshots:  make(map[string][]domain.PresenceEntry),
		now:        time.Now,
	}
}

func validKind(kind string) bool {
	return kind == domain.CollectionWishlist || kind == domain.CollectionRecentlyViewed
}

func (s *Service) getLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func (s *Service) lock(key string) func() {
	l := s.getLock(key)
	l.Lock()
	return l.Unlock
}

// lockPair acquires two owner locks in a fixed order so reconcile
// cannot deadlock against a concurrent mutation.
func (s *Service) lockPair(a, b string) func() {
	if b < a {
		a, b = b, a
	}

	la := s.getLock(a)
	lb := s.getLock(b)
	la.Lock()
	lb.Lock()
	return func() {
		lb.Unlock()
		la.Unlock()
	}
}

func lockKey(kind string, owner domain.Owner) string {
	if owner.Authenticated() {
		return fmt.Sprintf("%s|user:%d", kind, owner.UserID)
	}
	return kind + "|guest:" + owner.GuestID
}

func (s *Service) read(ctx context.Context, owner domain.Owner, kind string) ([]domain.PresenceEntry, error) {
	if owner.Authenticated() {
		return s.remoteRepo.GetPresence(ctx, owner.UserID, kind)
	}
	return s.guestStore.GetPresence(ctx, owner.GuestID, kind)
}

func (s *Service) write(ctx context.Context, owner domain.Owner, kind string, entries []domain.PresenceEntry) error {
	if owner.Authenticated() {
		return s.remoteRepo.ReplacePresence(ctx, owner.UserID, kind, entries)
	}
	return s.guestStore.PutPresence(ctx, owner.GuestID, kind, entries)
}

func (s *Service) saveSnapshot(owner domain.Owner, kind string, entries []domain.PresenceEntry) {
	s.snapMu.Lock()
	s.snapshots[lockKey(kind, owner)] = entries
	s.snapMu.Unlock()
}

func (s *Service) snapshot(owner domain.Owner, kind string) []domain.PresenceEntry {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snapshots[lockKey(kind, owner)]
}

// Load returns the collection most-recent-first. It never fails
// fatally: when the store read errors the last known snapshot is
// returned instead.
func (s *Service) Load(ctx context.Context, owner domain.Owner, kind string) ([]domain.PresenceEntry, error) {
	if !validKind(kind) {
		return nil, errors.New("unknown collection kind: " + kind)
	}

	entries, err := s.read(ctx, owner, kind)
	if err != nil {
		logger.Warn("presence read failed, serving cached snapshot", "kind", kind, "error", err)
		cached := s.snapshot(owner, kind)
		if cached == nil {
			cached = []domain.PresenceEntry{}
		}
		return cached, nil
	}

	sortRecentFirst(entries)
	s.saveSnapshot(owner, kind, entries)
	return entries, nil
}

// Add records a product. Wishlist adds are a no-op when the product is
// already present; recently-viewed re-views move the product to the
// front and the cap evicts the oldest entries.
func (s *Service) Add(ctx context.Context, owner domain.Owner, kind string, productID uint64) ([]domain.PresenceEntry, error) {
	if !validKind(kind) {
		return nil, errors.New("unknown collection kind: " + kind)
	}
	if productID == 0 {
		return nil, errors.New("invalid product id")
	}

	unlock := s.lock(lockKey(kind, owner))
	defer unlock()

	entries, err := s.read(ctx, owner, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}

	now := s.now()
	switch kind {
	case domain.CollectionWishlist:
		for _, e := range entries {
			if e.ProductID == productID {
				sortRecentFirst(entries)
				return entries, nil
			}
		}
		entries = append(entries, domain.PresenceEntry{ProductID: productID, SeenAt: now})
	case domain.CollectionRecentlyViewed:
		entries = insertRecentlyViewed(entries, productID, now, s.recentCap)
	}

	if err := s.write(ctx, owner, kind, entries); err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", kind, err)
	}

	sortRecentFirst(entries)
	s.saveSnapshot(owner, kind, entries)
	return entries, nil
}

// Remove deletes the product if present; absence is not an error.
func (s *Service) Remove(ctx context.Context, owner domain.Owner, kind string, productID uint64) ([]domain.PresenceEntry, error) {
	if !validKind(kind) {
		return nil, errors.New("unknown collection kind: " + kind)
	}

	unlock := s.lock(lockKey(kind, owner))
	defer unlock()

	entries, err := s.read(ctx, owner, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.ProductID != productID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		sortRecentFirst(entries)
		return entries, nil
	}

	if err := s.write(ctx, owner, kind, kept); err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", kind, err)
	}

	sortRecentFirst(kept)
	s.saveSnapshot(owner, kind, kept)
	return kept, nil
}

// RemoveMany deletes every listed product in one write; products not
// present are skipped.
func (s *Service) RemoveMany(ctx context.Context, owner domain.Owner, kind string, productIDs []uint64) ([]domain.PresenceEntry, error) {
	if !validKind(kind) {
		return nil, errors.New("unknown collection kind: " + kind)
	}
	if len(productIDs) == 0 {
		return nil, errors.New("no product ids given")
	}

	unlock := s.lock(lockKey(kind, owner))
	defer unlock()

	entries, err := s.read(ctx, owner, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}

	drop := make(map[uint64]bool, len(productIDs))
	for _, pid := range productIDs {
		drop[pid] = true
	}

	kept := entries[:0]
	for _, e := range entries {
		if !drop[e.ProductID] {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		sortRecentFirst(entries)
		return entries, nil
	}

	if err := s.write(ctx, owner, kind, kept); err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", kind, err)
	}

	sortRecentFirst(kept)
	s.saveSnapshot(owner, kind, kept)
	return kept, nil
}

func (s *Service) Clear(ctx context.Context, owner domain.Owner, kind string) error {
	if !validKind(kind) {
		return errors.New("unknown collection kind: " + kind)
	}

	unlock := s.lock(lockKey(kind, owner))
	defer unlock()

	var err error
	if owner.Authenticated() {
		err = s.remoteRepo.ClearPresence(ctx, owner.UserID, kind)
	} else {
		err = s.guestStore.ClearPresence(ctx, owner.GuestID, kind)
	}
	if err != nil {
		return fmt.Errorf("failed to clear %s: %w", kind, err)
	}

	s.saveSnapshot(owner, kind, []domain.PresenceEntry{})
	return nil
}

// kindReconciler binds one collection kind so login code can run all
// reconcilers through the same interface as the cart.
type kindReconciler struct {
	service *Service
	kind    string
}

func (r kindReconciler) ReconcileOnLogin(ctx context.Context, guestID string, userID uint) error {
	return r.service.ReconcileOnLogin(ctx, r.kind, guestID, userID)
}

// Reconciler returns the login-time merge hook for one kind.
func (s *Service) Reconciler(kind string) kindReconciler {
	return kindReconciler{service: s, kind: kind}
}

// ReconcileOnLogin unions the guest collection into the user's remote
// collection, keeping the most recent timestamp per product, then
// re-applies the recently-viewed cap. The guest collection is cleared
// unconditionally so a login retry cannot merge twice.
func (s *Service) ReconcileOnLogin(ctx context.Context, kind, guestID string, userID uint) error {
	if !validKind(kind) {
		return errors.New("unknown collection kind: " + kind)
	}
	if guestID == "" || userID == 0 {
		return errors.New("reconcile requires a guest id and a user id")
	}

	// both sides must be held so a concurrent guest mutation cannot
	// land between the read and the clear and disappear
	unlock := s.lockPair(
		lockKey(kind, domain.Owner{GuestID: guestID}),
		lockKey(kind, domain.Owner{UserID: userID}),
	)
	defer unlock()

	guestEntries, err := s.guestStore.GetPresence(ctx, guestID, kind)
	if err != nil {
		return fmt.Errorf("failed to read guest %s: %w", kind, err)
	}
	if len(guestEntries) == 0 {
		return nil
	}

	remoteEntries, err := s.remoteRepo.GetPresence(ctx, userID, kind)
	if err != nil {
		metrics.CartReconcileTotal.WithLabelValues(kind, "failure").Inc()
		return fmt.Errorf("failed to read remote %s: %w", kind, err)
	}

	merged := MergePresenceEntries(guestEntries, remoteEntries)
	if kind == domain.CollectionRecentlyViewed {
		merged = capRecentFirst(merged, s.recentCap)
	}

	writeErr := s.remoteRepo.ReplacePresence(ctx, userID, kind, merged)
	if writeErr != nil {
		logger.Error("presence reconcile write failed, guest entries dropped",
			"kind", kind, "user_id", userID, "error", writeErr)
	}

	if err := s.guestStore.ClearPresence(ctx, guestID, kind); err != nil {
		logger.Warn("failed to clear guest collection after reconcile", "kind", kind, "error", err)
	}

	if writeErr != nil {
		metrics.CartReconcileTotal.WithLabelValues(kind, "failure").Inc()
		return fmt.Errorf("failed to store merged %s: %w", kind, writeErr)
	}

	s.saveSnapshot(domain.Owner{UserID: userID}, kind, merged)
	metrics.CartReconcileTotal.WithLabelValues(kind, "success").Inc()
	return nil
}

// MergePresenceEntries is a set union keyed by product ID; the most
// recent timestamp wins. Result is most-recent-first.
func MergePresenceEntries(guest, remote []domain.PresenceEntry) []domain.PresenceEntry {
	latest := make(map[uint64]time.Time, len(guest)+len(remote))
	for _, e := range remote {
		latest[e.ProductID] = e.SeenAt
	}
	for _, e := range guest {
		if cur, ok := latest[e.ProductID]; !ok || e.SeenAt.After(cur) {
			latest[e.ProductID] = e.SeenAt
		}
	}

	merged := make([]domain.PresenceEntry, 0, len(latest))
	for pid, seenAt := range latest {
		merged = append(merged, domain.PresenceEntry{ProductID: pid, SeenAt: seenAt})
	}

	sortRecentFirst(merged)
	return merged
}

// insertRecentlyViewed moves a repeat view to the front without
// duplicating, then drops the oldest entries past the cap.
func insertRecentlyViewed(entries []domain.PresenceEntry, productID uint64, now time.Time, limit int) []domain.PresenceEntry {
	kept := entries[:0]
	for _, e := range entries {
		if e.ProductID != productID {
			kept = append(kept, e)
		}
	}

	kept = append(kept, domain.PresenceEntry{ProductID: productID, SeenAt: now})
	return capRecentFirst(kept, limit)
}

func capRecentFirst(entries []domain.PresenceEntry, limit int) []domain.PresenceEntry {
	sortRecentFirst(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func sortRecentFirst(entries []domain.PresenceEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].SeenAt.Equal(entries[j].SeenAt) {
			return entries[i].ProductID < entries[j].ProductID
		}
		return entries[i].SeenAt.After(entries[j].SeenAt)
	})
}
