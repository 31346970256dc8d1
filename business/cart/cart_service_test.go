//go:build !integration

package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"golfProShop/domain"
)

type fakeRemoteCart struct {
	carts    map[uint][]domain.CartEntry
	failGet  bool
	failPut  bool
	putCalls int
}

func newFakeRemoteCart() *fakeRemoteCart {
	return &fakeRemoteCart{carts: make(map[uint][]domain.CartEntry)}
}

func (f *fakeRemoteCart) GetCart(ctx context.Context, userID uint) ([]domain.CartEntry, error) {
	if f.failGet {
		return nil, errors.New("db down")
	}
	return append([]domain.CartEntry(nil), f.carts[userID]...), nil
}

func (f *fakeRemoteCart) ReplaceCart(ctx context.Context, userID uint, entries []domain.CartEntry) error {
	f.putCalls++
	if f.failPut {
		return errors.New("db down")
	}
	f.carts[userID] = append([]domain.CartEntry(nil), entries...)
	return nil
}

func (f *fakeRemoteCart) ClearCart(ctx context.Context, userID uint) error {
	delete(f.carts, userID)
	return nil
}

type fakeGuestCart struct {
	carts   map[string][]domain.CartEntry
	failGet bool
}

func newFakeGuestCart() *fakeGuestCart {
	return &fakeGuestCart{carts: make(map[string][]domain.CartEntry)}
}

func (f *fakeGuestCart) GetCart(ctx context.Context, guestID string) ([]domain.CartEntry, error) {
	if f.failGet {
		return nil, errors.New("redis down")
	}
	return append([]domain.CartEntry(nil), f.carts[guestID]...), nil
}

func (f *fakeGuestCart) PutCart(ctx context.Context, guestID string, entries []domain.CartEntry) error {
	f.carts[guestID] = append([]domain.CartEntry(nil), entries...)
	return nil
}

func (f *fakeGuestCart) ClearCart(ctx context.Context, guestID string) error {
	delete(f.carts, guestID)
	return nil
}

type fakeProducts struct {
	products map[uint64]domain.Product
}

func (f *fakeProducts) FindByID(ctx context.Context, id uint64) (domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, errors.New("product not found")
	}
	return p, nil
}

func newService() (*CartService, *fakeRemoteCart, *fakeGuestCart) {
	remote := newFakeRemoteCart()
	guest := newFakeGuestCart()
	products := &fakeProducts{products: map[uint64]domain.Product{
		1: {ID: 1, ProductName: "TX-500 Driver", NormalPrice: 499.99},
		2: {ID: 2, ProductName: "Forged Iron Set", NormalPrice: 1099, SalePrice: 899},
		3: {ID: 3, ProductName: "Tour Balls", NormalPrice: 49.99},
	}}
	return NewCartService(remote, guest, products), remote, guest
}

func TestAddIncrementsExistingLine(t *testing.T) {
	svc, _, _ := newService()
	owner := domain.Owner{GuestID: "g1"}
	ctx := context.Background()

	if _, err := svc.Add(ctx, owner, 1, 1); err != nil {
		t.Fatalf("first add: %v", err)
	}
	entries, err := svc.Add(ctx, owner, 1, 2)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 line, got %d", len(entries))
	}
	if entries[0].Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", entries[0].Quantity)
	}
	if entries[0].UnitPrice != 499.99 {
		t.Errorf("expected price 499.99, got %v", entries[0].UnitPrice)
	}
}

func TestAddCapturesSalePrice(t *testing.T) {
	svc, _, _ := newService()
	owner := domain.Owner{UserID: 7}

	entries, err := svc.Add(context.Background(), owner, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].UnitPrice != 899 {
		t.Errorf("expected sale price 899, got %v", entries[0].UnitPrice)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	svc, _, _ := newService()
	owner := domain.Owner{GuestID: "g1"}

	if _, err := svc.Add(context.Background(), owner, 0, 1); err == nil {
		t.Error("expected error for product id 0")
	}
	if _, err := svc.Add(context.Background(), owner, 1, 0); err == nil {
		t.Error("expected error for quantity 0")
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	svc, _, _ := newService()
	owner := domain.Owner{GuestID: "g1"}
	ctx := context.Background()

	if _, err := svc.Add(ctx, owner, 1, 2); err != nil {
		t.Fatal(err)
	}
	entries, err := svc.UpdateQuantity(ctx, owner, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty cart, got %d lines", len(entries))
	}
}

func TestRemoveMissingLineIsNoop(t *testing.T) {
	svc, _, _ := newService()
	owner := domain.Owner{GuestID: "g1"}
	ctx := context.Background()

	if _, err := svc.Add(ctx, owner, 1, 1); err != nil {
		t.Fatal(err)
	}
	entries, err := svc.Remove(ctx, owner, 99)
	if err != nil {
		t.Fatalf("removing an absent line should not fail: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 line, got %d", len(entries))
	}
}

func TestLoadServesSnapshotOnReadFailure(t *testing.T) {
	svc, remote, _ := newService()
	owner := domain.Owner{UserID: 5}
	ctx := context.Background()

	if _, err := svc.Add(ctx, owner, 1, 2); err != nil {
		t.Fatal(err)
	}

	remote.failGet = true
	entries, err := svc.Load(ctx, owner)
	if err != nil {
		t.Fatalf("load should degrade, not fail: %v", err)
	}
	if len(entries) != 1 || entries[0].Quantity != 2 {
		t.Errorf("expected cached snapshot with 1 line qty 2, got %+v", entries)
	}
}

func TestReconcileSumsQuantities(t *testing.T) {
	svc, remote, guest := newService()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	guest.carts["g1"] = []domain.CartEntry{
		{ProductID: 1, Quantity: 2, UnitPrice: 499.99, AddedAt: base, UpdatedAt: base.Add(time.Hour)},
		{ProductID: 3, Quantity: 1, UnitPrice: 49.99, AddedAt: base, UpdatedAt: base},
	}
	remote.carts[9] = []domain.CartEntry{
		{ProductID: 1, Quantity: 1, UnitPrice: 450, AddedAt: base.Add(-time.Hour), UpdatedAt: base},
		{ProductID: 2, Quantity: 1, UnitPrice: 899, AddedAt: base, UpdatedAt: base},
	}

	if err := svc.ReconcileOnLogin(ctx, "g1", 9); err != nil {
		t.Fatal(err)
	}

	merged := remote.carts[9]
	if len(merged) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(merged))
	}

	byID := make(map[uint64]domain.CartEntry)
	for _, e := range merged {
		if _, dup := byID[e.ProductID]; dup {
			t.Fatalf("duplicate product %d after merge", e.ProductID)
		}
		byID[e.ProductID] = e
	}

	if byID[1].Quantity != 3 {
		t.Errorf("expected summed quantity 3, got %d", byID[1].Quantity)
	}
	// guest line was updated later, its price wins
	if byID[1].UnitPrice != 499.99 {
		t.Errorf("expected newer price 499.99, got %v", byID[1].UnitPrice)
	}
	if byID[2].Quantity != 1 || byID[3].Quantity != 1 {
		t.Errorf("unexpected quantities: %+v", byID)
	}

	if len(guest.carts["g1"]) != 0 {
		t.Error("guest cart should be cleared after reconcile")
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	svc, remote, guest := newService()
	ctx := context.Background()

	now := time.Now()
	guest.carts["g1"] = []domain.CartEntry{
		{ProductID: 1, Quantity: 2, UnitPrice: 499.99, AddedAt: now, UpdatedAt: now},
	}

	if err := svc.ReconcileOnLogin(ctx, "g1", 9); err != nil {
		t.Fatal(err)
	}
	// replay of the login flow: guest cart is already consumed
	if err := svc.ReconcileOnLogin(ctx, "g1", 9); err != nil {
		t.Fatal(err)
	}

	if got := remote.carts[9][0].Quantity; got != 2 {
		t.Errorf("double merge detected: quantity %d, want 2", got)
	}
	if remote.putCalls != 1 {
		t.Errorf("expected exactly 1 remote write, got %d", remote.putCalls)
	}
}

func TestReconcileClearsGuestEvenOnWriteFailure(t *testing.T) {
	svc, remote, guest := newService()
	ctx := context.Background()

	now := time.Now()
	guest.carts["g1"] = []domain.CartEntry{
		{ProductID: 1, Quantity: 2, UnitPrice: 499.99, AddedAt: now, UpdatedAt: now},
	}
	remote.failPut = true

	if err := svc.ReconcileOnLogin(ctx, "g1", 9); err == nil {
		t.Fatal("expected reconcile error on write failure")
	}

	if len(guest.carts["g1"]) != 0 {
		t.Error("guest cart must be cleared even when the remote write fails")
	}
}

func TestReconcileRequiresBothIDs(t *testing.T) {
	svc, _, _ := newService()

	if err := svc.ReconcileOnLogin(context.Background(), "", 9); err == nil {
		t.Error("expected error for empty guest id")
	}
	if err := svc.ReconcileOnLogin(context.Background(), "g1", 0); err == nil {
		t.Error("expected error for zero user id")
	}
}

func TestMergeCartEntriesOrderDeterministic(t *testing.T) {
	now := time.Now()
	guest := []domain.CartEntry{
		{ProductID: 9, Quantity: 1, AddedAt: now, UpdatedAt: now},
		{ProductID: 4, Quantity: 1, AddedAt: now, UpdatedAt: now},
	}
	remote := []domain.CartEntry{
		{ProductID: 7, Quantity: 1, AddedAt: now, UpdatedAt: now},
	}

	merged := MergeCartEntries(guest, remote)
	want := []uint64{7, 4, 9}
	if len(merged) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(merged))
	}
	for i, id := range want {
		if merged[i].ProductID != id {
			t.Errorf("position %d: expected product %d, got %d", i, id, merged[i].ProductID)
		}
	}
}

func TestMergeCartEntriesKeepsEarliestAddedAt(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)

	guest := []domain.CartEntry{{ProductID: 1, Quantity: 1, UnitPrice: 10, AddedAt: early, UpdatedAt: early}}
	remote := []domain.CartEntry{{ProductID: 1, Quantity: 1, UnitPrice: 12, AddedAt: late, UpdatedAt: late}}

	merged := MergeCartEntries(guest, remote)
	if !merged[0].AddedAt.Equal(early) {
		t.Errorf("expected earliest added_at kept, got %v", merged[0].AddedAt)
	}
	// remote updated later, remote price wins
	if merged[0].UnitPrice != 12 {
		t.Errorf("expected price 12, got %v", merged[0].UnitPrice)
	}
}
