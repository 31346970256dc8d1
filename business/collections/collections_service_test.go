//go:build !integration

package collections

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golfProShop/domain"
)

type fakeRemotePresence struct {
	data map[string][]domain.PresenceEntry
}

func newFakeRemotePresence() *fakeRemotePresence {
	return &fakeRemotePresence{data: make(map[string][]domain.PresenceEntry)}
}

func remoteKey(userID uint, kind string) string {
	return fmt.Sprintf("%d/%s", userID, kind)
}

func (f *fakeRemotePresence) GetPresence(ctx context.Context, userID uint, kind string) ([]domain.PresenceEntry, error) {
	return append([]domain.PresenceEntry(nil), f.data[remoteKey(userID, kind)]...), nil
}

func (f *fakeRemotePresence) ReplacePresence(ctx context.Context, userID uint, kind string, entries []domain.PresenceEntry) error {
	f.data[remoteKey(userID, kind)] = append([]domain.PresenceEntry(nil), entries...)
	return nil
}

func (f *fakeRemotePresence) ClearPresence(ctx context.Context, userID uint, kind string) error {
	delete(f.data, remoteKey(userID, kind))
	return nil
}

type fakeGuestPresence struct {
	data    map[string][]domain.PresenceEntry
	failGet bool

	// when set, GetPresence announces itself and waits, so a test can
	// hold a reader mid-flight
	getEntered chan struct{}
	getRelease chan struct{}
}

func newFakeGuestPresence() *fakeGuestPresence {
	return &fakeGuestPresence{data: make(map[string][]domain.PresenceEntry)}
}

func (f *fakeGuestPresence) GetPresence(ctx context.Context, guestID, kind string) ([]domain.PresenceEntry, error) {
	if f.failGet {
		return nil, errors.New("redis down")
	}
	if f.getEntered != nil {
		f.getEntered <- struct{}{}
		<-f.getRelease
	}
	return append([]domain.PresenceEntry(nil), f.data[guestID+"/"+kind]...), nil
}

func (f *fakeGuestPresence) PutPresence(ctx context.Context, guestID, kind string, entries []domain.PresenceEntry) error {
	f.data[guestID+"/"+kind] = append([]domain.PresenceEntry(nil), entries...)
	return nil
}

func (f *fakeGuestPresence) ClearPresence(ctx context.Context, guestID, kind string) error {
	delete(f.data, guestID+"/"+kind)
	return nil
}

func newTestService(recentCap int) (*Service, *fakeRemotePresence, *fakeGuestPresence) {
	remote := newFakeRemotePresence()
	guest := newFakeGuestPresence()
	svc := NewService(remote, guest, recentCap)
	return svc, remote, guest
}

func TestWishlistAddIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService(20)
	owner := domain.Owner{GuestID: "g1"}
	ctx := context.Background()

	if _, err := svc.Add(ctx, owner, domain.CollectionWishlist, 1); err != nil {
		t.Fatal(err)
	}
	entries, err := svc.Add(ctx, owner, domain.CollectionWishlist, 1)
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 1 {
		t.Errorf("expected 1 entry after duplicate add, got %d", len(entries))
	}
}

func TestRecentlyViewedCapEvictsOldest(t *testing.T) {
	svc, _, _ := newTestService(3)
	owner := domain.Owner{UserID: 4}
	ctx := context.Background()

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	for pid := uint64(1); pid <= 4; pid++ {
		if _, err := svc.Add(ctx, owner, domain.CollectionRecentlyViewed, pid); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := svc.Load(ctx, owner, domain.CollectionRecentlyViewed)
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected cap of 3, got %d entries", len(entries))
	}
	want := []uint64{4, 3, 2}
	for i, id := range want {
		if entries[i].ProductID != id {
			t.Errorf("position %d: expected product %d, got %d", i, id, entries[i].ProductID)
		}
	}
}

func TestRecentlyViewedRepeatMovesToFront(t *testing.T) {
	svc, _, _ := newTestService(10)
	owner := domain.Owner{GuestID: "g1"}
	ctx := context.Background()

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	for _, pid := range []uint64{1, 2, 3, 1} {
		if _, err := svc.Add(ctx, owner, domain.CollectionRecentlyViewed, pid); err != nil {
			t.Fatal(err)
		}
	}

	entries, _ := svc.Load(ctx, owner, domain.CollectionRecentlyViewed)
	if len(entries) != 3 {
		t.Fatalf("expected 3 distinct entries, got %d", len(entries))
	}
	if entries[0].ProductID != 1 {
		t.Errorf("expected re-viewed product 1 at front, got %d", entries[0].ProductID)
	}
}

func TestAddRejectsUnknownKind(t *testing.T) {
	svc, _, _ := newTestService(20)

	if _, err := svc.Add(context.Background(), domain.Owner{GuestID: "g1"}, "bookmarks", 1); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestLoadServesSnapshotOnReadFailure(t *testing.T) {
	svc, _, guest := newTestService(20)
	owner := domain.Owner{GuestID: "g1"}
	ctx := context.Background()

	if _, err := svc.Add(ctx, owner, domain.CollectionWishlist, 7); err != nil {
		t.Fatal(err)
	}

	guest.failGet = true

	entries, err := svc.Load(ctx, owner, domain.CollectionWishlist)
	if err != nil {
		t.Fatalf("load should degrade, not fail: %v", err)
	}
	if len(entries) != 1 || entries[0].ProductID != 7 {
		t.Fatalf("expected the last known snapshot, got %v", entries)
	}
}

func TestLoadDegradesToEmptyWithoutSnapshot(t *testing.T) {
	svc, _, guest := newTestService(20)
	guest.failGet = true

	entries, err := svc.Load(context.Background(), domain.Owner{GuestID: "g1"}, domain.CollectionWishlist)
	if err != nil {
		t.Fatalf("load should degrade, not fail: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty list, got %d entries", len(entries))
	}
}

func TestRemoveManyDropsListedProducts(t *testing.T) {
	svc, _, _ := newTestService(20)
	owner := domain.Owner{UserID: 4}
	ctx := context.Background()

	for _, pid := range []uint64{1, 2, 3} {
		if _, err := svc.Add(ctx, owner, domain.CollectionWishlist, pid); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := svc.RemoveMany(ctx, owner, domain.CollectionWishlist, []uint64{1, 3, 99})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ProductID != 2 {
		t.Fatalf("expected only product 2 to remain, got %v", entries)
	}

	if _, err := svc.RemoveMany(ctx, owner, domain.CollectionWishlist, nil); err == nil {
		t.Error("expected error for an empty product list")
	}
}

func TestReconcileUnionsAndKeepsLatestSeenAt(t *testing.T) {
	svc, remote, guest := newTestService(20)
	ctx := context.Background()

	early := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	guest.data["g1/"+domain.CollectionWishlist] = []domain.PresenceEntry{
		{ProductID: 1, SeenAt: late},
		{ProductID: 2, SeenAt: early},
	}
	remote.data[remoteKey(8, domain.CollectionWishlist)] = []domain.PresenceEntry{
		{ProductID: 1, SeenAt: early},
		{ProductID: 3, SeenAt: early},
	}

	if err := svc.ReconcileOnLogin(ctx, domain.CollectionWishlist, "g1", 8); err != nil {
		t.Fatal(err)
	}

	merged := remote.data[remoteKey(8, domain.CollectionWishlist)]
	if len(merged) != 3 {
		t.Fatalf("expected union of 3, got %d", len(merged))
	}

	for _, e := range merged {
		if e.ProductID == 1 && !e.SeenAt.Equal(late) {
			t.Errorf("expected latest seen_at for shared product, got %v", e.SeenAt)
		}
	}

	if len(guest.data["g1/"+domain.CollectionWishlist]) != 0 {
		t.Error("guest collection should be cleared after reconcile")
	}
}

func TestReconcileReappliesRecentCap(t *testing.T) {
	svc, remote, guest := newTestService(3)
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	guest.data["g1/"+domain.CollectionRecentlyViewed] = []domain.PresenceEntry{
		{ProductID: 1, SeenAt: base.Add(4 * time.Minute)},
		{ProductID: 2, SeenAt: base.Add(3 * time.Minute)},
	}
	remote.data[remoteKey(8, domain.CollectionRecentlyViewed)] = []domain.PresenceEntry{
		{ProductID: 3, SeenAt: base.Add(2 * time.Minute)},
		{ProductID: 4, SeenAt: base.Add(time.Minute)},
		{ProductID: 5, SeenAt: base},
	}

	if err := svc.ReconcileOnLogin(ctx, domain.CollectionRecentlyViewed, "g1", 8); err != nil {
		t.Fatal(err)
	}

	merged := remote.data[remoteKey(8, domain.CollectionRecentlyViewed)]
	if len(merged) != 3 {
		t.Fatalf("expected cap 3 after reconcile, got %d", len(merged))
	}
	want := []uint64{1, 2, 3}
	for i, id := range want {
		if merged[i].ProductID != id {
			t.Errorf("position %d: expected product %d, got %d", i, id, merged[i].ProductID)
		}
	}
}

func TestReconcileHoldsGuestSideAgainstConcurrentAdd(t *testing.T) {
	svc, remote, guest := newTestService(20)
	ctx := context.Background()

	guest.data["g1/"+domain.CollectionWishlist] = []domain.PresenceEntry{
		{ProductID: 1, SeenAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	guest.getEntered = make(chan struct{}, 2)
	guest.getRelease = make(chan struct{})

	reconcileDone := make(chan error, 1)
	go func() {
		reconcileDone <- svc.ReconcileOnLogin(ctx, domain.CollectionWishlist, "g1", 8)
	}()
	<-guest.getEntered

	addDone := make(chan error, 1)
	go func() {
		_, err := svc.Add(ctx, domain.Owner{GuestID: "g1"}, domain.CollectionWishlist, 2)
		addDone <- err
	}()

	select {
	case <-addDone:
		t.Fatal("add should block while the guest side is being reconciled")
	case <-time.After(50 * time.Millisecond):
	}

	close(guest.getRelease)
	if err := <-reconcileDone; err != nil {
		t.Fatal(err)
	}
	if err := <-addDone; err != nil {
		t.Fatal(err)
	}

	merged := remote.data[remoteKey(8, domain.CollectionWishlist)]
	if len(merged) != 1 || merged[0].ProductID != 1 {
		t.Fatalf("expected remote to hold the reconciled product, got %v", merged)
	}

	// the add that waited out the reconcile must land on the guest
	// side, not vanish with the cleared guest list
	left := guest.data["g1/"+domain.CollectionWishlist]
	if len(left) != 1 || left[0].ProductID != 2 {
		t.Fatalf("expected the concurrent add to survive, got %v", left)
	}
}

func TestReconcileEmptyGuestIsNoop(t *testing.T) {
	svc, remote, _ := newTestService(20)

	remote.data[remoteKey(8, domain.CollectionWishlist)] = []domain.PresenceEntry{
		{ProductID: 1, SeenAt: time.Now()},
	}

	if err := svc.ReconcileOnLogin(context.Background(), domain.CollectionWishlist, "g1", 8); err != nil {
		t.Fatal(err)
	}
	if len(remote.data[remoteKey(8, domain.CollectionWishlist)]) != 1 {
		t.Error("remote collection should be untouched for an empty guest list")
	}
}
