//go:build !integration

package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"golfProShop/domain"
)

type fakeOrdersRepo struct {
	orders       map[uint]domain.Order
	checkedOut   []domain.Order
	cancelled    []uint
	statusCalls  []string
	failCheckout bool
}

func newFakeOrdersRepo() *fakeOrdersRepo {
	return &fakeOrdersRepo{orders: make(map[uint]domain.Order)}
}

func (f *fakeOrdersRepo) CheckoutOrder(ctx context.Context, data domain.Order) (domain.Order, error) {
	if f.failCheckout {
		return domain.Order{}, errors.New("insufficient stock for product 2")
	}
	data.ID = uint(len(f.checkedOut) + 1)
	f.checkedOut = append(f.checkedOut, data)
	f.orders[data.ID] = data
	return data, nil
}

func (f *fakeOrdersRepo) CancelOrder(ctx context.Context, orderID uint) (domain.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return domain.Order{}, errors.New("order not found")
	}
	order.OrderStatus = domain.OrderStatusCancelled
	f.orders[orderID] = order
	f.cancelled = append(f.cancelled, orderID)
	return order, nil
}

func (f *fakeOrdersRepo) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	var all []domain.Order
	for _, o := range f.orders {
		all = append(all, o)
	}
	return all, nil
}

func (f *fakeOrdersRepo) GetOrdersByUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	var mine []domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			mine = append(mine, o)
		}
	}
	return mine, nil
}

func (f *fakeOrdersRepo) GetOrder(ctx context.Context, orderID uint) (domain.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return domain.Order{}, errors.New("order not found")
	}
	return order, nil
}

func (f *fakeOrdersRepo) UpdateOrderStatus(ctx context.Context, orderID uint, status string) error {
	order, ok := f.orders[orderID]
	if !ok {
		return errors.New("order not found")
	}
	order.OrderStatus = status
	f.orders[orderID] = order
	f.statusCalls = append(f.statusCalls, status)
	return nil
}

type fakeCartReader struct {
	entries map[uint][]domain.CartEntry
	fail    bool
}

func (f *fakeCartReader) Load(ctx context.Context, owner domain.Owner) ([]domain.CartEntry, error) {
	if f.fail {
		return nil, errors.New("redis down")
	}
	return f.entries[owner.UserID], nil
}

type fakeProductRepo struct {
	products map[uint64]domain.Product
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uint64) (domain.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return domain.Product{}, errors.New("product not found")
	}
	return product, nil
}

func newCheckoutFixture() (*OrdersService, *fakeOrdersRepo, *fakeCartReader) {
	repo := newFakeOrdersRepo()
	cart := &fakeCartReader{entries: map[uint][]domain.CartEntry{
		7: {
			{ProductID: 1, Quantity: 1, UnitPrice: 459.99, AddedAt: time.Now()},
			{ProductID: 2, Quantity: 2, UnitPrice: 899, AddedAt: time.Now()},
		},
	}}
	products := &fakeProductRepo{products: map[uint64]domain.Product{
		1: {ID: 1, ProductName: "TX-500 Driver", ProductCategory: "drivers", NormalPrice: 499.99},
		2: {ID: 2, ProductName: "Forged Iron Set", ProductCategory: "irons", NormalPrice: 1099, SalePrice: 899},
	}}
	return NewOrdersService(repo, cart, products), repo, cart
}

func TestCheckoutSnapshotsCatalogPrices(t *testing.T) {
	svc, repo, _ := newCheckoutFixture()

	order, err := svc.Checkout(context.Background(), 7, "INVOICE")
	if err != nil {
		t.Fatal(err)
	}

	if order.OrderStatus != domain.OrderStatusPending {
		t.Errorf("expected PENDING, got %s", order.OrderStatus)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}

	// catalog price wins over the stale cart price
	if order.Items[0].UnitPrice != 499.99 {
		t.Errorf("expected catalog price 499.99, got %v", order.Items[0].UnitPrice)
	}
	if order.Items[1].UnitPrice != 899 {
		t.Errorf("expected sale price 899, got %v", order.Items[1].UnitPrice)
	}
	if order.Items[0].ProductName != "TX-500 Driver" || order.Items[1].Category != "irons" {
		t.Error("expected product name and category snapshotted on the order line")
	}

	want := 499.99 + 2*899
	if order.TotalAmount != want {
		t.Errorf("expected total %v, got %v", want, order.TotalAmount)
	}
	if len(repo.checkedOut) != 1 {
		t.Errorf("expected one checkout call, got %d", len(repo.checkedOut))
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, repo, cart := newCheckoutFixture()
	cart.entries[7] = nil

	if _, err := svc.Checkout(context.Background(), 7, "INVOICE"); err == nil {
		t.Fatal("expected error for empty cart")
	}
	if len(repo.checkedOut) != 0 {
		t.Error("no order should be created for an empty cart")
	}
}

func TestCheckoutFailsWhenProductGone(t *testing.T) {
	svc, _, cart := newCheckoutFixture()
	cart.entries[7] = append(cart.entries[7], domain.CartEntry{ProductID: 99, Quantity: 1})

	if _, err := svc.Checkout(context.Background(), 7, "INVOICE"); err == nil {
		t.Fatal("expected error when a cart product left the catalog")
	}
}

func TestCheckoutPropagatesStockFailure(t *testing.T) {
	svc, repo, _ := newCheckoutFixture()
	repo.failCheckout = true

	if _, err := svc.Checkout(context.Background(), 7, "INVOICE"); err == nil {
		t.Fatal("expected insufficient stock error")
	}
}

func TestUpdateStatusFollowsFlow(t *testing.T) {
	svc, repo, _ := newCheckoutFixture()
	repo.orders[1] = domain.Order{ID: 1, UserID: 7, OrderStatus: domain.OrderStatusPending}

	if err := svc.UpdateStatus(context.Background(), 1, domain.OrderStatusPaid); err != nil {
		t.Fatalf("PENDING to PAID should be allowed: %v", err)
	}
	if err := svc.UpdateStatus(context.Background(), 1, domain.OrderStatusShipped); err != nil {
		t.Fatalf("PAID to SHIPPED should be allowed: %v", err)
	}
	if err := svc.UpdateStatus(context.Background(), 1, domain.OrderStatusPending); err == nil {
		t.Error("SHIPPED back to PENDING should be rejected")
	}
	if err := svc.UpdateStatus(context.Background(), 1, domain.OrderStatusCancelled); err == nil {
		t.Error("cancellation must go through the cancel operation")
	}
}

func TestUpdateStatusRejectsSkippedStep(t *testing.T) {
	svc, repo, _ := newCheckoutFixture()
	repo.orders[1] = domain.Order{ID: 1, OrderStatus: domain.OrderStatusPending}

	if err := svc.UpdateStatus(context.Background(), 1, domain.OrderStatusDelivered); err == nil {
		t.Error("PENDING straight to DELIVERED should be rejected")
	}
}

func TestCancelChecksOwnership(t *testing.T) {
	svc, repo, _ := newCheckoutFixture()
	repo.orders[1] = domain.Order{ID: 1, UserID: 7, OrderStatus: domain.OrderStatusPending}

	if _, err := svc.Cancel(context.Background(), 1, 8, false); err == nil {
		t.Error("another user's cancel should be rejected")
	}
	if len(repo.cancelled) != 0 {
		t.Fatal("repository cancel should not run for a foreign order")
	}

	if _, err := svc.Cancel(context.Background(), 1, 8, true); err != nil {
		t.Errorf("admin cancel should be allowed: %v", err)
	}
}

func TestCancelByOwner(t *testing.T) {
	svc, repo, _ := newCheckoutFixture()
	repo.orders[1] = domain.Order{ID: 1, UserID: 7, OrderStatus: domain.OrderStatusPaid}

	cancelled, err := svc.Cancel(context.Background(), 1, 7, false)
	if err != nil {
		t.Fatal(err)
	}
	if cancelled.OrderStatus != domain.OrderStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", cancelled.OrderStatus)
	}
}
