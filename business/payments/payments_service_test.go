//go:build !integration

package payments

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"golfProShop/domain"
)

type fakePaymentsRepo struct {
	payments map[int]domain.Payment
	nextID   int
	updated  []domain.Payment
}

func newFakePaymentsRepo() *fakePaymentsRepo {
	return &fakePaymentsRepo{payments: make(map[int]domain.Payment), nextID: 1}
}

func (f *fakePaymentsRepo) CreatePayment(ctx context.Context, data domain.Payment) (domain.Payment, error) {
	data.ID = f.nextID
	f.nextID++
	f.payments[data.ID] = data
	return data, nil
}

func (f *fakePaymentsRepo) GetAllPayments(ctx context.Context) ([]domain.Payment, error) {
	var all []domain.Payment
	for _, p := range f.payments {
		all = append(all, p)
	}
	return all, nil
}

func (f *fakePaymentsRepo) GetPayment(ctx context.Context, paymentID int) (domain.Payment, error) {
	payment, ok := f.payments[paymentID]
	if !ok {
		return domain.Payment{}, errors.New("payment not found")
	}
	return payment, nil
}

func (f *fakePaymentsRepo) UpdatePayment(ctx context.Context, data domain.Payment) error {
	f.payments[data.ID] = data
	f.updated = append(f.updated, data)
	return nil
}

type fakeInvoices struct {
	calls int
	fail  bool
}

func (f *fakeInvoices) CreateInvoice(paymentID, userID, orderID int, email string, amount float64, items []domain.OrderItem) (string, error) {
	f.calls++
	if f.fail {
		return "", errors.New("provider down")
	}
	return fmt.Sprintf("https://invoice.example/%d|%d|%d", paymentID, userID, orderID), nil
}

type fakeUserRepo struct {
	users map[uint]domain.User
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uint) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, errors.New("user not found")
	}
	return user, nil
}

type fakeOrderReader struct {
	orders map[uint]domain.Order
}

func (f *fakeOrderReader) GetOrder(ctx context.Context, orderID uint) (domain.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return domain.Order{}, errors.New("order not found")
	}
	return order, nil
}

type fakeSettler struct {
	paid []uint
	fail bool
}

func (f *fakeSettler) MarkPaid(ctx context.Context, orderID uint) error {
	if f.fail {
		return errors.New("order gone")
	}
	f.paid = append(f.paid, orderID)
	return nil
}

func newPaymentsFixture() (*PaymentsService, *fakePaymentsRepo, *fakeSettler, *fakeInvoices) {
	repo := newFakePaymentsRepo()
	invoices := &fakeInvoices{}
	users := &fakeUserRepo{users: map[uint]domain.User{
		7: {ID: 7, Email: "jo@example.com", FullName: "Jo Park"},
	}}
	orders := &fakeOrderReader{orders: map[uint]domain.Order{
		3: {ID: 3, UserID: 7, TotalAmount: 499.99, OrderStatus: domain.OrderStatusPending},
		4: {ID: 4, UserID: 7, TotalAmount: 899, OrderStatus: domain.OrderStatusPaid},
	}}
	settler := &fakeSettler{}
	return NewPaymentsService(repo, invoices, users, orders, settler), repo, settler, invoices
}

func TestCreatePaymentReturnsInvoiceLink(t *testing.T) {
	svc, repo, _, invoices := newPaymentsFixture()

	result, err := svc.CreatePayment(context.Background(), 7, 3)
	if err != nil {
		t.Fatal(err)
	}

	if result.PaymentStatus != domain.PaymentStatusPending {
		t.Errorf("expected PENDING payment, got %s", result.PaymentStatus)
	}
	if result.PaymentLink == "" {
		t.Error("expected an invoice link")
	}
	if invoices.calls != 1 {
		t.Errorf("expected one invoice call, got %d", invoices.calls)
	}
	stored := repo.payments[result.ID]
	if stored.Amount != 499.99 {
		t.Errorf("expected payment amount from the order, got %v", stored.Amount)
	}
}

func TestCreatePaymentRejectsForeignOrder(t *testing.T) {
	svc, _, _, invoices := newPaymentsFixture()

	if _, err := svc.CreatePayment(context.Background(), 8, 3); err == nil {
		t.Fatal("expected error for another user's order")
	}
	if invoices.calls != 0 {
		t.Error("no invoice should be created")
	}
}

func TestCreatePaymentRejectsNonPendingOrder(t *testing.T) {
	svc, _, _, _ := newPaymentsFixture()

	if _, err := svc.CreatePayment(context.Background(), 7, 4); err == nil {
		t.Error("expected error for an already paid order")
	}
}

func TestWebhookSettlesPaymentAndOrder(t *testing.T) {
	svc, repo, settler, _ := newPaymentsFixture()
	oid := 3
	repo.payments[1] = domain.Payment{ID: 1, UserID: 7, OrderID: &oid, PaymentStatus: domain.PaymentStatusPending}

	err := svc.HandleWebhook(context.Background(), WebhookRequest{
		ID:         "inv-abc",
		ExternalID: "1|7|3",
		Status:     "PAID",
		Amount:     499.99,
	})
	if err != nil {
		t.Fatal(err)
	}

	payment := repo.payments[1]
	if payment.PaymentStatus != domain.PaymentStatusPaid {
		t.Errorf("expected PAID, got %s", payment.PaymentStatus)
	}
	if payment.ProviderPayload["invoice_id"] != "inv-abc" {
		t.Error("expected raw callback stored on the payment")
	}
	if len(settler.paid) != 1 || settler.paid[0] != 3 {
		t.Errorf("expected order 3 marked paid, got %v", settler.paid)
	}
}

func TestWebhookExpiresWithoutSettling(t *testing.T) {
	svc, repo, settler, _ := newPaymentsFixture()
	oid := 3
	repo.payments[1] = domain.Payment{ID: 1, UserID: 7, OrderID: &oid, PaymentStatus: domain.PaymentStatusPending}

	err := svc.HandleWebhook(context.Background(), WebhookRequest{
		ExternalID: "1|7|3",
		Status:     "EXPIRED",
	})
	if err != nil {
		t.Fatal(err)
	}

	if repo.payments[1].PaymentStatus != domain.PaymentStatusExpired {
		t.Errorf("expected EXPIRED, got %s", repo.payments[1].PaymentStatus)
	}
	if len(settler.paid) != 0 {
		t.Error("expired invoice must not mark the order paid")
	}
}

func TestWebhookIgnoresSettledPayment(t *testing.T) {
	svc, repo, settler, _ := newPaymentsFixture()
	oid := 3
	repo.payments[1] = domain.Payment{ID: 1, UserID: 7, OrderID: &oid, PaymentStatus: domain.PaymentStatusPaid}

	err := svc.HandleWebhook(context.Background(), WebhookRequest{
		ExternalID: "1|7|3",
		Status:     "PAID",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(repo.updated) != 0 {
		t.Error("replayed webhook must not rewrite a settled payment")
	}
	if len(settler.paid) != 0 {
		t.Error("replayed webhook must not advance the order again")
	}
}

func TestWebhookRejectsMalformedExternalID(t *testing.T) {
	svc, _, _, _ := newPaymentsFixture()

	for _, externalID := range []string{"", "1|7", "x|y|z", "1|7|3|9"} {
		if err := svc.HandleWebhook(context.Background(), WebhookRequest{ExternalID: externalID, Status: "PAID"}); err == nil {
			t.Errorf("expected error for external id %q", externalID)
		}
	}
}

func TestWebhookRejectsUnknownStatus(t *testing.T) {
	svc, repo, _, _ := newPaymentsFixture()
	oid := 3
	repo.payments[1] = domain.Payment{ID: 1, UserID: 7, OrderID: &oid, PaymentStatus: domain.PaymentStatusPending}

	if err := svc.HandleWebhook(context.Background(), WebhookRequest{ExternalID: "1|7|3", Status: "REFUNDED"}); err == nil {
		t.Error("expected error for unknown provider status")
	}
}
