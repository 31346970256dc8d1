//go:build !integration

package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"golfProShop/domain"
)

type fakeOrdersRepo struct {
	windows []domain.Window
	orders  map[time.Time][]domain.Order
	fail    bool
}

func (f *fakeOrdersRepo) GetOrdersInWindow(ctx context.Context, window domain.Window) ([]domain.Order, error) {
	f.windows = append(f.windows, window)
	if f.fail && len(f.windows) > 1 {
		return nil, errors.New("db gone")
	}
	return f.orders[window.Start], nil
}

type fakeVisitRepo struct {
	count int64
	fail  bool
}

func (f *fakeVisitRepo) CountVisits(ctx context.Context, window domain.Window) (int64, error) {
	if f.fail {
		return 0, errors.New("mongo gone")
	}
	return f.count, nil
}

func TestReportDefaultsToLastThirtyDays(t *testing.T) {
	repo := &fakeOrdersRepo{orders: map[time.Time][]domain.Order{}}
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	svc := NewAnalyticsService(repo, nil, 0).WithClock(func() time.Time { return now })

	if _, err := svc.Report(context.Background(), domain.Window{}, 0); err != nil {
		t.Fatal(err)
	}

	if len(repo.windows) != 2 {
		t.Fatalf("expected current and previous window fetches, got %d", len(repo.windows))
	}
	current := repo.windows[0]
	if !current.End.Equal(now) || !current.Start.Equal(now.AddDate(0, 0, -30)) {
		t.Errorf("unexpected default window: %v .. %v", current.Start, current.End)
	}
}

func TestReportUsesPrecedingWindowForGrowth(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	repo := &fakeOrdersRepo{orders: map[time.Time][]domain.Order{}}
	svc := NewAnalyticsService(repo, nil, 0)

	if _, err := svc.Report(context.Background(), domain.Window{Start: start, End: end}, 0); err != nil {
		t.Fatal(err)
	}

	prev := repo.windows[1]
	if !prev.End.Equal(start) || !prev.Start.Equal(start.AddDate(0, 0, -7)) {
		t.Errorf("expected preceding window of equal length, got %v .. %v", prev.Start, prev.End)
	}
}

func TestReportSurvivesPreviousWindowFailure(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	repo := &fakeOrdersRepo{
		fail: true,
		orders: map[time.Time][]domain.Order{
			start: {
				{ID: 1, TotalAmount: 500, OrderStatus: domain.OrderStatusPaid, CreatedAt: start.Add(time.Hour)},
			},
		},
	}
	svc := NewAnalyticsService(repo, nil, 0)

	result, err := svc.Report(context.Background(), domain.Window{Start: start, End: end}, 0)
	if err != nil {
		t.Fatalf("previous window failure should not fail the report: %v", err)
	}
	if result.TotalRevenue != 500 {
		t.Errorf("expected current window revenue 500, got %v", result.TotalRevenue)
	}
}

func TestReportSurvivesVisitCountFailure(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	repo := &fakeOrdersRepo{orders: map[time.Time][]domain.Order{}}
	svc := NewAnalyticsService(repo, &fakeVisitRepo{fail: true}, 0)

	result, err := svc.Report(context.Background(), domain.Window{Start: start, End: end}, 0)
	if err != nil {
		t.Fatalf("visit count failure should not fail the report: %v", err)
	}
	if result.ConversionRate != 0 {
		t.Errorf("expected zero conversion rate, got %v", result.ConversionRate)
	}
}

func TestReportTopNOverridesDefault(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	repo := &fakeOrdersRepo{
		orders: map[time.Time][]domain.Order{
			start: {
				{
					ID: 1, TotalAmount: 900, OrderStatus: domain.OrderStatusPaid, CreatedAt: start.Add(time.Hour),
					Items: []domain.OrderItem{
						{ProductID: 1, ProductName: "a", Category: "c", Quantity: 1, UnitPrice: 500},
						{ProductID: 2, ProductName: "b", Category: "c", Quantity: 1, UnitPrice: 300},
						{ProductID: 3, ProductName: "c", Category: "c", Quantity: 1, UnitPrice: 100},
					},
				},
			},
		},
	}
	svc := NewAnalyticsService(repo, nil, 10)

	result, err := svc.Report(context.Background(), domain.Window{Start: start, End: end}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.TopProducts) != 1 {
		t.Fatalf("expected the request override to cut to 1 product, got %d", len(result.TopProducts))
	}
	if result.TopProducts[0].ProductID != 1 {
		t.Errorf("expected the top earner, got product %d", result.TopProducts[0].ProductID)
	}
}

func TestReportComputesConversionRateFromVisits(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	repo := &fakeOrdersRepo{
		orders: map[time.Time][]domain.Order{
			start: {
				{ID: 1, TotalAmount: 500, OrderStatus: domain.OrderStatusPaid, CreatedAt: start.Add(time.Hour)},
			},
		},
	}
	svc := NewAnalyticsService(repo, &fakeVisitRepo{count: 25}, 0)

	result, err := svc.Report(context.Background(), domain.Window{Start: start, End: end}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if result.ConversionRate != 4 {
		t.Errorf("expected conversion rate 4, got %v", result.ConversionRate)
	}
}
