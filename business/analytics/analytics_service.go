package analytics

import (
	"context"
	"time"

	"golfProShop/domain"
	"golfProShop/pkg/logger"
)

type OrdersRepository interface {
	GetOrdersInWindow(ctx context.Context, window domain.Window) ([]domain.Order, error)
}

type VisitRepository interface {
	CountVisits(ctx context.Context, window domain.Window) (int64, error)
}

type AnalyticsService struct {
	ordersRepo OrdersRepository
	visitRepo  VisitRepository
	policy     StatusPolicy
	topN       int
	now        func() time.Time
}

func NewAnalyticsService(ordersRepo OrdersRepository, visitRepo VisitRepository, topN int) *AnalyticsService {
	if topN <= 0 {
		topN = defaultTopN
	}
	return &AnalyticsService{
		ordersRepo: ordersRepo,
		visitRepo:  visitRepo,
		policy:     DefaultStatusPolicy(),
		topN:       topN,
		now:        time.Now,
	}
}

// WithClock replaces the time source, used by tests and backfills.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

// Report aggregates sales for the window. A zero window defaults to
// the last 30 days ending now. Growth rates compare against the
// preceding window of equal length. A topN of zero or less falls back
// to the configured default.
func (s *AnalyticsService) Report(ctx context.Context, window domain.Window, topN int) (domain.AnalyticsResult, error) {
	if topN <= 0 {
		topN = s.topN
	}
	if window.IsZero() {
		end := s.now()
		window = domain.Window{Start: end.AddDate(0, 0, -30), End: end}
	}

	orders, err := s.ordersRepo.GetOrdersInWindow(ctx, window)
	if err != nil {
		return domain.AnalyticsResult{}, err
	}

	prevWindow := domain.Window{
		Start: window.Start.Add(-window.Duration()),
		End:   window.Start,
	}
	prevOrders, err := s.ordersRepo.GetOrdersInWindow(ctx, prevWindow)
	if err != nil {
		// growth is best effort, the current window still reports
		logger.Warn("analytics: previous window fetch failed", err)
		prevOrders = nil
	}

	var visits int64
	if s.visitRepo != nil {
		visits, err = s.visitRepo.CountVisits(ctx, window)
		if err != nil {
			logger.Warn("analytics: visit count failed", err)
			visits = 0
		}
	}

	return Aggregate(Input{
		Orders:         orders,
		PreviousOrders: prevOrders,
		Window:         window,
		Policy:         s.policy,
		TopN:           topN,
		VisitCount:     visits,
	}), nil
}
