package domain

import "time"

// Window is a half-open [Start, End) date range. Zero values mean
// "all time"; the aggregator resolves defaults with its injected clock.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// Duration of the window; 0 for an unbounded window.
func (w Window) Duration() time.Duration {
	if w.Start.IsZero() || w.End.IsZero() {
		return 0
	}
	return w.End.Sub(w.Start)
}

func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && !t.Before(w.End) {
		return false
	}
	return true
}

type ProductStat struct {
	ProductID         uint64  `json:"product_id"`
	Name              string  `json:"name"`
	UnitsSold         int     `json:"units_sold"`
	Revenue           float64 `json:"revenue"`
	GrowthRatePercent float64 `json:"growth_rate_percent"`
}

type CategoryStat struct {
	Category          string  `json:"category"`
	Revenue           float64 `json:"revenue"`
	PercentageOfTotal float64 `json:"percentage_of_total"`
}

// BucketStat is one calendar bucket in a time series. Date is
// "2006-01-02" for daily and "2006-01" for monthly buckets.
type BucketStat struct {
	Date       string  `json:"date"`
	Revenue    float64 `json:"revenue"`
	OrderCount int     `json:"order_count"`
}

// AnalyticsResult is purely derived, recomputed on every request.
type AnalyticsResult struct {
	TotalRevenue      float64        `json:"total_revenue"`
	TotalOrders       int            `json:"total_orders"`
	AverageOrderValue float64        `json:"average_order_value"`
	ConversionRate    float64        `json:"conversion_rate"`
	TopProducts       []ProductStat  `json:"top_products"`
	CategoryStats     []CategoryStat `json:"category_stats"`
	DailyStats        []BucketStat   `json:"daily_stats"`
	MonthlyStats      []BucketStat   `json:"monthly_stats"`
	SkippedOrders     int            `json:"skipped_orders"`
}
