package analytics

import (
	"math"
	"sort"
	"time"

	"golfProShop/domain"
)

const defaultTopN = 10

// StatusPolicy decides which orders enter the aggregation. The default
// excludes cancelled orders only.
type StatusPolicy struct {
	ExcludedStatuses map[string]bool
}

func DefaultStatusPolicy() StatusPolicy {
	return StatusPolicy{
		ExcludedStatuses: map[string]bool{
			domain.OrderStatusCancelled: true,
		},
	}
}

func (p StatusPolicy) includes(status string) bool {
	return !p.ExcludedStatuses[status]
}

// Input carries everything the aggregation needs, so the fold itself
// stays deterministic: same input, same output.
type Input struct {
	Orders         []domain.Order
	PreviousOrders []domain.Order
	Window         domain.Window
	Policy         StatusPolicy
	TopN           int
	VisitCount     int64
}

// Aggregate folds the order list into the sales report. Orders with a
// non-finite or negative total are skipped and counted, never fatal.
func Aggregate(in Input) domain.AnalyticsResult {
	topN := in.TopN
	if topN <= 0 {
		topN = defaultTopN
	}

	var result domain.AnalyticsResult

	filtered := make([]domain.Order, 0, len(in.Orders))
	for _, order := range in.Orders {
		if !validOrder(order) {
			result.SkippedOrders++
			continue
		}
		if !in.Policy.includes(order.OrderStatus) {
			continue
		}
		if !in.Window.Contains(order.CreatedAt) {
			continue
		}
		filtered = append(filtered, order)
	}

	result.TotalOrders = len(filtered)
	for _, order := range filtered {
		result.TotalRevenue += order.TotalAmount
	}
	if result.TotalOrders > 0 {
		result.AverageOrderValue = result.TotalRevenue / float64(result.TotalOrders)
	}

	if in.VisitCount > 0 {
		result.ConversionRate = float64(result.TotalOrders) / float64(in.VisitCount) * 100
	}

	result.CategoryStats = categoryStats(filtered)
	result.TopProducts = topProducts(filtered, previousRevenue(in), topN)
	result.DailyStats, result.MonthlyStats = bucketStats(filtered, in.Window)

	return result
}

func validOrder(order domain.Order) bool {
	if math.IsNaN(order.TotalAmount) || math.IsInf(order.TotalAmount, 0) {
		return false
	}
	return order.TotalAmount >= 0
}

// categoryStats groups line items (not orders) by category. The share
// denominator is the line-item revenue sum, kept at full precision.
func categoryStats(orders []domain.Order) []domain.CategoryStat {
	revenue := make(map[string]float64)
	var total float64

	for _, order := range orders {
		for _, item := range order.Items {
			lineRevenue := float64(item.Quantity) * item.UnitPrice
			revenue[item.Category] += lineRevenue
			total += lineRevenue
		}
	}

	stats := make([]domain.CategoryStat, 0, len(revenue))
	for category, rev := range revenue {
		stat := domain.CategoryStat{
			Category: category,
			Revenue:  rev,
		}
		if total > 0 {
			stat.PercentageOfTotal = rev / total * 100
		}
		stats = append(stats, stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Revenue == stats[j].Revenue {
			return stats[i].Category < stats[j].Category
		}
		return stats[i].Revenue > stats[j].Revenue
	})

	return stats
}

// previousRevenue maps product ID to revenue in the preceding window,
// applying the same status and validity filters.
func previousRevenue(in Input) map[uint64]float64 {
	prev := make(map[uint64]float64)
	for _, order := range in.PreviousOrders {
		if !validOrder(order) || !in.Policy.includes(order.OrderStatus) {
			continue
		}
		for _, item := range order.Items {
			prev[item.ProductID] += float64(item.Quantity) * item.UnitPrice
		}
	}
	return prev
}

func topProducts(orders []domain.Order, prev map[uint64]float64, topN int) []domain.ProductStat {
	type acc struct {
		name    string
		units   int
		revenue float64
	}

	byProduct := make(map[uint64]*acc)
	for _, order := range orders {
		for _, item := range order.Items {
			a, ok := byProduct[item.ProductID]
			if !ok {
				a = &acc{name: item.ProductName}
				byProduct[item.ProductID] = a
			}
			a.units += item.Quantity
			a.revenue += float64(item.Quantity) * item.UnitPrice
		}
	}

	stats := make([]domain.ProductStat, 0, len(byProduct))
	for pid, a := range byProduct {
		stat := domain.ProductStat{
			ProductID: pid,
			Name:      a.name,
			UnitsSold: a.units,
			Revenue:   a.revenue,
		}

		// zero prior revenue reports the +100% sentinel instead of a
		// division by zero
		prevRev := prev[pid]
		if prevRev > 0 {
			stat.GrowthRatePercent = (a.revenue - prevRev) / prevRev * 100
		} else if a.revenue > 0 {
			stat.GrowthRatePercent = 100
		}

		stats = append(stats, stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Revenue == stats[j].Revenue {
			return stats[i].ProductID < stats[j].ProductID
		}
		return stats[i].Revenue > stats[j].Revenue
	})

	if len(stats) > topN {
		stats = stats[:topN]
	}

	return stats
}

// bucketStats fills every calendar day and month inside the window,
// including zero-order buckets, so callers can render continuous
// series. An unbounded window derives its range from the order dates.
func bucketStats(orders []domain.Order, window domain.Window) (daily, monthly []domain.BucketStat) {
	start, end := window.Start, window.End
	if start.IsZero() || end.IsZero() {
		if len(orders) == 0 {
			return []domain.BucketStat{}, []domain.BucketStat{}
		}
		start, end = orders[0].CreatedAt, orders[0].CreatedAt
		for _, order := range orders {
			if order.CreatedAt.Before(start) {
				start = order.CreatedAt
			}
			if order.CreatedAt.After(end) {
				end = order.CreatedAt
			}
		}
		end = end.Add(time.Nanosecond) // half-open range must include the last order
	}

	type bucket struct {
		revenue float64
		count   int
	}
	dayRevenue := make(map[string]*bucket)
	monthRevenue := make(map[string]*bucket)

	for _, order := range orders {
		day := order.CreatedAt.Format("2006-01-02")
		month := order.CreatedAt.Format("2006-01")

		if b, ok := dayRevenue[day]; ok {
			b.revenue += order.TotalAmount
			b.count++
		} else {
			dayRevenue[day] = &bucket{revenue: order.TotalAmount, count: 1}
		}
		if b, ok := monthRevenue[month]; ok {
			b.revenue += order.TotalAmount
			b.count++
		} else {
			monthRevenue[month] = &bucket{revenue: order.TotalAmount, count: 1}
		}
	}

	daily = []domain.BucketStat{}
	for day := startOfDay(start); day.Before(end); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		stat := domain.BucketStat{Date: key}
		if b, ok := dayRevenue[key]; ok {
			stat.Revenue = b.revenue
			stat.OrderCount = b.count
		}
		daily = append(daily, stat)
	}

	monthly = []domain.BucketStat{}
	for month := startOfMonth(start); month.Before(end); month = month.AddDate(0, 1, 0) {
		key := month.Format("2006-01")
		stat := domain.BucketStat{Date: key}
		if b, ok := monthRevenue[key]; ok {
			stat.Revenue = b.revenue
			stat.OrderCount = b.count
		}
		monthly = append(monthly, stat)
	}

	return daily, monthly
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
