package analytics

import (
	"sort"
	"time"

	"jobs-analytics/constants"
	"jobs-analytics/internal/entity"
)

// ltvMetrics computes the lifetime-value figures over the whole dataset.
// An empty dataset yields all-zero metrics.
func ltvMetrics(ds entity.Dataset) entity.LTVMetrics {
	if len(ds) == 0 {
		return entity.LTVMetrics{}
	}

	var totalRevenue float64
	customers := make(map[string]struct{})
	visits := make(map[string][]time.Time)
	for _, r := range ds {
		customers[r.Phone] = struct{}{}
		if r.Price != nil {
			totalRevenue += *r.Price
		}
		if r.JobDate != nil {
			visits[r.Phone] = append(visits[r.Phone], *r.JobDate)
		}
	}

	rowCount := float64(len(ds))
	unique := float64(len(customers))

	var m entity.LTVMetrics
	if unique > 0 {
		m.BasicLTV = totalRevenue / unique
		m.AvgPurchaseFrequency = rowCount / unique
	}
	m.AvgPurchaseValue = totalRevenue / rowCount

	if avgGap := meanVisitGapDays(visits); avgGap > 0 {
		m.AvgCustomerLifespan = constants.ChurnThresholdDays / avgGap
	}
	m.AdvancedLTV = m.AvgPurchaseValue * m.AvgPurchaseFrequency * m.AvgCustomerLifespan
	return m
}

// meanVisitGapDays averages the calendar-day gaps between consecutive dated
// visits of each customer: timestamps are truncated to their date first, so
// visits two minutes apart across midnight are one day apart. A customer
// with a single dated visit contributes no sample; with no samples at all
// the mean falls back to 1 so the lifespan division stays bounded.
func meanVisitGapDays(visits map[string][]time.Time) float64 {
	var sum float64
	var samples int
	for _, ts := range visits {
		sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
		for i := 1; i < len(ts); i++ {
			days := int(truncateDay(ts[i]).Sub(truncateDay(ts[i-1])) / (24 * time.Hour))
			sum += float64(days)
			samples++
		}
	}
	if samples == 0 {
		return 1
	}
	return sum / float64(samples)
}
