package analytics

import (
	"math"
	"sort"
	"time"

	"jobs-analytics/internal/entity"
)

// Aggregate computes the monthly new-vs-returning breakdown and the LTV
// metrics for a cleaned dataset. It is pure: the same dataset always yields
// a bit-identical report.
func Aggregate(ds entity.Dataset) entity.Report {
	return entity.Report{
		MonthlyBreakdown: monthlyBreakdown(ds, firstVisitMonths(ds)),
		LTVMetrics:       ltvMetrics(ds),
	}
}

// firstVisitMonths maps each phone identifier to the month of its earliest
// dated job across the whole dataset. Customers with only undated rows have
// no entry.
func firstVisitMonths(ds entity.Dataset) map[string]time.Time {
	first := make(map[string]time.Time)
	for _, r := range ds {
		if r.JobDate == nil {
			continue
		}
		if cur, ok := first[r.Phone]; !ok || r.JobDate.Before(cur) {
			first[r.Phone] = *r.JobDate
		}
	}
	for phone, d := range first {
		first[phone] = truncateMonth(d)
	}
	return first
}

func monthlyBreakdown(ds entity.Dataset, first map[string]time.Time) []entity.MonthlyCohort {
	seen := make(map[time.Time]struct{})
	for _, r := range ds {
		if r.JobDate != nil {
			seen[truncateMonth(*r.JobDate)] = struct{}{}
		}
	}
	months := make([]time.Time, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	out := make([]entity.MonthlyCohort, 0, len(months))
	for _, m := range months {
		var (
			total      = make(map[string]struct{})
			newcomers  = make(map[string]struct{})
			revenue    float64
			newRevenue float64
		)
		for _, r := range ds {
			if r.JobDate == nil || !truncateMonth(*r.JobDate).Equal(m) {
				continue
			}
			total[r.Phone] = struct{}{}
			isNew := first[r.Phone].Equal(m)
			if isNew {
				newcomers[r.Phone] = struct{}{}
			}
			if r.Price != nil {
				revenue += *r.Price
				if isNew {
					newRevenue += *r.Price
				}
			}
		}

		co := entity.MonthlyCohort{
			Month:                    formatMonth(m),
			TotalCustomers:           len(total),
			NewCustomers:             len(newcomers),
			ReturningCustomers:       len(total) - len(newcomers),
			TotalRevenue:             revenue,
			NewCustomerRevenue:       newRevenue,
			ReturningCustomerRevenue: revenue - newRevenue,
		}
		if co.TotalCustomers > 0 {
			co.NewPercentage = round2(float64(co.NewCustomers) / float64(co.TotalCustomers) * 100)
			co.ReturningPercentage = round2(float64(co.ReturningCustomers) / float64(co.TotalCustomers) * 100)
		}
		out = append(out, co)
	}
	return out
}

func truncateMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func formatMonth(t time.Time) string {
	return t.Format("2006-01")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
