package analytics

import (
	"testing"
	"time"

	"jobs-analytics/internal/entity"
)

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC)
	if err != nil {
		t.Fatalf("bad test time %q: %v", s, err)
	}
	return d
}

func TestMeanVisitGapDaysUsesCalendarDays(t *testing.T) {
	visits := map[string][]time.Time{
		// 1.5 days apart but one calendar day -> 1-day gap.
		"111": {ts(t, "2024-01-01 00:00:00"), ts(t, "2024-01-02 12:00:00")},
		// Two minutes apart across midnight is still a 1-day gap.
		"222": {ts(t, "2024-03-27 23:59:30"), ts(t, "2024-03-28 00:01:10")},
	}
	if got := meanVisitGapDays(visits); got != 1 {
		t.Fatalf("gap: want=1 got=%v", got)
	}
}

func TestMeanVisitGapDaysAcrossCustomers(t *testing.T) {
	visits := map[string][]time.Time{
		// Unsorted on purpose; gaps 10 and 20 days.
		"111": {ts(t, "2024-01-31 00:00:00"), ts(t, "2024-01-11 00:00:00"), ts(t, "2024-01-01 00:00:00")},
		// Single visit contributes no sample.
		"222": {ts(t, "2024-02-01 00:00:00")},
	}
	if got := meanVisitGapDays(visits); got != 15 {
		t.Fatalf("mean gap: want=15 got=%v", got)
	}
}

func TestMeanVisitGapDaysFallback(t *testing.T) {
	if got := meanVisitGapDays(nil); got != 1 {
		t.Fatalf("no-sample fallback: want=1 got=%v", got)
	}
	onlySingles := map[string][]time.Time{
		"111": {ts(t, "2024-01-01 00:00:00")},
		"222": {ts(t, "2024-02-01 00:00:00")},
	}
	if got := meanVisitGapDays(onlySingles); got != 1 {
		t.Fatalf("single-visit fallback: want=1 got=%v", got)
	}
}

func TestLTVSameDayVisitsZeroLifespan(t *testing.T) {
	d := ts(t, "2024-01-01 09:00:00")
	ds := entity.Dataset{
		{Phone: "111", Price: price(10), JobDate: &d},
		{Phone: "111", Price: price(10), JobDate: &d},
	}
	m := ltvMetrics(ds)

	// Mean gap of 0 is not the fallback path: lifespan degrades to 0.
	if m.AvgCustomerLifespan != 0 {
		t.Fatalf("lifespan: want=0 got=%v", m.AvgCustomerLifespan)
	}
	if m.AdvancedLTV != 0 {
		t.Fatalf("advanced ltv: want=0 got=%v", m.AdvancedLTV)
	}
	if m.BasicLTV != 20 {
		t.Fatalf("basic ltv: want=20 got=%v", m.BasicLTV)
	}
}

func TestLTVLifespanAcrossMidnight(t *testing.T) {
	ds := entity.Dataset{
		{Phone: "111", Price: price(10), JobDate: date(t, "2024-03-27 23:59:00")},
		{Phone: "111", Price: price(20), JobDate: date(t, "2024-03-28 00:01:00")},
	}
	m := ltvMetrics(ds)

	// Mean gap is 1 calendar day, not 0: lifespan = 180/1.
	if m.AvgCustomerLifespan != 180 {
		t.Fatalf("lifespan: want=180 got=%v", m.AvgCustomerLifespan)
	}
	if m.AdvancedLTV != 15*2*180 {
		t.Fatalf("advanced: want=5400 got=%v", m.AdvancedLTV)
	}
}

func TestLTVAdvancedFormula(t *testing.T) {
	ds := entity.Dataset{
		{Phone: "111", Price: price(10), JobDate: date(t, "2024-01-01 00:00:00")},
		{Phone: "111", Price: price(20), JobDate: date(t, "2024-01-31 00:00:00")},
	}
	m := ltvMetrics(ds)

	// revenue=30, rows=2, customers=1, mean gap=30 days.
	if m.BasicLTV != 30 {
		t.Fatalf("basic: want=30 got=%v", m.BasicLTV)
	}
	if m.AvgPurchaseValue != 15 {
		t.Fatalf("value: want=15 got=%v", m.AvgPurchaseValue)
	}
	if m.AvgPurchaseFrequency != 2 {
		t.Fatalf("frequency: want=2 got=%v", m.AvgPurchaseFrequency)
	}
	if m.AvgCustomerLifespan != 6 {
		t.Fatalf("lifespan: want=6 got=%v", m.AvgCustomerLifespan)
	}
	if m.AdvancedLTV != 15*2*6 {
		t.Fatalf("advanced: want=180 got=%v", m.AdvancedLTV)
	}
}
