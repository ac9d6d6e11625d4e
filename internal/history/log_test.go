package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"jobs-analytics/internal/entity"
)

func testReport(months ...string) entity.Report {
	r := entity.Report{
		LTVMetrics: entity.LTVMetrics{BasicLTV: float64(len(months))},
	}
	for _, m := range months {
		r.MonthlyBreakdown = append(r.MonthlyBreakdown, entity.MonthlyCohort{
			Month:               m,
			TotalCustomers:      1,
			NewCustomers:        1,
			NewPercentage:       100,
			ReturningPercentage: 0,
		})
	}
	return r
}

func TestLogLoadMissing(t *testing.T) {
	l := NewLog(filepath.Join(t.TempDir(), "history.json"), nil)
	s, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s != nil {
		t.Fatalf("missing file should load as nil, got %+v", s)
	}
}

func TestLogAppendConcatenates(t *testing.T) {
	ctx := context.Background()
	l := NewLog(filepath.Join(t.TempDir(), "history.json"), nil)

	first, err := l.Append(ctx, testReport("2024-01", "2024-02"))
	if err != nil {
		t.Fatalf("first append: %v", err)
	}
	if len(first.MonthlyBreakdown) != 2 {
		t.Fatalf("first append months: want=2 got=%d", len(first.MonthlyBreakdown))
	}

	// A month present in both runs yields two entries, no merging.
	second, err := l.Append(ctx, testReport("2024-02"))
	if err != nil {
		t.Fatalf("second append: %v", err)
	}
	if len(second.MonthlyBreakdown) != 3 {
		t.Fatalf("second append months: want=3 got=%d", len(second.MonthlyBreakdown))
	}
	if second.MonthlyBreakdown[2].Month != "2024-02" {
		t.Fatalf("appended month: %+v", second.MonthlyBreakdown[2])
	}
	if second.LTV.BasicLTV != 1 {
		t.Fatalf("ltv should be replaced by the latest run: %+v", second.LTV)
	}

	loaded, err := l.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil || len(loaded.MonthlyBreakdown) != 3 {
		t.Fatalf("reload: %+v", loaded)
	}
	if loaded.UpdatedAt.IsZero() {
		t.Fatal("updated_at not persisted")
	}
}

func TestLogLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLog(path, nil).Load(context.Background()); err == nil {
		t.Fatal("expected error for non-JSON history file")
	}

	if err := os.WriteFile(path, []byte(`{"foo": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLog(path, nil).Load(context.Background()); err == nil {
		t.Fatal("expected schema validation error for malformed document")
	}
}
