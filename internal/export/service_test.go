package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"jobs-analytics/internal/entity"
)

func TestReportXLSX(t *testing.T) {
	r := entity.Report{
		MonthlyBreakdown: []entity.MonthlyCohort{
			{
				Month:          "2024-01",
				TotalCustomers: 3,
				NewCustomers:   2,
				NewPercentage:  66.67,
				TotalRevenue:   45.5,
			},
		},
		LTVMetrics: entity.LTVMetrics{BasicLTV: 15.17, AvgCustomerLifespan: 6},
	}

	b, err := NewService(nil).ReportXLSX(context.Background(), r)
	if err != nil {
		t.Fatalf("ReportXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if v, _ := f.GetCellValue(breakdownSheet, "A1"); v != "Month" {
		t.Fatalf("A1: want=Month got=%q", v)
	}
	if v, _ := f.GetCellValue(breakdownSheet, "A2"); v != "2024-01" {
		t.Fatalf("A2: want=2024-01 got=%q", v)
	}
	if v, _ := f.GetCellValue(breakdownSheet, "B2"); v != "3" {
		t.Fatalf("B2: want=3 got=%q", v)
	}

	if v, _ := f.GetCellValue(ltvSheet, "A1"); v != "Basic LTV" {
		t.Fatalf("ltv A1: want=Basic LTV got=%q", v)
	}
	if v, _ := f.GetCellValue(ltvSheet, "B1"); v != "15.17" {
		t.Fatalf("ltv B1: want=15.17 got=%q", v)
	}
}
