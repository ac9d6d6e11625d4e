package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"jobs-analytics/internal/entity"
)

// Service renders reports as XLSX bytes for download.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

const (
	breakdownSheet = "Monthly Breakdown"
	ltvSheet       = "LTV"
)

// ReportXLSX returns an XLSX workbook (as bytes) with the monthly breakdown
// table on one sheet and the LTV summary on another.
func (s *Service) ReportXLSX(ctx context.Context, r entity.Report) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", breakdownSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(ltvSheet); err != nil {
		return nil, err
	}

	headers := []string{
		"Month",
		"Total Customers",
		"New Customers",
		"Returning Customers",
		"New %",
		"Returning %",
		"Total Revenue",
		"New Customer Revenue",
		"Returning Customer Revenue",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(breakdownSheet, cell, h)
	}

	for i, m := range r.MonthlyBreakdown {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(breakdownSheet, cell, v)
		}
		write(1, m.Month)
		write(2, m.TotalCustomers)
		write(3, m.NewCustomers)
		write(4, m.ReturningCustomers)
		write(5, m.NewPercentage)
		write(6, m.ReturningPercentage)
		write(7, m.TotalRevenue)
		write(8, m.NewCustomerRevenue)
		write(9, m.ReturningCustomerRevenue)
	}

	ltvRows := []struct {
		label string
		value float64
	}{
		{"Basic LTV", r.BasicLTV},
		{"Advanced LTV", r.AdvancedLTV},
		{"Average Purchase Value", r.AvgPurchaseValue},
		{"Average Purchase Frequency", r.AvgPurchaseFrequency},
		{"Average Customer LifeSpan (Months)", r.AvgCustomerLifespan},
	}
	for i, lr := range ltvRows {
		labelCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
		_ = f.SetCellValue(ltvSheet, labelCell, lr.label)
		_ = f.SetCellValue(ltvSheet, valueCell, lr.value)
	}

	// Widen a few columns
	_ = f.SetColWidth(breakdownSheet, "A", "A", 10)
	_ = f.SetColWidth(breakdownSheet, "B", "F", 18)
	_ = f.SetColWidth(breakdownSheet, "G", "I", 24)
	_ = f.SetColWidth(ltvSheet, "A", "A", 36)
	_ = f.SetColWidth(ltvSheet, "B", "B", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"months", len(r.MonthlyBreakdown),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
