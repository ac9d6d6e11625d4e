package ingest

import (
	"strconv"
	"strings"
	"time"

	"jobs-analytics/constants"
	"jobs-analytics/internal/common"
	"jobs-analytics/internal/entity"
)

// rawTable is one decoded payload before cleaning: a header row plus data
// rows, all as strings.
type rawTable struct {
	header []string
	rows   [][]string
}

// columnIndexes resolves the required source columns against the header.
// Matching is exact; the dispatch exports are stable enough that fuzzy header
// matching would only hide schema drift.
func columnIndexes(header []string) (phone, price, date int, missing []string) {
	find := func(name string) int {
		for i, h := range header {
			if i == 0 {
				h = strings.TrimPrefix(h, "\uFEFF")
			}
			if h == name {
				return i
			}
		}
		return -1
	}

	phone = find(constants.ColPhone)
	price = find(constants.ColPrice)
	date = find(constants.ColJobDate)

	if phone < 0 {
		missing = append(missing, constants.ColPhone)
	}
	if price < 0 {
		missing = append(missing, constants.ColPrice)
	}
	if date < 0 {
		missing = append(missing, constants.ColJobDate)
	}
	return phone, price, date, missing
}

// cleanTable selects the phone/price/job_date columns and applies row-level
// cleaning: rows without a phone identifier are dropped, unparseable prices
// and dates survive as nil fields.
func cleanTable(t rawTable) ([]entity.JobRecord, CleanStats, error) {
	phoneIdx, priceIdx, dateIdx, missing := columnIndexes(t.header)
	if len(missing) > 0 {
		return nil, CleanStats{}, common.NewAppError("SCHEMA_ERROR",
			"missing required columns: "+strings.Join(missing, ", "), common.ErrSchema)
	}

	var stats CleanStats
	records := make([]entity.JobRecord, 0, len(t.rows))
	for _, row := range t.rows {
		stats.RowsRead++

		phone := cell(row, phoneIdx)
		if phone == "" {
			stats.RowsDropped++
			continue
		}

		rec := entity.JobRecord{Phone: phone}
		if p, ok := parsePrice(cell(row, priceIdx)); ok {
			rec.Price = &p
		} else {
			stats.NilPrices++
		}
		if d, ok := parseJobDate(cell(row, dateIdx)); ok {
			rec.JobDate = &d
		} else {
			stats.NilDates++
		}

		records = append(records, rec)
		stats.RowsKept++
	}
	return records, stats, nil
}

// cell treats missing trailing fields of a ragged row as empty values.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseJobDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(constants.JobDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
