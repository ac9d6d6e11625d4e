package entity

import "time"

// JobRecord is one cleaned service-job row. Price and JobDate are pointers
// because the source data may carry unparseable or missing values: such rows
// survive cleaning with a nil field and are skipped by the affected sums.
type JobRecord struct {
	Phone   string     `json:"phone"`
	Price   *float64   `json:"price,omitempty"`
	JobDate *time.Time `json:"job_date,omitempty"`
}

// Dataset is an ordered sequence of cleaned job records. Rows from multiple
// uploaded files are concatenated in upload order; identical rows are never
// merged.
type Dataset []JobRecord
