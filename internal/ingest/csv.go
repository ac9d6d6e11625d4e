package ingest

import (
	"bytes"
	"encoding/csv"
	"io"

	"jobs-analytics/internal/common"
)

// decodeCSV reads a comma-delimited payload with a header row. Ragged rows
// are tolerated; cleaning treats absent cells as empty values.
func decodeCSV(data []byte) (rawTable, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	var t rawTable
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rawTable{}, common.WrapError(err, "read csv")
		}
		if first {
			t.header = row
			first = false
			continue
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}
