package ingest

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"jobs-analytics/internal/common"
)

// decodeXLSX reads the first sheet of an XLSX payload as a table. The
// dispatch system occasionally hands out spreadsheet exports with the same
// columns as the CSV ones; cleaning is shared downstream.
func decodeXLSX(data []byte) (rawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return rawTable{}, common.WrapError(err, "open xlsx")
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return rawTable{}, common.NewAppError("SCHEMA_ERROR", "xlsx has no sheets", common.ErrSchema)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return rawTable{}, common.WrapError(err, "read xlsx rows")
	}
	if len(rows) == 0 {
		return rawTable{}, nil
	}
	return rawTable{header: rows[0], rows: rows[1:]}, nil
}
