package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"jobs-analytics/constants"
	"jobs-analytics/internal/common"
	"jobs-analytics/internal/entity"
)

// Payload is one uploaded tabular file, already read into memory.
type Payload struct {
	Filename string
	Data     []byte
}

// CleanStats summarizes one ingestion event.
type CleanStats struct {
	Files       int
	RowsRead    int
	RowsKept    int
	RowsDropped int
	NilDates    int
	NilPrices   int
}

// Service handles ingestion business logic: decoding payloads, selecting the
// required columns and cleaning rows into a single dataset.
type Service struct {
	logger *slog.Logger
}

// NewService creates a new ingest service.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ParsePayloads decodes every payload and concatenates the cleaned rows in
// upload order. A missing required column in any payload fails the whole
// event with a SCHEMA_ERROR; row-level date and price problems are absorbed
// as nil fields.
func (s *Service) ParsePayloads(ctx context.Context, payloads []Payload) (entity.Dataset, CleanStats, error) {
	var (
		dataset entity.Dataset
		stats   CleanStats
	)
	for _, p := range payloads {
		if err := ctx.Err(); err != nil {
			return nil, CleanStats{}, err
		}

		tbl, err := decodePayload(p)
		if err != nil {
			s.logger.Error("payload decode failed", "file", p.Filename, "error", err)
			return nil, CleanStats{}, err
		}

		rows, fileStats, err := cleanTable(tbl)
		if err != nil {
			s.logger.Error("payload rejected", "file", p.Filename, "error", err)
			return nil, CleanStats{}, err
		}

		dataset = append(dataset, rows...)
		stats.Files++
		stats.RowsRead += fileStats.RowsRead
		stats.RowsKept += fileStats.RowsKept
		stats.RowsDropped += fileStats.RowsDropped
		stats.NilDates += fileStats.NilDates
		stats.NilPrices += fileStats.NilPrices

		s.logger.Info("payload cleaned",
			"file", p.Filename,
			"rows_read", fileStats.RowsRead,
			"rows_kept", fileStats.RowsKept,
			"rows_dropped", fileStats.RowsDropped)
	}
	return dataset, stats, nil
}

func decodePayload(p Payload) (rawTable, error) {
	ext := constants.NormalizeExt(filepath.Ext(p.Filename))
	switch ext {
	case "csv":
		return decodeCSV(p.Data)
	case "xlsx":
		return decodeXLSX(p.Data)
	default:
		return rawTable{}, common.NewAppError("UNSUPPORTED_FORMAT",
			fmt.Sprintf("unsupported or missing extension %q", ext), common.ErrInvalidInput)
	}
}
