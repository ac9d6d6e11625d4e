// jobs-report runs the analytics pipeline once over local files and writes
// the report as JSON, without going through the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"jobs-analytics/internal/analytics"
	"jobs-analytics/internal/entity"
	"jobs-analytics/internal/export"
	"jobs-analytics/internal/history"
	"jobs-analytics/internal/ingest"
)

func main() {
	var (
		outPath     = flag.String("out", "", "write the report JSON to this file instead of stdout")
		xlsxPath    = flag.String("xlsx", "", "also write an XLSX rendering of the report")
		historyPath = flag.String("history", "", "append the run to this report history file")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: jobs-report [flags] <file.csv|file.xlsx> ...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := context.Background()

	payloads := make([]ingest.Payload, 0, flag.NArg())
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("read input", "path", path, "error", err)
			os.Exit(1)
		}
		payloads = append(payloads, ingest.Payload{Filename: path, Data: data})
	}

	dataset, stats, err := ingest.NewService(logger).ParsePayloads(ctx, payloads)
	if err != nil {
		logger.Error("ingest failed", "error", err)
		os.Exit(1)
	}
	logger.Info("dataset cleaned", "files", stats.Files, "rows_kept", stats.RowsKept, "rows_dropped", stats.RowsDropped)

	report := analytics.Aggregate(dataset)

	if *historyPath != "" {
		if _, err := history.NewLog(*historyPath, logger).Append(ctx, report); err != nil {
			logger.Error("history append failed", "error", err)
			os.Exit(1)
		}
	}

	if *xlsxPath != "" {
		b, err := export.NewService(logger).ReportXLSX(ctx, report)
		if err != nil {
			logger.Error("xlsx export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxPath, b, 0o644); err != nil {
			logger.Error("write xlsx", "path", *xlsxPath, "error", err)
			os.Exit(1)
		}
	}

	if err := writeReport(report, *outPath); err != nil {
		logger.Error("write report", "error", err)
		os.Exit(1)
	}
}

func writeReport(r entity.Report, path string) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		_, err = fmt.Println(string(b))
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
