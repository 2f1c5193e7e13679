// Command climate consolidates one year of per-station climate measurements
// into a single table with a trailing row of column means.
//
// Usage:
//
//	climate -stations AS01,AS02 -year 1992 [-base-dir /data/climate]
//
// Each station is a folder under the base directory. Files whose name ends
// in ".YY" (optionally followed by one extension) are read when YY decodes to
// the requested year. The table is written to
// <base-dir>/processed_climate_data_<year>.xlsx (or .csv with OUTPUT_FORMAT=csv).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/climate-data-etl/internal/adapter/kafka"
	"github.com/couchcryptid/climate-data-etl/internal/adapter/measurement"
	"github.com/couchcryptid/climate-data-etl/internal/adapter/spreadsheet"
	"github.com/couchcryptid/climate-data-etl/internal/config"
	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/couchcryptid/climate-data-etl/internal/observability"
	"github.com/couchcryptid/climate-data-etl/internal/pipeline"
)

// Exit codes.
const (
	exitOK       = 0
	exitUsage    = 2
	exitNoOutput = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return exitUsage
	}

	stations := flag.String("stations", "", "comma-separated station folder names, processed in this order")
	year := flag.Int("year", 0, fmt.Sprintf("target year (%d-%d)", config.MinYear, config.MaxYear))
	baseDir := flag.String("base-dir", cfg.BaseDir, "directory holding one folder per station (env CLIMATE_BASE_DIR)")
	flag.Parse()

	req, err := config.NewRunRequest(*baseDir, config.ParseStations(*stations), *year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid arguments: %v\n", err)
		flag.Usage()
		return exitUsage
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var exporter pipeline.TableExporter
	switch cfg.OutputFormat {
	case config.FormatCSV:
		exporter = spreadsheet.NewCSVExporter(logger)
	default:
		exporter = spreadsheet.NewXLSXExporter(logger)
	}

	p := pipeline.New(measurement.NewReader(logger), exporter, logger, metrics)

	if cfg.PublishEnabled() {
		writer := kafka.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		p.WithPublisher(writer, cfg.PublishTimeout)
		logger.Info("summary publishing enabled", "topic", cfg.KafkaSummaryTopic)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, runErr := p.Run(ctx, req)

	if cfg.MetricsTextfile != "" {
		if err := observability.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("metrics textfile write failed", "path", cfg.MetricsTextfile, "error", err)
		}
	}

	if runErr != nil {
		switch {
		case errors.Is(runErr, domain.ErrExport):
			logger.Error("table computed but not saved", "error", runErr, "rows", report.Table.Rows())
		default:
			logger.Error("run aborted", "error", runErr)
		}
		return exitNoOutput
	}

	logger.Info("processed data saved", "path", report.OutputPath)
	return exitOK
}
