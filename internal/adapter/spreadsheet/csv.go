package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
)

// CSVExporter writes tables as comma-separated text.
// It implements pipeline.TableExporter.
type CSVExporter struct {
	logger *slog.Logger
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter(logger *slog.Logger) *CSVExporter {
	return &CSVExporter{logger: logger}
}

// Extension is the file extension for exported CSV files.
func (e *CSVExporter) Extension() string { return ".csv" }

// Export writes a header record and one record per table row. Missing cells
// render as empty fields.
func (e *CSVExporter) Export(table domain.Table, path string) (err error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	w := csv.NewWriter(file)
	if err := w.Write(table.Headers()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, len(table.Columns))
	for i := range table.Rows() {
		for j, c := range table.Row(i) {
			record[j] = c.String()
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	e.logger.Info("csv written", "path", path, "rows", table.Rows(), "columns", len(table.Columns))
	return nil
}
