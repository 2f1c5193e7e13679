package spreadsheet

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet a processed table is written to.
const SheetName = "Sheet1"

// XLSXExporter writes tables as Excel workbooks.
// It implements pipeline.TableExporter.
type XLSXExporter struct {
	logger *slog.Logger
}

// NewXLSXExporter creates an exporter producing one-sheet workbooks.
func NewXLSXExporter(logger *slog.Logger) *XLSXExporter {
	return &XLSXExporter{logger: logger}
}

// Extension is the file extension for exported workbooks.
func (e *XLSXExporter) Extension() string { return ".xlsx" }

// Export writes the header row followed by every table row. Missing cells
// are left empty, labels are written as text and numbers as numbers.
func (e *XLSXExporter) Export(table domain.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for j, name := range table.Headers() {
		if err := setCell(f, j+1, 1, domain.Label(name)); err != nil {
			return err
		}
	}
	for i := range table.Rows() {
		for j, c := range table.Row(i) {
			if err := setCell(f, j+1, i+2, c); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	e.logger.Info("workbook written", "path", path, "rows", table.Rows(), "columns", len(table.Columns))
	return nil
}

func setCell(f *excelize.File, col, row int, c domain.Cell) error {
	if c.IsMissing() {
		return nil
	}
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell reference: %w", err)
	}

	switch c.Kind() {
	case domain.KindNumeric:
		v, _ := c.Float()
		if math.IsInf(v, 0) {
			err = f.SetCellStr(SheetName, ref, c.String())
		} else {
			err = f.SetCellFloat(SheetName, ref, v, -1, 64)
		}
	case domain.KindLabel:
		err = f.SetCellStr(SheetName, ref, c.String())
	case domain.KindMissing:
	}
	if err != nil {
		return fmt.Errorf("set %s: %w", ref, err)
	}
	return nil
}
