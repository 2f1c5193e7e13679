// Command validate checks the integrity of an exported climate workbook:
// header layout, a sequential day index, the trailing "Mean" row, and that
// every stored mean equals the mean recomputed from the column's rows.
//
// Usage:
//
//	go run ./cmd/validate -file data/mock/processed_climate_data_2021.xlsx
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/climate-data-etl/internal/adapter/spreadsheet"
	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/xuri/excelize/v2"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	file := flag.String("file", "", "path to an exported .xlsx workbook")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(1)
	}
	os.Exit(run(*file))
}

func run(path string) int {
	rows, err := loadRows(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load workbook: %v\n", err)
		return 1
	}

	fmt.Println("=== Climate Table Integrity Validation ===")
	fmt.Println()

	phases := []*phase{
		validateHeader(rows),
		validateIndex(rows),
		validateMeans(rows),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	if len(rows) > 0 {
		fmt.Printf("Rows: %d data, %d station column(s)\n", max(len(rows)-2, 0), max(len(rows[0])-1, 0))
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// loadRows reads the processed sheet and right-pads every row to the header
// width, since trailing empty cells are not stored.
func loadRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(spreadsheet.SheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", spreadsheet.SheetName)
	}
	width := len(rows[0])
	for i, r := range rows {
		for len(r) < width {
			r = append(r, "")
		}
		rows[i] = r
	}
	return rows, nil
}

// ── Phase 1: Header ──

func validateHeader(rows [][]string) *phase {
	p := &phase{name: "Phase 1: Header layout"}
	header := rows[0]
	if len(header) < 2 {
		p.errorf("expected index plus at least one station column, got %d column(s)", len(header))
		return p
	}
	if header[0] != domain.DayIndexColumn {
		p.errorf("first column is %q, expected %q", header[0], domain.DayIndexColumn)
	}
	seen := map[string]bool{}
	for j, h := range header[1:] {
		if !strings.HasSuffix(h, "_Data") {
			p.errorf("column %d header %q lacks _Data suffix", j+2, h)
		}
		if seen[h] {
			p.errorf("column %d header %q is duplicated", j+2, h)
		}
		seen[h] = true
	}
	return p
}

// ── Phase 2: Index ──

func validateIndex(rows [][]string) *phase {
	p := &phase{name: "Phase 2: Day index and summary label"}
	if len(rows) < 3 {
		p.errorf("expected at least one data row and the summary row, got %d row(s)", len(rows)-1)
		return p
	}
	data := rows[1 : len(rows)-1]
	for i, r := range data {
		want := strconv.Itoa(i + 1)
		if r[0] != want {
			p.errorf("row %d: index %q, expected %s", i+2, r[0], want)
		}
	}
	if last := rows[len(rows)-1][0]; last != domain.MeanLabel {
		p.errorf("last row index is %q, expected %q", last, domain.MeanLabel)
	}
	return p
}

// ── Phase 3: Means ──

func validateMeans(rows [][]string) *phase {
	p := &phase{name: "Phase 3: Column means"}
	if len(rows) < 3 {
		return p
	}
	data := rows[1 : len(rows)-1]
	summary := rows[len(rows)-1]

	for j := 1; j < len(rows[0]); j++ {
		cells := make(domain.Series, len(data))
		for i, r := range data {
			cells[i] = domain.ParseNumeric(r[j])
			if r[j] != "" && cells[i].IsMissing() {
				p.errorf("%s row %d: non-numeric value %q", rows[0][j], i+2, r[j])
			}
		}
		expected := domain.ColumnMean(cells)
		checkMean(p, rows[0][j], expected, summary[j])
	}
	return p
}

func checkMean(p *phase, column string, expected domain.Cell, stored string) {
	want, ok := expected.Float()
	if !ok {
		if stored != "" {
			p.errorf("%s: column has no values but mean is %q", column, stored)
		}
		return
	}
	got, err := strconv.ParseFloat(stored, 64)
	if err != nil {
		p.errorf("%s: mean %q is not numeric (expected %g)", column, stored, want)
		return
	}
	if math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
		p.errorf("%s: mean %g, recomputed %g", column, got, want)
	}
}
