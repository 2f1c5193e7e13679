package domain

import "fmt"

const (
	// DayIndexColumn is the header of the synthetic positional index column.
	DayIndexColumn = "Day_of_Year"
	// MeanLabel marks the summary row in the index column.
	MeanLabel = "Mean"
)

// StationColumnName is the table header used for a station's readings.
func StationColumnName(station string) string {
	return station + "_Data"
}

// StationColumn is every reading for one station in one run, concatenated
// across its matched files in the order they were read.
type StationColumn struct {
	Station string
	Cells   Series
	Files   []string // source files, in concatenation order
}

// Column is a named, ordered run of cells in a Table.
type Column struct {
	Name    string
	Station string // empty for the index column
	Cells   Series
}

// Table is a column-major grid. All columns have the same length.
type Table struct {
	Columns []Column
}

// Headers returns the column names in order.
func (t Table) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Rows returns the number of rows.
func (t Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// Row returns row i across all columns.
func (t Table) Row(i int) []Cell {
	out := make([]Cell, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = c.Cells[i]
	}
	return out
}

// StationColumns returns every column except the leading index column.
func (t Table) StationColumns() []Column {
	if len(t.Columns) <= 1 {
		return nil
	}
	return t.Columns[1:]
}

// Consolidate aligns station columns positionally into one table led by a
// 1..N index column, where N is the longest station column. Shorter columns
// are padded with Missing. Row i of every column is simply the i-th reading
// appended for that station; no calendar alignment is attempted.
func Consolidate(stations []StationColumn) (Table, error) {
	if len(stations) == 0 {
		return Table{}, ErrNoStationData
	}

	n := 0
	seen := make(map[string]struct{}, len(stations))
	for _, s := range stations {
		if _, dup := seen[s.Station]; dup {
			return Table{}, fmt.Errorf("consolidate: duplicate station %q", s.Station)
		}
		seen[s.Station] = struct{}{}
		n = max(n, len(s.Cells))
	}

	index := make(Series, n)
	for i := range index {
		index[i] = Numeric(float64(i + 1))
	}

	cols := make([]Column, 0, len(stations)+1)
	cols = append(cols, Column{Name: DayIndexColumn, Cells: index})
	for _, s := range stations {
		cells := make(Series, n) // zero cells are Missing
		copy(cells, s.Cells)
		cols = append(cols, Column{
			Name:    StationColumnName(s.Station),
			Station: s.Station,
			Cells:   cells,
		})
	}
	return Table{Columns: cols}, nil
}

// ColumnMean averages the numeric cells of a series, ignoring Missing. A
// series with no numeric cells yields Missing.
func ColumnMean(cells Series) Cell {
	var sum float64
	var count int
	for _, c := range cells {
		switch c.Kind() {
		case KindNumeric:
			sum += c.num
			count++
		case KindMissing, KindLabel:
		}
	}
	if count == 0 {
		return Missing()
	}
	return Numeric(sum / float64(count))
}

// AppendSummary returns a copy of t with one extra row: MeanLabel in the index
// column and each station column's mean below it.
func AppendSummary(t Table) Table {
	cols := make([]Column, len(t.Columns))
	for i, c := range t.Columns {
		cells := make(Series, len(c.Cells), len(c.Cells)+1)
		copy(cells, c.Cells)
		if i == 0 {
			cells = append(cells, Label(MeanLabel))
		} else {
			cells = append(cells, ColumnMean(c.Cells))
		}
		cols[i] = Column{Name: c.Name, Station: c.Station, Cells: cells}
	}
	return Table{Columns: cols}
}

// FolderEntry is one item of a station folder.
type FolderEntry struct {
	Name  string
	Path  string
	IsDir bool
}
