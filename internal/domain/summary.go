package domain

import (
	"math"
	"time"
)

// StationSummary describes one station column of a finished run. It is the
// payload published downstream after the table has been exported.
type StationSummary struct {
	Station     string    `json:"station"`
	Column      string    `json:"column"`
	Year        int       `json:"year"`
	Rows        int       `json:"rows"`
	Valid       int       `json:"valid"`
	Missing     int       `json:"missing"`
	Mean        *float64  `json:"mean"` // nil when no finite mean exists
	ProcessedAt time.Time `json:"processed_at"`
}

// SummarizeStations builds one summary per station column of a consolidated
// table. A trailing summary row, if present, is not counted.
func SummarizeStations(t Table, year int) []StationSummary {
	now := clock.Now().UTC()
	out := make([]StationSummary, 0, len(t.StationColumns()))
	for _, col := range t.StationColumns() {
		cells := col.Cells
		if hasSummaryRow(t) {
			cells = cells[:len(cells)-1]
		}

		s := StationSummary{
			Station:     col.Station,
			Column:      col.Name,
			Year:        year,
			Rows:        len(cells),
			ProcessedAt: now,
		}
		for _, c := range cells {
			if c.Kind() == KindNumeric {
				s.Valid++
			} else {
				s.Missing++
			}
		}
		if mean, ok := ColumnMean(cells).Float(); ok && !math.IsInf(mean, 0) {
			s.Mean = &mean
		}
		out = append(out, s)
	}
	return out
}

func hasSummaryRow(t Table) bool {
	n := t.Rows()
	if n == 0 {
		return false
	}
	label, ok := t.Columns[0].Cells[n-1].Text()
	return ok && label == MeanLabel
}
