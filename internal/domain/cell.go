package domain

import (
	"math"
	"strconv"
)

// CellKind identifies which variant a Cell holds.
type CellKind uint8

const (
	// KindMissing marks an absent or unparsable value. It is the zero value.
	KindMissing CellKind = iota
	KindNumeric
	KindLabel
)

func (k CellKind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNumeric:
		return "numeric"
	case KindLabel:
		return "label"
	default:
		return "unknown"
	}
}

// Cell is one table value: Numeric, Missing or Label. The zero Cell is Missing.
type Cell struct {
	kind  CellKind
	num   float64
	label string
}

// Numeric returns a cell holding v. NaN is not a number a reading can carry,
// so it collapses to Missing.
func Numeric(v float64) Cell {
	if math.IsNaN(v) {
		return Cell{}
	}
	return Cell{kind: KindNumeric, num: v}
}

// Missing returns an explicit missing cell.
func Missing() Cell { return Cell{} }

// Label returns a textual cell. Only the summary row carries labels.
func Label(s string) Cell { return Cell{kind: KindLabel, label: s} }

func (c Cell) Kind() CellKind { return c.kind }

func (c Cell) IsMissing() bool { return c.kind == KindMissing }

// Float returns the numeric value and true for Numeric cells.
func (c Cell) Float() (float64, bool) {
	if c.kind != KindNumeric {
		return 0, false
	}
	return c.num, true
}

// Text returns the label and true for Label cells.
func (c Cell) Text() (string, bool) {
	if c.kind != KindLabel {
		return "", false
	}
	return c.label, true
}

// String renders the cell the way tabular exports do: labels literally,
// numbers in shortest form, infinities as inf/-inf, missing as the empty
// string.
func (c Cell) String() string {
	switch c.kind {
	case KindNumeric:
		switch {
		case math.IsInf(c.num, 1):
			return "inf"
		case math.IsInf(c.num, -1):
			return "-inf"
		}
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindLabel:
		return c.label
	default:
		return ""
	}
}

// Series is an ordered run of cells, one per source record.
type Series []Cell

// ParseNumeric coerces a raw field into a cell. Anything that does not parse
// as a decimal number becomes Missing so the record keeps its position.
func ParseNumeric(field string) Cell {
	if field == "" {
		return Missing()
	}
	// strconv accepts hex floats and digit separators; tabular readers do not.
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case 'x', 'X', '_', 'p', 'P':
			return Missing()
		}
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return Missing()
	}
	return Numeric(v)
}
