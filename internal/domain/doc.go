// Package domain models per-station climate measurement tables.
//
// # Data Source
//
// Each station keeps its own folder of measurement files. A file name carries
// a two-digit year tag just before an optional extension:
//
//	"AS010319.92"      →  1992
//	"AS010324.05.txt"  →  2005
//
// Century rule: tags 51–99 are 19xx, tags 00–50 are 20xx. The pivot is fixed
// and asymmetric (50 → 2050, 51 → 1951). See [DecodeYear].
//
// # File Layout
//
// Whitespace-delimited records, one per line, no header. The second field is
// the measurement channel:
//
//	1   10.5
//	2   bad     ← kept as Missing so row 3 stays row 3
//	3   12.0
//
// # Cells
//
// Every table value is a [Cell] with three variants: Numeric, Missing and
// Label. Missing covers both absent values (padding) and values that failed
// numeric coercion. Label appears only in the index column of the summary row.
//
// # Alignment
//
// Station columns are aligned by position only. Row i of the table is the
// i-th reading appended for each station across its matched files, in the
// order they were read; it does not assert a calendar day. Short columns are
// padded with Missing up to the longest column. See [Consolidate].
//
// # Summary Row
//
// [AppendSummary] adds a row with "Mean" in the index column and, under each
// station, the mean of its numeric cells (Missing when it has none).
package domain
