package measurement

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
)

// channelField is the zero-based field holding the measurement.
const channelField = 1

// maxLineSize bounds a single record; station files are short numeric rows.
const maxLineSize = 1 << 20

// Reader lists station folders and extracts the measurement channel from
// their data files. It implements pipeline.Source.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a Reader that logs unparsable values at debug level.
func NewReader(logger *slog.Logger) *Reader {
	return &Reader{logger: logger}
}

// ReadSeries opens path and returns one cell per record: the second field
// coerced to a number, or Missing when coercion fails. Failures wrap
// domain.ErrRead (I/O, encoding, ragged records) or domain.ErrFormat (the
// file has fewer than two fields).
func (r *Reader) ReadSeries(path string) (domain.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRead, err)
	}
	defer f.Close()

	series, bad, err := parseSeries(f)
	if err != nil {
		return nil, err
	}
	if bad > 0 {
		r.logger.Debug("non-numeric values kept as missing",
			"file", path,
			"count", bad,
			"records", len(series),
		)
	}
	return series, nil
}

// parseSeries reads whitespace-delimited records. Blank lines are not
// records. The first record fixes the field count: a later record with more
// fields is a parse error, a shorter one yields Missing for absent fields.
// It returns the series and how many values failed numeric coercion.
func parseSeries(src io.Reader) (domain.Series, int, error) {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		series domain.Series
		width  int
		bad    int
		line   int
	)
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if !utf8.Valid(raw) {
			return nil, 0, fmt.Errorf("%w: line %d: invalid UTF-8", domain.ErrRead, line)
		}
		fields := strings.Fields(string(raw))
		if len(fields) == 0 {
			continue
		}
		if width == 0 {
			width = len(fields)
		} else if len(fields) > width {
			return nil, 0, fmt.Errorf("%w: line %d: expected %d fields, saw %d",
				domain.ErrRead, line, width, len(fields))
		}

		if len(fields) <= channelField {
			series = append(series, domain.Missing())
			continue
		}
		cell := domain.ParseNumeric(fields[channelField])
		if cell.IsMissing() {
			bad++
		}
		series = append(series, cell)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, 0, fmt.Errorf("%w: line %d: %w", domain.ErrRead, line+1, err)
		}
		return nil, 0, fmt.Errorf("%w: %w", domain.ErrRead, err)
	}

	if len(series) == 0 {
		return nil, 0, fmt.Errorf("%w: no records", domain.ErrRead)
	}
	if width <= channelField {
		return nil, 0, fmt.Errorf("%w: %d field(s) per record", domain.ErrFormat, width)
	}
	return series, bad, nil
}
