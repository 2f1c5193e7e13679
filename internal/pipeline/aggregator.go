package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/couchcryptid/climate-data-etl/internal/observability"
)

// Source enumerates station folders and reads their measurement files.
type Source interface {
	IsDir(path string) bool
	ListEntries(dir string) ([]domain.FolderEntry, error)
	ReadSeries(path string) (domain.Series, error)
}

// FileSkip records why a folder entry did not contribute to a station column.
type FileSkip struct {
	File string
	Err  error
}

// StationResult is the outcome of aggregating one station folder.
type StationResult struct {
	Column  domain.StationColumn
	Matched int // entries whose decoded year equals the target
	Skipped []FileSkip

	// Err is nil when the station contributes a column, otherwise one of
	// domain.ErrNoFilesMatched or domain.ErrNoReadableFiles.
	Err error
}

// Aggregator builds one station's column from the files in its folder.
type Aggregator struct {
	source  Source
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAggregator creates an Aggregator reading through source.
func NewAggregator(source Source, logger *slog.Logger, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{source: source, logger: logger, metrics: metrics}
}

// Aggregate decodes the year of every entry in dir, reads the files matching
// year in listing order and concatenates their series. Failures are contained
// per file; the station is excluded only when nothing was read.
func (a *Aggregator) Aggregate(station, dir string, year int) StationResult {
	res := StationResult{Column: domain.StationColumn{Station: station}}
	logger := a.logger.With("station", station)

	entries, err := a.source.ListEntries(dir)
	if err != nil {
		logger.Warn("station folder unreadable", "error", err)
		res.Err = fmt.Errorf("%w: %w", domain.ErrNoReadableFiles, err)
		return res
	}

	var parts []domain.Series
	for _, e := range entries {
		series, err := a.readEntry(e, year, &res)
		if err != nil {
			res.Skipped = append(res.Skipped, FileSkip{File: e.Name, Err: err})
			a.metrics.FilesSkipped.WithLabelValues(domain.Reason(err)).Inc()
			logSkip(logger, e.Name, err)
			continue
		}
		a.metrics.FilesRead.Inc()
		a.metrics.RecordsRead.Add(float64(len(series)))
		logger.Debug("file read", "file", e.Name, "records", len(series))
		parts = append(parts, series)
		res.Column.Files = append(res.Column.Files, e.Name)
	}

	switch {
	case res.Matched == 0:
		res.Err = fmt.Errorf("%w: %d", domain.ErrNoFilesMatched, year)
	case len(parts) == 0:
		res.Err = fmt.Errorf("%w: all %d matched file(s) failed", domain.ErrNoReadableFiles, res.Matched)
	default:
		res.Column.Cells = concat(parts)
	}
	return res
}

// readEntry applies the per-entry filters and reads the file when its year
// matches. Every returned error wraps a file-level sentinel from domain.
func (a *Aggregator) readEntry(e domain.FolderEntry, year int, res *StationResult) (domain.Series, error) {
	if e.IsDir {
		return nil, domain.ErrDirectory
	}
	fileYear, ok := domain.DecodeYear(e.Name)
	if !ok {
		return nil, domain.ErrNoYearPattern
	}
	if fileYear != year {
		return nil, fmt.Errorf("%w: detected %d, want %d", domain.ErrYearMismatch, fileYear, year)
	}

	res.Matched++
	series, err := a.source.ReadSeries(e.Path)
	if err != nil {
		return nil, err
	}
	for _, c := range series {
		if c.IsMissing() {
			a.metrics.MissingValues.Inc()
		}
	}
	return series, nil
}

func concat(parts []domain.Series) domain.Series {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make(domain.Series, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// logSkip reports a skipped entry. Entries that simply belong to another
// year are routine; unreadable files are not.
func logSkip(logger *slog.Logger, file string, err error) {
	level := slog.LevelInfo
	switch domain.Reason(err) {
	case "format", "read":
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, "skipping file",
		"file", file,
		"reason", domain.Reason(err),
		"error", err,
	)
}
