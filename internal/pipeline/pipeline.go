package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/couchcryptid/climate-data-etl/internal/config"
	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/couchcryptid/climate-data-etl/internal/observability"
)

// TableExporter persists a finished table.
type TableExporter interface {
	Export(table domain.Table, path string) error
	Extension() string
}

// SummaryPublisher sends per-station summaries downstream.
type SummaryPublisher interface {
	PublishSummaries(ctx context.Context, summaries []domain.StationSummary) error
}

// Exclusion names a station left out of the table and why.
type Exclusion struct {
	Station string
	Err     error
}

// Report describes a finished (or failed) run. Table holds the computed
// table, summary row included, even when the export failed.
type Report struct {
	Year       int
	DaysInYear int
	Included   []string
	Excluded   []Exclusion
	Table      domain.Table
	OutputPath string
	Published  int
}

// Pipeline orchestrates one read-consolidate-export run.
type Pipeline struct {
	source         Source
	aggregator     *Aggregator
	exporter       TableExporter
	publisher      SummaryPublisher
	publishTimeout time.Duration
	logger         *slog.Logger
	metrics        *observability.Metrics
}

// New creates a Pipeline reading through source and writing through exporter.
func New(source Source, exporter TableExporter, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:     source,
		aggregator: NewAggregator(source, logger, metrics),
		exporter:   exporter,
		logger:     logger,
		metrics:    metrics,
	}
}

// WithPublisher enables publishing station summaries after a successful
// export. A non-positive timeout means no deadline beyond the run context.
func (p *Pipeline) WithPublisher(pub SummaryPublisher, timeout time.Duration) *Pipeline {
	p.publisher = pub
	p.publishTimeout = timeout
	return p
}

// OutputFileName is the name of the table file written for year.
func OutputFileName(year int, ext string) string {
	return fmt.Sprintf("processed_climate_data_%d%s", year, ext)
}

type stationFolder struct {
	name string
	dir  string
}

// Run processes every requested station for the requested year and exports
// the consolidated table into the base directory. File and station failures
// are logged and contained. It fails with domain.ErrBaseDirMissing,
// domain.ErrNoStationData or domain.ErrExport.
func (p *Pipeline) Run(ctx context.Context, req config.RunRequest) (Report, error) {
	start := time.Now()
	defer func() { p.metrics.RunDuration.Observe(time.Since(start).Seconds()) }()

	year := req.Year()
	report := Report{Year: year, DaysInYear: domain.DaysInYear(year)}
	base := req.BaseDir()

	if !p.source.IsDir(base) {
		p.metrics.RunsFailed.WithLabelValues("base_dir").Inc()
		return report, fmt.Errorf("%w: %s", domain.ErrBaseDirMissing, base)
	}

	p.logger.Info("run started",
		"base_dir", base,
		"year", year,
		"leap_year", report.DaysInYear == 366,
		"days_in_year", report.DaysInYear,
		"stations", len(req.Stations()),
	)

	folders := p.validateFolders(base, req.Stations(), &report)
	if len(folders) == 0 {
		p.metrics.RunsFailed.WithLabelValues("no_data").Inc()
		return report, fmt.Errorf("%w: no station folders found under %s", domain.ErrNoStationData, base)
	}

	columns := make([]domain.StationColumn, 0, len(folders))
	for _, f := range folders {
		res := p.aggregator.Aggregate(f.name, f.dir, year)
		if res.Err != nil {
			p.exclude(&report, f.name, res.Err)
			continue
		}
		p.logger.Info("station aggregated",
			"station", f.name,
			"files", len(res.Column.Files),
			"records", len(res.Column.Cells),
			"skipped", len(res.Skipped),
		)
		p.metrics.StationsIncluded.Inc()
		report.Included = append(report.Included, f.name)
		columns = append(columns, res.Column)
	}

	table, err := domain.Consolidate(columns)
	if err != nil {
		p.metrics.RunsFailed.WithLabelValues("no_data").Inc()
		return report, fmt.Errorf("consolidate year %d: %w", year, err)
	}
	p.metrics.TableRows.Set(float64(table.Rows()))
	report.Table = domain.AppendSummary(table)

	out := filepath.Join(base, OutputFileName(year, p.exporter.Extension()))
	if err := p.exporter.Export(report.Table, out); err != nil {
		p.metrics.RunsFailed.WithLabelValues("export").Inc()
		p.logger.Error("export failed", "path", out, "error", err)
		return report, fmt.Errorf("%w: %s: %w", domain.ErrExport, out, err)
	}
	report.OutputPath = out

	p.publish(ctx, &report)

	p.logger.Info("run complete",
		"output", out,
		"rows", table.Rows(),
		"included", len(report.Included),
		"excluded", len(report.Excluded),
		"duration", time.Since(start),
	)
	return report, nil
}

// validateFolders keeps the stations whose folder exists under base.
func (p *Pipeline) validateFolders(base string, stations []string, report *Report) []stationFolder {
	folders := make([]stationFolder, 0, len(stations))
	for _, name := range stations {
		dir := filepath.Join(base, name)
		if !p.source.IsDir(dir) {
			p.exclude(report, name, fmt.Errorf("%w: %s", domain.ErrStationFolderMissing, dir))
			continue
		}
		p.logger.Info("station folder found", "station", name, "path", dir)
		folders = append(folders, stationFolder{name: name, dir: dir})
	}
	return folders
}

func (p *Pipeline) exclude(report *Report, station string, err error) {
	p.logger.Warn("station excluded",
		"station", station,
		"reason", domain.Reason(err),
		"error", err,
	)
	p.metrics.StationsExcluded.WithLabelValues(domain.Reason(err)).Inc()
	report.Excluded = append(report.Excluded, Exclusion{Station: station, Err: err})
}

// publish sends station summaries when a publisher is configured. The table
// is already persisted, so failures are logged rather than returned.
func (p *Pipeline) publish(ctx context.Context, report *Report) {
	if p.publisher == nil {
		return
	}
	if p.publishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.publishTimeout)
		defer cancel()
	}

	summaries := domain.SummarizeStations(report.Table, report.Year)
	if err := p.publisher.PublishSummaries(ctx, summaries); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Error("publish station summaries failed", "error", err, "count", len(summaries))
		return
	}
	p.metrics.SummariesPublished.Add(float64(len(summaries)))
	report.Published = len(summaries)
}
