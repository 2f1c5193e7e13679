package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/climate-data-etl/internal/adapter/measurement"
	"github.com/couchcryptid/climate-data-etl/internal/config"
	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/couchcryptid/climate-data-etl/internal/observability"
	"github.com/couchcryptid/climate-data-etl/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExporter struct {
	err    error
	path   string
	tables []domain.Table
}

func (m *mockExporter) Export(table domain.Table, path string) error {
	m.path = path
	m.tables = append(m.tables, table)
	return m.err
}

func (m *mockExporter) Extension() string { return ".xlsx" }

type mockPublisher struct {
	err       error
	summaries []domain.StationSummary
}

func (m *mockPublisher) PublishSummaries(_ context.Context, s []domain.StationSummary) error {
	m.summaries = append(m.summaries, s...)
	return m.err
}

// --- helpers ---

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newPipeline(exp pipeline.TableExporter) (*pipeline.Pipeline, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	return pipeline.New(measurement.NewReader(slog.Default()), exp, slog.Default(), metrics), metrics
}

func newRequest(t *testing.T, base string, year int, stations ...string) config.RunRequest {
	t.Helper()
	req, err := config.NewRunRequest(base, stations, year)
	require.NoError(t, err)
	return req
}

func render(table domain.Table) [][]string {
	out := make([][]string, table.Rows())
	for i := range out {
		for _, c := range table.Row(i) {
			out[i] = append(out[i], c.String())
		}
	}
	return out
}

// --- tests ---

func TestPipeline_Run_EndToEnd(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "X", "AS010319.21"), "1 1.0\n2 2.0\n")
	writeFile(t, filepath.Join(base, "Y", "AS010319.20"), "1 5.0\n")

	exp := &mockExporter{}
	p, metrics := newPipeline(exp)

	report, err := p.Run(context.Background(), newRequest(t, base, 2021, "X", "Y"))
	require.NoError(t, err)

	assert.Equal(t, []string{"X"}, report.Included)
	require.Len(t, report.Excluded, 1)
	assert.Equal(t, "Y", report.Excluded[0].Station)
	assert.ErrorIs(t, report.Excluded[0].Err, domain.ErrNoFilesMatched)

	assert.Equal(t, filepath.Join(base, "processed_climate_data_2021.xlsx"), exp.path)
	assert.Equal(t, exp.path, report.OutputPath)
	assert.Equal(t, 365, report.DaysInYear)

	require.Len(t, exp.tables, 1)
	assert.Equal(t, []string{"Day_of_Year", "X_Data"}, exp.tables[0].Headers())
	expected := [][]string{
		{"1", "1"},
		{"2", "2"},
		{"Mean", "1.5"},
	}
	if diff := cmp.Diff(expected, render(exp.tables[0])); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FilesRead), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FilesSkipped.WithLabelValues("year_mismatch")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.StationsIncluded), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.StationsExcluded.WithLabelValues("no_files_matched")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.TableRows), 0)
}

func TestPipeline_Run_ConcatenatesInNameOrder(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "S", "b.21"), "1 4\n2 5\n")
	writeFile(t, filepath.Join(base, "S", "a.21"), "1 1\n2 2\n3 3\n")

	exp := &mockExporter{}
	p, _ := newPipeline(exp)

	report, err := p.Run(context.Background(), newRequest(t, base, 2021, "S"))
	require.NoError(t, err)

	col := report.Table.Columns[1].Cells
	require.Len(t, col, 6)
	for i, want := range []float64{1, 2, 3, 4, 5} {
		got, ok := col[i].Float()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestPipeline_Run_PadsShorterStation(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "A", "a.99"), "1 1\n2 1\n3 1\n4 1\n5 1\n")
	writeFile(t, filepath.Join(base, "B", "b.99"), "1 2\n2 2\n3 2\n")

	exp := &mockExporter{}
	p, _ := newPipeline(exp)

	report, err := p.Run(context.Background(), newRequest(t, base, 1999, "A", "B"))
	require.NoError(t, err)

	expected := [][]string{
		{"1", "1", "2"},
		{"2", "1", "2"},
		{"3", "1", "2"},
		{"4", "1", ""},
		{"5", "1", ""},
		{"Mean", "1", "2"},
	}
	if diff := cmp.Diff(expected, render(report.Table)); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestPipeline_Run_ContainsFileFailures(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "S")
	writeFile(t, filepath.Join(dir, "a.21"), "1 10.5\n2 bad\n3 12.0\n")
	writeFile(t, filepath.Join(dir, "b.21"), "1\n2\n")
	writeFile(t, filepath.Join(dir, "c.21"), "1 2\n3 4 5\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "no year here\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.21"), 0o755))

	exp := &mockExporter{}
	p, metrics := newPipeline(exp)

	report, err := p.Run(context.Background(), newRequest(t, base, 2021, "S"))
	require.NoError(t, err)

	expected := [][]string{
		{"1", "10.5"},
		{"2", ""},
		{"3", "12"},
		{"Mean", "11.25"},
	}
	if diff := cmp.Diff(expected, render(report.Table)); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FilesSkipped.WithLabelValues("format")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FilesSkipped.WithLabelValues("read")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FilesSkipped.WithLabelValues("no_year_pattern")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FilesSkipped.WithLabelValues("directory")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.MissingValues), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.RecordsRead), 0)
}

func TestPipeline_Run_BaseDirMissing(t *testing.T) {
	exp := &mockExporter{}
	p, metrics := newPipeline(exp)

	_, err := p.Run(context.Background(), newRequest(t, filepath.Join(t.TempDir(), "nope"), 2021, "X"))
	require.ErrorIs(t, err, domain.ErrBaseDirMissing)
	assert.Empty(t, exp.tables)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RunsFailed.WithLabelValues("base_dir")), 0)
}

func TestPipeline_Run_StationFolderMissing(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "X", "AS.21"), "1 3\n")

	exp := &mockExporter{}
	p, metrics := newPipeline(exp)

	report, err := p.Run(context.Background(), newRequest(t, base, 2021, "Ghost", "X"))
	require.NoError(t, err)

	assert.Equal(t, []string{"X"}, report.Included)
	require.Len(t, report.Excluded, 1)
	assert.ErrorIs(t, report.Excluded[0].Err, domain.ErrStationFolderMissing)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.StationsExcluded.WithLabelValues("folder_missing")), 0)
}

func TestPipeline_Run_NoStationFolders(t *testing.T) {
	exp := &mockExporter{}
	p, _ := newPipeline(exp)

	_, err := p.Run(context.Background(), newRequest(t, t.TempDir(), 2021, "Ghost"))
	require.ErrorIs(t, err, domain.ErrNoStationData)
	assert.Contains(t, err.Error(), "no station folders")
	assert.Empty(t, exp.tables)
}

func TestPipeline_Run_NoStationYieldsData(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "Stale", "AS.19"), "1 3\n")
	writeFile(t, filepath.Join(base, "Broken", "AS.21"), "just-one-field\n")

	exp := &mockExporter{}
	p, metrics := newPipeline(exp)

	report, err := p.Run(context.Background(), newRequest(t, base, 2021, "Stale", "Broken"))
	require.ErrorIs(t, err, domain.ErrNoStationData)
	assert.Empty(t, exp.tables, "no output is produced")

	require.Len(t, report.Excluded, 2)
	assert.ErrorIs(t, report.Excluded[0].Err, domain.ErrNoFilesMatched)
	assert.ErrorIs(t, report.Excluded[1].Err, domain.ErrNoReadableFiles)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RunsFailed.WithLabelValues("no_data")), 0)
}

func TestPipeline_Run_ExportFailureKeepsTable(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "X", "AS.21"), "1 1\n2 3\n")

	exp := &mockExporter{err: errors.New("disk full")}
	p, metrics := newPipeline(exp)

	report, err := p.Run(context.Background(), newRequest(t, base, 2021, "X"))
	require.ErrorIs(t, err, domain.ErrExport)
	assert.Contains(t, err.Error(), "disk full")

	assert.Empty(t, report.OutputPath)
	assert.Equal(t, 3, report.Table.Rows())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RunsFailed.WithLabelValues("export")), 0)
}

func TestPipeline_Run_PublishesSummaries(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "X", "AS.21"), "1 1\n2 2\n")
	writeFile(t, filepath.Join(base, "Y", "AS.21"), "1 x\n")

	pub := &mockPublisher{}
	exp := &mockExporter{}
	p, metrics := newPipeline(exp)
	p.WithPublisher(pub, 0)

	report, err := p.Run(context.Background(), newRequest(t, base, 2021, "X", "Y"))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Published)
	require.Len(t, pub.summaries, 2)
	assert.Equal(t, "X", pub.summaries[0].Station)
	require.NotNil(t, pub.summaries[0].Mean)
	assert.InDelta(t, 1.5, *pub.summaries[0].Mean, 1e-12)
	assert.Equal(t, "Y", pub.summaries[1].Station)
	assert.Nil(t, pub.summaries[1].Mean)
	assert.Equal(t, 2, pub.summaries[1].Rows)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.SummariesPublished), 0)
}

func TestPipeline_Run_PublishFailureIsNotFatal(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "X", "AS.21"), "1 1\n")

	pub := &mockPublisher{err: errors.New("broker down")}
	p, metrics := newPipeline(&mockExporter{})
	p.WithPublisher(pub, 0)

	report, err := p.Run(context.Background(), newRequest(t, base, 2021, "X"))
	require.NoError(t, err)
	assert.Zero(t, report.Published)
	assert.NotEmpty(t, report.OutputPath)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PublishErrors), 0)
}

func TestOutputFileName(t *testing.T) {
	assert.Equal(t, "processed_climate_data_1992.xlsx", pipeline.OutputFileName(1992, ".xlsx"))
	assert.Equal(t, "processed_climate_data_2005.csv", pipeline.OutputFileName(2005, ".csv"))
}
