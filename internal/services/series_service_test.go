package services

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"golang.org/x/sync/errgroup"

	"aqseries/internal/airquality"
	"aqseries/internal/config"
	apperrors "aqseries/internal/errors"
	"aqseries/internal/infrastructure"
	"aqseries/internal/shared/testutil"
)

const station = "28079035"

type fixture struct {
	service *SeriesService
	paths   *config.Paths
	dataDir string
	logs    *testutil.BufferedSlogHandler
}

func newFixture(t *testing.T, metrics *infrastructure.SeriesMetrics) *fixture {
	t.Helper()

	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "data"), 0755))

	cfg := config.Default()
	cfg.Extraction.MaxConcurrentLoads = 2
	paths, err := config.ResolvePaths(cfg.Paths, base)
	require.NoError(t, err)

	logger, handler := testutil.NewTestLogger(t)
	return &fixture{
		service: NewSeriesService(cfg, paths, nil, metrics, logger),
		paths:   paths,
		dataDir: paths.DataDir,
		logs:    handler,
	}
}

func (f *fixture) writeYears(t *testing.T) {
	t.Helper()
	testutil.WriteExport(t, f.dataDir, "datos2019.csv",
		testutil.MonthOf(35, airquality.NO2, 2019, 1, map[int]float64{1: 40, 2: 41.5}),
		testutil.MonthOf(35, airquality.O3, 2019, 1, map[int]float64{1: 90}),
		testutil.MonthOf(4, airquality.NO2, 2019, 1, map[int]float64{1: 12}),
	)
	testutil.WriteExport(t, f.dataDir, "datos2020.csv",
		testutil.MonthOf(35, airquality.NO2, 2020, 2, map[int]float64{29: 33}),
	)
}

func appErrorType(t *testing.T, err error) apperrors.ErrorType {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	return appErr.Type
}

func TestSeriesService_Daily(t *testing.T) {
	f := newFixture(t, nil)
	f.writeYears(t)

	result, err := f.service.Daily(context.Background(), SeriesRequest{StationCode: station, Pollutant: airquality.NO2})
	require.NoError(t, err)

	// 31 January days plus 29 February days of the leap year
	assert.Equal(t, 60, result.Series.Len())
	assert.Equal(t, "NO2@28079035", result.Series.Name)
	assert.Len(t, result.Files, 2)
	assert.Equal(t, airquality.StationCode{Province: 28, Municipality: 79, Station: 35}, result.Station)

	first := result.Series.Points[0]
	assert.Equal(t, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 40.0, first.Value)
	assert.True(t, math.IsNaN(result.Series.Points[2].Value))

	last := result.Series.Points[result.Series.Len()-1]
	assert.Equal(t, time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), last.Date)
	assert.Equal(t, 33.0, last.Value)
	assert.Equal(t, 3, result.Series.Valid())

	testutil.AssertLogContains(t, f.logs, slog.LevelInfo, "Series extracted")
	testutil.AssertLogAttr(t, f.logs, "component", "series_service")
	testutil.AssertNoErrors(t, f.logs)
}

func TestSeriesService_Daily_YearRange(t *testing.T) {
	f := newFixture(t, nil)
	f.writeYears(t)

	result, err := f.service.Daily(context.Background(), SeriesRequest{
		StationCode: station,
		Pollutant:   airquality.NO2,
		FromYear:    2020,
	})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "datos2020.csv", result.Files[0].Name)
	assert.Equal(t, 29, result.Series.Len())
}

func TestSeriesService_Daily_DropsRowsOutsideRequestedYears(t *testing.T) {
	f := newFixture(t, nil)
	testutil.WriteExport(t, f.dataDir, "datos2020.csv",
		testutil.MonthOf(35, airquality.NO2, 2019, 12, map[int]float64{31: 10}),
		testutil.MonthOf(35, airquality.NO2, 2020, 1, map[int]float64{1: 20}),
	)

	result, err := f.service.Daily(context.Background(), SeriesRequest{
		StationCode: station,
		Pollutant:   airquality.NO2,
		FromYear:    2020,
		ToYear:      2020,
	})
	require.NoError(t, err)
	assert.Equal(t, 31, result.Series.Len())
	assert.Equal(t, 2020, result.Series.Points[0].Date.Year())
}

func TestSeriesService_Daily_DropMissing(t *testing.T) {
	f := newFixture(t, nil)
	f.writeYears(t)

	result, err := f.service.Daily(context.Background(), SeriesRequest{
		StationCode: station,
		Pollutant:   airquality.NO2,
		DropMissing: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{40, 41.5, 33}, result.Series.Values())
}

func TestSeriesService_Daily_NoMatchingRows(t *testing.T) {
	f := newFixture(t, nil)
	f.writeYears(t)

	result, err := f.service.Daily(context.Background(), SeriesRequest{StationCode: "28079099", Pollutant: airquality.NO2})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Series.Len())
	assert.Len(t, result.Files, 2)
}

func TestSeriesService_Daily_Errors(t *testing.T) {
	tests := []struct {
		name     string
		req      SeriesRequest
		wantType apperrors.ErrorType
		wantIs   error
	}{
		{
			name:     "non numeric station",
			req:      SeriesRequest{StationCode: "ab", Pollutant: airquality.NO2},
			wantType: apperrors.ErrTypeValidation,
			wantIs:   airquality.ErrInvalidStationCode,
		},
		{
			name:     "zero pollutant",
			req:      SeriesRequest{StationCode: station},
			wantType: apperrors.ErrTypeValidation,
			wantIs:   ErrInvalidPollutant,
		},
		{
			name:     "reversed years",
			req:      SeriesRequest{StationCode: station, Pollutant: airquality.NO2, FromYear: 2021, ToYear: 2019},
			wantType: apperrors.ErrTypeValidation,
			wantIs:   ErrInvalidYearRange,
		},
		{
			name:     "no files in range",
			req:      SeriesRequest{StationCode: station, Pollutant: airquality.NO2, FromYear: 2030},
			wantType: apperrors.ErrTypeNotFound,
			wantIs:   ErrNoFilesFound,
		},
	}

	f := newFixture(t, nil)
	f.writeYears(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.service.Daily(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.wantType, appErrorType(t, err))
			assert.ErrorIs(t, err, tt.wantIs)
		})
	}
}

func TestSeriesService_Daily_MissingDataDir(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, os.RemoveAll(f.dataDir))

	_, err := f.service.Daily(context.Background(), SeriesRequest{StationCode: station, Pollutant: airquality.NO2})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeNotFound, appErrorType(t, err))
	assert.ErrorIs(t, err, ErrNoFilesFound)
}

func TestSeriesService_Daily_UnreadableFile(t *testing.T) {
	f := newFixture(t, nil)
	f.writeYears(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.dataDir, "datos2021.csv"),
		[]byte("PROVINCIA;MUNICIPIO;ESTACION;MAGNITUD;ANO;D01\n28;79;35;8;2021;5\n"), 0644))

	_, err := f.service.Daily(context.Background(), SeriesRequest{StationCode: station, Pollutant: airquality.NO2})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeParsing, appErrorType(t, err))
	assert.ErrorIs(t, err, airquality.ErrMissingColumn)
	testutil.AssertLogContains(t, f.logs, slog.LevelError, "Series extraction failed")
}

func TestSeriesService_Daily_CancelledContext(t *testing.T) {
	f := newFixture(t, nil)
	f.writeYears(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service.Daily(ctx, SeriesRequest{StationCode: station, Pollutant: airquality.NO2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSeriesService_Daily_Concurrent(t *testing.T) {
	f := newFixture(t, nil)
	f.writeYears(t)

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			result, err := f.service.Daily(ctx, SeriesRequest{StationCode: station, Pollutant: airquality.NO2})
			if err != nil {
				return err
			}
			if result.Series.Len() != 60 {
				return errors.New("unexpected series length")
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())
}

func TestSeriesService_Daily_RecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := infrastructure.CreateSeriesMetrics(provider.Meter("test"))
	require.NoError(t, err)

	f := newFixture(t, metrics)
	f.writeYears(t)

	_, err = f.service.Daily(context.Background(), SeriesRequest{StationCode: station, Pollutant: airquality.NO2})
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(1), sums["series_extractions_total"])
	assert.Equal(t, int64(60), sums["series_points_total"])
	assert.Equal(t, int64(2), sums["series_files_loaded_total"])
}

func TestSeriesService_Files(t *testing.T) {
	f := newFixture(t, nil)
	f.writeYears(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.dataDir, "stations.csv"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(f.dataDir, "readme.txt"), []byte("x"), 0644))

	found, err := f.service.Files(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, "stations.csv", found[0].Name)
	assert.Equal(t, 0, found[0].Year)
	assert.Equal(t, 2019, found[1].Year)
	assert.Equal(t, 2020, found[2].Year)
}

func TestSeriesService_Files_MissingDataDir(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, os.RemoveAll(f.dataDir))

	_, err := f.service.Files(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeNotFound, appErrorType(t, err))
}

func TestSeriesService_Export_CSV(t *testing.T) {
	f := newFixture(t, nil)
	f.writeYears(t)

	result, err := f.service.Export(context.Background(), SeriesRequest{
		StationCode: station,
		Pollutant:   airquality.NO2,
		FromYear:    2019,
		ToYear:      2020,
	}, FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "NO2@28079035_2019-2020.csv", result.Name)
	assert.Equal(t, f.paths.ExportDir, filepath.Dir(result.Path))
	assert.True(t, strings.HasPrefix(filepath.Base(result.Path), "NO2@28079035_2019-2020_"))
	assert.Equal(t, 60, result.Points)

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "\ufeffdate,value", lines[0])
	assert.Equal(t, "2019-01-01,40", lines[1])
	assert.Equal(t, "2019-01-03,", lines[3])
	assert.Len(t, lines, 61)
}

func TestSeriesService_Export_XLSX(t *testing.T) {
	f := newFixture(t, nil)
	f.writeYears(t)

	result, err := f.service.Export(context.Background(), SeriesRequest{
		StationCode: station,
		Pollutant:   airquality.NO2,
		DropMissing: true,
	}, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "NO2@28079035_all_valid.xlsx", result.Name)
	assert.Equal(t, ".xlsx", filepath.Ext(result.Path))

	wb, err := excelize.OpenFile(result.Path)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("NO2@28079035")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestSeriesService_Export_ConcurrentOptions(t *testing.T) {
	f := newFixture(t, nil)
	f.writeYears(t)

	requests := []SeriesRequest{
		{StationCode: station, Pollutant: airquality.NO2},
		{StationCode: station, Pollutant: airquality.NO2, DropMissing: true},
	}
	results := make([]*ExportResult, len(requests))

	g, ctx := errgroup.WithContext(context.Background())
	for i, req := range requests {
		g.Go(func() error {
			result, err := f.service.Export(ctx, req, FormatCSV)
			results[i] = result
			return err
		})
	}
	require.NoError(t, g.Wait())

	full, valid := results[0], results[1]
	assert.Equal(t, "NO2@28079035_all.csv", full.Name)
	assert.Equal(t, "NO2@28079035_all_valid.csv", valid.Name)
	assert.NotEqual(t, full.Path, valid.Path)

	lineCount := func(path string) int {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		return len(strings.Split(strings.TrimSpace(string(data)), "\n"))
	}
	assert.Equal(t, 61, lineCount(full.Path))
	assert.Equal(t, 4, lineCount(valid.Path))

	entries, err := os.ReadDir(f.paths.ExportDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "leftover temp file %s", e.Name())
	}
}

func TestSeriesService_Export_RepeatedRequestKeepsEarlierFile(t *testing.T) {
	f := newFixture(t, nil)
	f.writeYears(t)

	req := SeriesRequest{StationCode: station, Pollutant: airquality.NO2}
	first, err := f.service.Export(context.Background(), req, FormatCSV)
	require.NoError(t, err)
	before, err := os.ReadFile(first.Path)
	require.NoError(t, err)

	second, err := f.service.Export(context.Background(), req, FormatCSV)
	require.NoError(t, err)
	assert.NotEqual(t, first.Path, second.Path)

	after, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSeriesService_Export_Errors(t *testing.T) {
	f := newFixture(t, nil)
	f.writeYears(t)

	_, err := f.service.Export(context.Background(), SeriesRequest{StationCode: station, Pollutant: airquality.NO2}, "pdf")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeValidation, appErrorType(t, err))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = f.service.Export(context.Background(), SeriesRequest{StationCode: "x", Pollutant: airquality.NO2}, FormatCSV)
	assert.Equal(t, apperrors.ErrTypeValidation, appErrorType(t, err))
}

func TestExportName(t *testing.T) {
	assert.Equal(t, "NO2@1_2019-2020.csv", exportName("NO2@1", 2019, 2020, false, FormatCSV))
	assert.Equal(t, "NO2@1_2019-.xlsx", exportName("NO2@1", 2019, 0, false, FormatXLSX))
	assert.Equal(t, "NO2@1_-2020.csv", exportName("NO2@1", 0, 2020, false, FormatCSV))
	assert.Equal(t, "NO2@1_all.csv", exportName("NO2@1", 0, 0, false, FormatCSV))
	assert.Equal(t, "NO2@1_all_valid.csv", exportName("NO2@1", 0, 0, true, FormatCSV))
	assert.Equal(t, "NO2@1_2019-2020_valid.xlsx", exportName("NO2@1", 2019, 2020, true, FormatXLSX))
}
