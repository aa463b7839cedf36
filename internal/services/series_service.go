package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/semaphore"

	"aqseries/internal/airquality"
	"aqseries/internal/config"
	apperrors "aqseries/internal/errors"
	"aqseries/internal/exporter"
	"aqseries/internal/files"
	"aqseries/internal/infrastructure"
)

// ExportFormat is the file format of a series export
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

// SeriesRequest identifies a daily series and the years to cover.
// A zero FromYear or ToYear leaves that end open.
type SeriesRequest struct {
	StationCode string
	Pollutant   int
	FromYear    int
	ToYear      int
	DropMissing bool
}

// SeriesResult is a daily series with the files it was read from
type SeriesResult struct {
	Station   airquality.StationCode
	Pollutant int
	Files     []files.FileInfo
	Series    *airquality.Series
}

// ExportResult describes a written export. Path is unique to the export;
// Name is the name to offer for download.
type ExportResult struct {
	Path   string
	Name   string
	Format ExportFormat
	Points int
}

// SeriesService reads daily series out of the yearly exports in the data
// directory. Concurrent extractions are bounded by MaxConcurrentLoads.
type SeriesService struct {
	paths     *config.Paths
	pattern   string
	discovery *files.Discovery
	manager   *files.Manager
	csv       *exporter.CSVWriter
	xlsx      *exporter.XLSXWriter
	sem       *semaphore.Weighted
	tracer    trace.Tracer
	metrics   *infrastructure.SeriesMetrics
	logger    *slog.Logger
}

// NewSeriesService creates a series service. tracer and metrics may be nil.
func NewSeriesService(cfg *config.Config, paths *config.Paths, tracer trace.Tracer, metrics *infrastructure.SeriesMetrics, logger *slog.Logger) *SeriesService {
	logger = infrastructure.WithComponent(logger, "series_service")
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer(infrastructure.MeterName)
	}

	limit := int64(cfg.Extraction.MaxConcurrentLoads)
	if limit < 1 {
		limit = 1
	}

	logger.Info("SeriesService initialized",
		slog.String("data_dir", paths.DataDir),
		slog.String("export_dir", paths.ExportDir),
		slog.String("file_pattern", cfg.Paths.FilePattern),
		slog.Int64("max_concurrent_loads", limit))

	return &SeriesService{
		paths:     paths,
		pattern:   cfg.Paths.FilePattern,
		discovery: files.NewDiscovery(paths.BaseDir),
		manager:   files.NewManager(paths, logger),
		csv:       exporter.NewCSVWriter(logger),
		xlsx:      exporter.NewXLSXWriter(logger),
		sem:       semaphore.NewWeighted(limit),
		tracer:    tracer,
		metrics:   metrics,
		logger:    logger,
	}
}

func validateRequest(req SeriesRequest) (airquality.StationCode, error) {
	code, err := airquality.ParseStationCode(req.StationCode)
	if err != nil {
		return code, apperrors.NewAppValidationError("invalid station code", err).
			WithContext("station", req.StationCode)
	}
	if req.Pollutant <= 0 {
		return code, apperrors.NewAppValidationError("invalid pollutant",
			fmt.Errorf("%w: %d", ErrInvalidPollutant, req.Pollutant))
	}
	if req.FromYear < 0 || req.ToYear < 0 || (req.FromYear != 0 && req.ToYear != 0 && req.FromYear > req.ToYear) {
		return code, apperrors.NewAppValidationError("invalid years",
			fmt.Errorf("%w: %d-%d", ErrInvalidYearRange, req.FromYear, req.ToYear))
	}
	return code, nil
}

// Daily returns the daily series of req.Pollutant at req.StationCode over
// the yearly files covering [FromYear, ToYear].
func (s *SeriesService) Daily(ctx context.Context, req SeriesRequest) (result *SeriesResult, err error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	ctx, span := s.tracer.Start(ctx, "SeriesService.Daily",
		trace.WithAttributes(
			attribute.String("station", req.StationCode),
			attribute.Int("pollutant", req.Pollutant),
			attribute.Int("from_year", req.FromYear),
			attribute.Int("to_year", req.ToYear),
		))
	defer span.End()

	start := time.Now()
	var loaded []files.FileInfo
	defer func() {
		points := 0
		if result != nil {
			points = result.Series.Len()
		}
		s.metrics.RecordExtraction(ctx, req.StationCode, req.Pollutant, len(loaded), points, time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	code, err := validateRequest(req)
	if err != nil {
		return nil, err
	}

	loaded, err = s.yearlyFiles(req.FromYear, req.ToYear)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("files", len(loaded)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	series, err := airquality.ExtractDailyMany(files.Paths(loaded), code.String(), req.Pollutant)
	if err != nil {
		s.logger.ErrorContext(ctx, "Series extraction failed",
			slog.String("station", code.String()),
			slog.Int("pollutant", req.Pollutant),
			slog.String("error", err.Error()))
		return nil, classifyExtractError(err)
	}

	series = series.Between(yearBounds(req.FromYear, req.ToYear))
	if req.DropMissing {
		series = series.DropMissing()
	}
	span.SetAttributes(attribute.Int("points", series.Len()))

	s.logger.InfoContext(ctx, "Series extracted",
		slog.String("series", series.Name),
		slog.Int("files", len(loaded)),
		slog.Int("points", series.Len()),
		slog.Int("missing", series.Missing()),
		slog.Float64("mean", series.Mean()),
		slog.Duration("duration", time.Since(start)))

	return &SeriesResult{
		Station:   code,
		Pollutant: req.Pollutant,
		Files:     loaded,
		Series:    series,
	}, nil
}

// Files lists the exports in the data directory matching the configured
// pattern, ordered by year then name.
func (s *SeriesService) Files(ctx context.Context) ([]files.FileInfo, error) {
	_, span := s.tracer.Start(ctx, "SeriesService.Files")
	defer span.End()

	found, err := s.discovery.FindCSVFiles(s.paths.DataDir)
	if err != nil {
		span.RecordError(err)
		return nil, dataDirError(err)
	}
	files.SortByYear(found)

	s.logger.DebugContext(ctx, "Listed data files", slog.Int("count", len(found)))
	return found, nil
}

// Export extracts the series described by req and writes it to the export
// directory in the given format.
func (s *SeriesService) Export(ctx context.Context, req SeriesRequest, format ExportFormat) (*ExportResult, error) {
	ctx, span := s.tracer.Start(ctx, "SeriesService.Export",
		trace.WithAttributes(attribute.String("format", string(format))))
	defer span.End()

	if format != FormatCSV && format != FormatXLSX {
		err := apperrors.NewAppValidationError("invalid format",
			fmt.Errorf("%w: %q", ErrUnsupportedFormat, format))
		span.RecordError(err)
		return nil, err
	}

	result, err := s.Daily(ctx, req)
	if err != nil {
		return nil, err
	}

	name := exportName(result.Series.Name, req.FromYear, req.ToYear, req.DropMissing, format)
	export, err := s.manager.CreateExport(name)
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.NewStorageError("failed to prepare export", err)
	}

	opts := exporter.WriteOptions{BOMPrefix: format == FormatCSV}
	switch format {
	case FormatCSV:
		err = s.csv.WriteSeries(export.TempPath, result.Series, opts)
	case FormatXLSX:
		err = s.xlsx.WriteSeries(export.TempPath, result.Series, opts)
	}
	if err == nil {
		err = s.manager.Commit(export)
	}
	if err != nil {
		span.RecordError(err)
		if rmErr := s.manager.Discard(export); rmErr != nil {
			s.logger.WarnContext(ctx, "Failed to remove partial export", slog.String("error", rmErr.Error()))
		}
		return nil, apperrors.NewStorageError("failed to write export", err)
	}

	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"export.name":   export.Name,
		"export.points": result.Series.Len(),
	})

	s.logger.InfoContext(ctx, "Series exported",
		slog.String("path", export.Path),
		slog.String("format", string(format)),
		slog.Int("points", result.Series.Len()))

	return &ExportResult{
		Path:   export.Path,
		Name:   export.Name,
		Format: format,
		Points: result.Series.Len(),
	}, nil
}

func (s *SeriesService) yearlyFiles(from, to int) ([]files.FileInfo, error) {
	found, err := s.discovery.FindYearlyFiles(s.paths.DataDir, s.pattern, from, to)
	if err != nil {
		return nil, dataDirError(err)
	}
	if len(found) == 0 {
		return nil, apperrors.NewNotFoundError("data files",
			fmt.Errorf("%w for years %d-%d in %s", ErrNoFilesFound, from, to, s.paths.DataDir))
	}
	return found, nil
}

func dataDirError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return apperrors.NewNotFoundError("data directory", fmt.Errorf("%w: %v", ErrNoFilesFound, err))
	}
	return apperrors.NewStorageError("failed to list data files", err)
}

func classifyExtractError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return apperrors.NewNotFoundError("data file", err)
	case errors.Is(err, airquality.ErrInvalidStationCode):
		return apperrors.NewAppValidationError("invalid station code", err)
	case errors.Is(err, fs.ErrPermission):
		return apperrors.NewStorageError("failed to read data file", err)
	default:
		return apperrors.NewParsingError("failed to read data file", err)
	}
}

// yearBounds turns a year range into inclusive date bounds; zero years stay open.
func yearBounds(from, to int) (time.Time, time.Time) {
	var lo, hi time.Time
	if from != 0 {
		lo = time.Date(from, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	if to != 0 {
		hi = time.Date(to, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	return lo, hi
}

// exportName is the download name of an export. Requests that differ in
// years or in dropping missing days get different names.
func exportName(series string, from, to int, dropMissing bool, format ExportFormat) string {
	span := "all"
	switch {
	case from != 0 && to != 0:
		span = fmt.Sprintf("%d-%d", from, to)
	case from != 0:
		span = fmt.Sprintf("%d-", from)
	case to != 0:
		span = fmt.Sprintf("-%d", to)
	}
	if dropMissing {
		span += "_valid"
	}
	return fmt.Sprintf("%s_%s.%s", series, span, format)
}
