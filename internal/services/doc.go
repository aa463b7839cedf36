// Package services implements the business logic between the HTTP handlers
// and the airquality extraction library.
//
// SeriesService turns a request for a station, a pollutant and a span of
// years into a daily series: it discovers the yearly exports in the data
// directory, extracts and concatenates them, trims the result to the
// requested years and records a span and metrics for every extraction.
//
//	svc := services.NewSeriesService(cfg, paths, providers.Tracer, metrics, logger)
//	result, err := svc.Daily(ctx, services.SeriesRequest{
//		StationCode: "28079035",
//		Pollutant:   airquality.NO2,
//		FromYear:    2018,
//		ToYear:      2020,
//	})
//
// # Error Handling
//
// Failures are returned as *errors.AppError so handlers can map them to
// problem responses:
//
//	- VALIDATION for a bad station code, pollutant, year range or format
//	- NOT_FOUND when no export covers the requested years
//	- PARSING when an export cannot be read
//	- STORAGE when an export cannot be written
//
// The package sentinels (ErrNoFilesFound, ErrInvalidYearRange, ...) stay
// reachable through errors.Is.
//
// HealthService reports liveness and whether the data and export
// directories are usable.
package services
