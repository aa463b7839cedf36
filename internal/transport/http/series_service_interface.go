package http

import (
	"context"

	"aqseries/internal/files"
	"aqseries/internal/services"
)

// SeriesServiceInterface defines the interface for series operations
type SeriesServiceInterface interface {
	Daily(ctx context.Context, req services.SeriesRequest) (*services.SeriesResult, error)
	Files(ctx context.Context) ([]files.FileInfo, error)
	Export(ctx context.Context, req services.SeriesRequest, format services.ExportFormat) (*services.ExportResult, error)
}
