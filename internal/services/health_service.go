package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"aqseries/internal/config"
	"aqseries/internal/files"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	paths     *config.Paths
	pattern   string
	discovery *files.Discovery
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, cfg *config.Config, paths *config.Paths, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized", slog.String("version", version))

	return &HealthService{
		version:   version,
		paths:     paths,
		pattern:   cfg.Paths.FilePattern,
		discovery: files.NewDiscovery(paths.BaseDir),
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// ReadinessCheck reports whether the data and export directories are usable
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"data":    hs.checkDataHealth(),
			"exports": hs.checkExportHealth(),
		},
	}

	for name, service := range status.Services {
		if service.Status != "ready" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "Readiness check failed",
				slog.String("service", name),
				slog.String("message", service.Message))
		}
	}

	return status
}

func (hs *HealthService) checkDataHealth() ServiceHealth {
	found, err := hs.discovery.FindFilesByPattern(hs.paths.DataDir, hs.pattern)
	if err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Data directory not readable: %s", hs.paths.DataDir),
		}
	}
	yearly := files.FilterByYear(found, 0, 0)
	latest, ok := files.GetLatestFile(yearly)
	if !ok {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("No yearly exports in %s", hs.paths.DataDir),
		}
	}

	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d data files, latest %s", len(yearly), latest.Name),
	}
}

func (hs *HealthService) checkExportHealth() ServiceHealth {
	if err := os.MkdirAll(hs.paths.ExportDir, 0755); err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Cannot write to export directory: %v", err),
		}
	}

	return ServiceHealth{Status: "ready"}
}
