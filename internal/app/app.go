package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"aqseries/internal/config"
	apperrors "aqseries/internal/errors"
	"aqseries/internal/infrastructure"
	customMiddleware "aqseries/internal/middleware"
	"aqseries/internal/services"
	handlers "aqseries/internal/transport/http"
	"aqseries/pkg/contracts"
)

const AppName = "aqserver"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	SeriesService *services.SeriesService
	HealthService *services.HealthService
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
}

// NewApplication loads the configuration and logger from the environment
// and builds the application
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	paths, err := cfg.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}

	// A relative log file lives in the logs directory
	if !filepath.IsAbs(cfg.Logging.FilePath) {
		cfg.Logging.FilePath = paths.GetLogPath(cfg.Logging.FilePath)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, paths, logger)
}

// New wires the application from an already loaded configuration
func New(cfg *config.Config, paths *config.Paths, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("build", contracts.GetVersionInfo().String()))

	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	metrics, err := infrastructure.CreateSeriesMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create series metrics: %w", err)
	}

	a.SeriesService = services.NewSeriesService(a.Config, a.Paths, a.OTelProviders.Tracer, metrics, a.Logger)
	a.HealthService = services.NewHealthService(contracts.Version, a.Config, a.Paths, a.Logger)
	return nil
}

// setupRouter configures middleware and routes.
// Ordering: OTel, RequestID, RealIP, Logger, Recoverer, then the rest.
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apperrors.NewErrorHandler(a.Logger, a.Config.Logging.Level == "debug")

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
	if err != nil {
		a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
	} else {
		r.Use(otelMiddleware.Handler)
	}

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(apperrors.RecoveryMiddleware(errorHandler))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		Logger:         a.Logger,
	}))

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)

		seriesHandler := handlers.NewSeriesHandler(a.SeriesService, a.Logger, errorHandler)
		r.Mount("/series", seriesHandler.Routes())
		r.Get("/files", seriesHandler.GetFiles)
		r.Get("/pollutants", seriesHandler.GetPollutants)
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Serve runs the server until ctx is done, then shuts it down. A nil
// listener listens on the configured port.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	a.performStartupHealthCheck(ctx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if ln != nil {
			a.Logger.InfoContext(ctx, "Server listening", slog.String("address", ln.Addr().String()))
			err = a.Server.Serve(ln)
		} else {
			a.Logger.InfoContext(ctx, "Server listening", slog.String("address", a.Server.Addr))
			err = a.Server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(ctx))
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until SIGINT or SIGTERM
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.Serve(ctx, nil)
}

// performStartupHealthCheck logs what would make the server not ready.
// Missing data is not fatal: files may be copied in later.
func (a *Application) performStartupHealthCheck(ctx context.Context) {
	status := a.HealthService.ReadinessCheck(ctx)
	if status.Status == "ready" {
		a.Logger.InfoContext(ctx, "Startup health check passed",
			slog.String("data", status.Services["data"].Message))
	}
}
