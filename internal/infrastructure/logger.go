package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"aqseries/internal/config"
)

var (
	globalLogger     *slog.Logger
	globalLoggerOnce sync.Once

	// globalLogFile is closed by CloseLogFile on shutdown
	globalLogFile *os.File
	logFileMu     sync.Mutex
)

type contextKey string

// TraceIDContextKey is the key for storing trace ID in context
const TraceIDContextKey contextKey = "trace_id"

// InitializeLogger creates the process logger and makes it the slog default.
// Later calls return the first logger.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	var err error
	globalLoggerOnce.Do(func() {
		var logger *slog.Logger
		logger, err = NewLogger(cfg, os.Stdout)
		if logger == nil {
			return
		}
		globalLogger = logger.With(
			slog.String("service", MeterName),
			slog.String("version", ServiceVersion),
		)
		slog.SetDefault(globalLogger)
	})
	return globalLogger, err
}

// GetLogger returns the process logger, or slog.Default before
// InitializeLogger ran.
func GetLogger() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}

// NewLogger builds a JSON logger writing to console, to cfg.FilePath, or to
// both, depending on cfg.Output.
func NewLogger(cfg config.LoggingConfig, console io.Writer) (*slog.Logger, error) {
	var output io.Writer = console

	switch strings.ToLower(cfg.Output) {
	case "file", "both":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		setLogFile(file)
		output = file
		if strings.EqualFold(cfg.Output, "both") {
			output = io.MultiWriter(console, file)
		}
	}

	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		AddSource:   true,
		Level:       parseLogLevel(cfg.Level),
		ReplaceAttr: replaceNonFinite,
	})
	return slog.New(&traceHandler{Handler: handler}), nil
}

// replaceNonFinite renders NaN and infinities as strings. Missing readings
// are NaN and encoding/json refuses them, which would break the whole line.
func replaceNonFinite(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindFloat64 {
		return a
	}
	if f := a.Value.Float64(); math.IsNaN(f) || math.IsInf(f, 0) {
		return slog.String(a.Key, strconv.FormatFloat(f, 'f', -1, 64))
	}
	return a
}

func setLogFile(f *os.File) {
	logFileMu.Lock()
	defer logFileMu.Unlock()
	if globalLogFile != nil {
		globalLogFile.Close()
	}
	globalLogFile = f
}

// traceHandler adds the trace_id carried by the context to every record
type traceHandler struct {
	slog.Handler
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if traceID := GetTraceID(ctx); traceID != "" {
		r.AddAttrs(slog.String("trace_id", traceID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name)}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithTraceID adds a trace ID to the context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDContextKey, traceID)
}

// GetTraceID retrieves the trace ID from context
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, _ := ctx.Value(TraceIDContextKey).(string)
	return traceID
}

// CloseLogFile closes the log file opened by NewLogger, if any.
func CloseLogFile() error {
	logFileMu.Lock()
	defer logFileMu.Unlock()

	if globalLogFile == nil {
		return nil
	}
	err := globalLogFile.Close()
	globalLogFile = nil
	return err
}

// ResetLoggerForTesting resets the global logger state.
func ResetLoggerForTesting() {
	CloseLogFile()
	globalLogger = nil
	globalLoggerOnce = sync.Once{}
}

func openLogFile(filePath string) (*os.File, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", filePath, err)
	}
	return file, nil
}
