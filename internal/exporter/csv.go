package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"aqseries/internal/airquality"
)

// SeriesHeaders is the header row of a series export.
var SeriesHeaders = []string{"date", "value"}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger.With(slog.String("component", "csv_writer"))}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix   bool // Add UTF-8 BOM for Excel compatibility
	DropMissing bool // Skip days without a reading instead of writing an empty value
}

// WriteSeries writes s to filePath as date,value rows, replacing any
// existing file.
func (w *CSVWriter) WriteSeries(filePath string, s *airquality.Series, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("full_path", filePath),
		slog.String("series", s.Name),
		slog.Int("record_count", s.Len()))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	if err := WriteSeriesTo(file, s, options); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteSeriesTo writes s as CSV to out.
func WriteSeriesTo(out io.Writer, s *airquality.Series, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(SeriesHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, p := range s.Points {
		if options.DropMissing && p.IsMissing() {
			continue
		}
		if err := writer.Write([]string{formatDate(p.Date), formatValue(p.Value)}); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
