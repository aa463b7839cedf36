package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"aqseries/internal/airquality"
)

const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(
	":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// XLSXWriter writes series as Excel workbooks
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a new workbook writer
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger.With(slog.String("component", "xlsx_writer"))}
}

// SheetName turns a series name into a valid worksheet name.
func SheetName(seriesName string) string {
	name := sheetNameReplacer.Replace(seriesName)
	name = strings.Trim(name, "'")
	if name == "" {
		return "Series"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

// WriteSeries writes s to filePath as a single-sheet workbook: a header row,
// then one row per day with a date cell and the reading. Missing readings
// are left blank unless options.DropMissing skips them.
func (w *XLSXWriter) WriteSeries(filePath string, s *airquality.Series, options WriteOptions) (err error) {
	w.logger.Info("Writing XLSX file",
		slog.String("full_path", filePath),
		slog.String("series", s.Name),
		slog.Int("record_count", s.Len()))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	sheet := SheetName(s.Name)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	dateFmt := DateLayoutExcel
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"date", "value"}); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", headerStyle); err != nil {
		return fmt.Errorf("failed to style headers: %w", err)
	}

	row := 2
	for _, p := range s.Points {
		if options.DropMissing && p.IsMissing() {
			continue
		}
		dateCell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(sheet, dateCell, p.Date); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		if err := f.SetCellStyle(sheet, dateCell, dateCell, dateStyle); err != nil {
			return fmt.Errorf("failed to style row %d: %w", row, err)
		}
		if !p.IsMissing() {
			valueCell, _ := excelize.CoordinatesToCellName(2, row)
			if err := f.SetCellFloat(sheet, valueCell, p.Value, -1, 64); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
		row++
	}

	if err := f.SetColWidth(sheet, "A", "A", 12); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// DateLayoutExcel is the number format applied to date cells.
const DateLayoutExcel = "yyyy-mm-dd"
