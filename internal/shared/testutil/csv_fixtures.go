package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// ExportRow is one (station, pollutant, year, month) row of a portal export.
// Days maps a day of month to its reading; absent days are written as 0
// with an "N" validity flag, as the portal does.
type ExportRow struct {
	Province     int
	Municipality int
	Station      int
	Pollutant    int
	Year         int
	Month        int
	Days         map[int]float64
}

// ExportHeader is the full header of a monthly-pivoted export.
func ExportHeader() []string {
	header := []string{"PROVINCIA", "MUNICIPIO", "ESTACION", "MAGNITUD", "PUNTO_MUESTREO", "ANO", "MES"}
	for d := 1; d <= 31; d++ {
		header = append(header, fmt.Sprintf("D%02d", d), fmt.Sprintf("V%02d", d))
	}
	return header
}

func (r ExportRow) fields() []string {
	point := fmt.Sprintf("%02d%03d%03d_%d_8", r.Province, r.Municipality, r.Station, r.Pollutant)
	fields := []string{
		strconv.Itoa(r.Province),
		fmt.Sprintf("%03d", r.Municipality),
		fmt.Sprintf("%03d", r.Station),
		strconv.Itoa(r.Pollutant),
		point,
		strconv.Itoa(r.Year),
		strconv.Itoa(r.Month),
	}
	for d := 1; d <= 31; d++ {
		v, ok := r.Days[d]
		flag := "V"
		if !ok {
			flag = "N"
		}
		fields = append(fields, strconv.FormatFloat(v, 'f', -1, 64), flag)
	}
	return fields
}

// RenderExport renders rows as a semicolon-separated export with header.
func RenderExport(rows ...ExportRow) string {
	var b strings.Builder
	b.WriteString(strings.Join(ExportHeader(), ";"))
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(strings.Join(r.fields(), ";"))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteExport writes rows to dir/name and returns the path.
func WriteExport(t testing.TB, dir, name string, rows ...ExportRow) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(RenderExport(rows...)), 0644); err != nil {
		t.Fatalf("write export %s: %v", path, err)
	}
	return path
}

// MonthOf returns a row for the Madrid station with the given readings.
func MonthOf(station, pollutant, year, month int, days map[int]float64) ExportRow {
	return ExportRow{
		Province:     28,
		Municipality: 79,
		Station:      station,
		Pollutant:    pollutant,
		Year:         year,
		Month:        month,
		Days:         days,
	}
}
