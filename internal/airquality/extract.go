package airquality

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
)

// Column names of the portal's monthly exports.
const (
	ColProvince     = "PROVINCIA"
	ColMunicipality = "MUNICIPIO"
	ColStation      = "ESTACION"
	ColMagnitude    = "MAGNITUD"
	ColYear         = "ANO"
	ColMonth        = "MES"

	// Delimiter is the field separator of the exports.
	Delimiter = ';'
)

var (
	requiredColumns = []string{ColProvince, ColMunicipality, ColStation, ColMagnitude, ColYear, ColMonth}
	dayColumnRe     = regexp.MustCompile(`^D\d{2}$`)
)

// IsDayColumn reports whether name is a day-of-month column (D01..D31).
func IsDayColumn(name string) bool {
	return dayColumnRe.MatchString(name)
}

// ExtractDaily returns the daily series of pollutant at the station
// identified by stationCode, read from the CSV export at path.
func ExtractDaily(path string, stationCode string, pollutant int) (*Series, error) {
	code, err := ParseStationCode(stationCode)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	s, err := ReadDaily(f, code, pollutant)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s, nil
}

// ExtractDailyInt is ExtractDaily with a numeric station code.
func ExtractDailyInt(path string, stationCode int, pollutant int) (*Series, error) {
	return ExtractDaily(path, strconv.Itoa(stationCode), pollutant)
}

// ExtractDailyMany extracts the series from every path, in order, and
// returns their concatenation sorted by date. Days present in more than one
// file are all kept. The first failing file aborts the extraction.
func ExtractDailyMany(paths []string, stationCode string, pollutant int) (*Series, error) {
	code, err := ParseStationCode(stationCode)
	if err != nil {
		return nil, err
	}

	parts := make([]*Series, 0, len(paths))
	for _, p := range paths {
		s, err := ExtractDaily(p, stationCode, pollutant)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}

	out := (&Series{Name: seriesName(code, pollutant)}).Concat(parts...)
	out.SortByDate()
	return out, nil
}

// dayValue is one unpivoted cell: a (year, month) row crossed with a day
// column.
type dayValue struct {
	year  float64
	month float64
	label string
	value float64
}

// ReadDaily reads a semicolon-separated export from r and returns the daily
// series of pollutant at station code. No matching rows yields an empty
// series.
func ReadDaily(r io.Reader, code StationCode, pollutant int) (*Series, error) {
	reader := csv.NewReader(r)
	reader.Comma = Delimiter
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse csv: no header row")
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	if err := checkColumns(header); err != nil {
		return nil, err
	}

	out := &Series{Name: seriesName(code, pollutant), Points: []Point{}}
	if len(records) == 1 {
		return out, nil
	}

	df := dataframe.LoadRecords(records, dataframe.HasHeader(true), dataframe.DetectTypes(true))
	if err := df.Error(); err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	// Columns are addressed by their position in the raw header. gota
	// renames repeated names, and a repeated day column still holds days.
	col := columnIndex(header)
	var dayCols []int
	for i, name := range header {
		if IsDayColumn(name) {
			dayCols = append(dayCols, i)
		}
	}

	keys := []struct {
		col  int
		want float64
	}{
		{col[ColProvince], float64(code.Province)},
		{col[ColMunicipality], float64(code.Municipality)},
		{col[ColStation], float64(code.Station)},
		{col[ColMagnitude], float64(pollutant)},
	}

	var cells []dayValue
	for row := 0; row < df.Nrow(); row++ {
		match := true
		for _, k := range keys {
			if df.Elem(row, k.col).Float() != k.want {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		for _, c := range dayCols {
			cells = append(cells, dayValue{
				year:  df.Elem(row, col[ColYear]).Float(),
				month: df.Elem(row, col[ColMonth]).Float(),
				label: header[c],
				value: df.Elem(row, c).Float(),
			})
		}
	}

	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].month != cells[j].month {
			return cells[i].month < cells[j].month
		}
		return cells[i].label < cells[j].label
	})

	for _, c := range cells {
		date, ok := calendarDate(c.year, c.month, c.label)
		if !ok {
			continue
		}
		v := c.value
		if v == 0 {
			v = math.NaN()
		}
		out.Points = append(out.Points, Point{Date: date, Value: v})
	}
	return out, nil
}

// columnIndex maps each column name to its first position in header.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	return idx
}

func checkColumns(header []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, c := range requiredColumns {
		if !present[c] {
			return fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return nil
}

// calendarDate builds the date of a cell, reporting false when the
// year/month/day triple is not a real calendar day.
func calendarDate(year, month float64, label string) (time.Time, bool) {
	day, err := strconv.Atoi(label[1:])
	if err != nil {
		return time.Time{}, false
	}
	if !isWhole(year) || !isWhole(month) {
		return time.Time{}, false
	}
	y, m := int(year), int(month)
	if y < 1 || y > 9999 || m < 1 || m > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != m {
		return time.Time{}, false
	}
	return t, true
}

func isWhole(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f)
}

func seriesName(code StationCode, pollutant int) string {
	if p, ok := LookupPollutant(pollutant); ok {
		return p.Formula + "@" + code.String()
	}
	return fmt.Sprintf("%d@%s", pollutant, code.String())
}
