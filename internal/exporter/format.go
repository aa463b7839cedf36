package exporter

import (
	"math"
	"strconv"
	"time"
)

// DateLayout is the date format of every export.
const DateLayout = "2006-01-02"

// formatValue renders a reading with the shortest exact representation;
// missing readings become the empty string.
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDate(t time.Time) string {
	return t.Format(DateLayout)
}
