package airquality

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Point is one day of a series. Value is NaN when there was no reading.
type Point struct {
	Date  time.Time
	Value float64
}

// IsMissing reports whether the point carries no reading.
func (p Point) IsMissing() bool {
	return math.IsNaN(p.Value)
}

// Series is a daily pollutant series indexed by date. Dates are UTC midnight
// and may repeat when the same day appears in more than one source row.
type Series struct {
	Name   string
	Points []Point
}

// Len returns the number of points, missing ones included.
func (s *Series) Len() int {
	return len(s.Points)
}

// Dates returns the index of the series.
func (s *Series) Dates() []time.Time {
	dates := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		dates[i] = p.Date
	}
	return dates
}

// Values returns the payload of the series, NaN for missing readings.
func (s *Series) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Value
	}
	return values
}

// SortByDate orders the points by date. Points sharing a date keep their
// relative order.
func (s *Series) SortByDate() {
	sort.SliceStable(s.Points, func(i, j int) bool {
		return s.Points[i].Date.Before(s.Points[j].Date)
	})
}

// Concat returns a new series holding the points of s followed by those of
// others. Nothing is deduplicated or sorted.
func (s *Series) Concat(others ...*Series) *Series {
	n := len(s.Points)
	for _, o := range others {
		n += len(o.Points)
	}
	points := make([]Point, 0, n)
	points = append(points, s.Points...)
	for _, o := range others {
		points = append(points, o.Points...)
	}
	return &Series{Name: s.Name, Points: points}
}

// DropMissing returns a copy of the series without missing readings.
func (s *Series) DropMissing() *Series {
	points := make([]Point, 0, len(s.Points))
	for _, p := range s.Points {
		if !p.IsMissing() {
			points = append(points, p)
		}
	}
	return &Series{Name: s.Name, Points: points}
}

// Between returns the points dated within [from, to]. A zero bound is open.
func (s *Series) Between(from, to time.Time) *Series {
	points := make([]Point, 0, len(s.Points))
	for _, p := range s.Points {
		if !from.IsZero() && p.Date.Before(from) {
			continue
		}
		if !to.IsZero() && p.Date.After(to) {
			continue
		}
		points = append(points, p)
	}
	return &Series{Name: s.Name, Points: points}
}

// Valid counts the points carrying a reading.
func (s *Series) Valid() int {
	n := 0
	for _, p := range s.Points {
		if !p.IsMissing() {
			n++
		}
	}
	return n
}

// Missing counts the points without a reading.
func (s *Series) Missing() int {
	return len(s.Points) - s.Valid()
}

// Mean is the arithmetic mean of the readings, NaN when there are none.
func (s *Series) Mean() float64 {
	values := s.DropMissing().Values()
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// Min returns the smallest reading, NaN when there are none.
func (s *Series) Min() float64 {
	values := s.DropMissing().Values()
	if len(values) == 0 {
		return math.NaN()
	}
	return floats.Min(values)
}

// Max returns the largest reading, NaN when there are none.
func (s *Series) Max() float64 {
	values := s.DropMissing().Values()
	if len(values) == 0 {
		return math.NaN()
	}
	return floats.Max(values)
}
