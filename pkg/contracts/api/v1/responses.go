package api

import "time"

// PointResponse is one day of a series. Value is null for a missing reading.
type PointResponse struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// SeriesResponse is a daily series with its summary statistics.
// Mean, Min and Max are null when the series has no reading.
type SeriesResponse struct {
	Series    string          `json:"series"`
	Station   string          `json:"station"`
	Pollutant int             `json:"pollutant"`
	Formula   string          `json:"formula,omitempty"`
	Unit      string          `json:"unit,omitempty"`
	Files     []string        `json:"files"`
	Count     int             `json:"count"`
	Valid     int             `json:"valid"`
	Missing   int             `json:"missing"`
	Mean      *float64        `json:"mean"`
	Min       *float64        `json:"min"`
	Max       *float64        `json:"max"`
	Data      []PointResponse `json:"data"`
}

// FileResponse describes a data file
type FileResponse struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	Year    int       `json:"year,omitempty"`
}

// FilesResponse lists the data files
type FilesResponse struct {
	Files []FileResponse `json:"files"`
	Count int            `json:"count"`
}

// PollutantResponse is one entry of the pollutant catalogue
type PollutantResponse struct {
	Code    int    `json:"code"`
	Formula string `json:"formula"`
	Name    string `json:"name"`
	Unit    string `json:"unit"`
}

// PollutantsResponse is the pollutant catalogue
type PollutantsResponse struct {
	Pollutants []PollutantResponse `json:"pollutants"`
}
