// Package api contains the request and response contracts of the HTTP API.
// Version v1 represents the current stable API version.
package api

// SeriesQuery selects a daily series. Station and Pollutant come from the
// path, the rest from the query string. Zero years leave the range open.
type SeriesQuery struct {
	Station     string `json:"station" param:"station" validate:"required,stationcode"`
	Pollutant   int    `json:"pollutant" param:"pollutant" validate:"required,min=1"`
	From        int    `json:"from,omitempty" query:"from" validate:"omitempty,gte=1900,lte=2100"`
	To          int    `json:"to,omitempty" query:"to" validate:"omitempty,gte=1900,lte=2100"`
	DropMissing bool   `json:"drop_missing,omitempty" query:"drop_missing"`
}

// ExportQuery selects a series and the file format to export it in
type ExportQuery struct {
	SeriesQuery
	Format string `json:"format" query:"format" validate:"required,oneof=csv xlsx"`
}
