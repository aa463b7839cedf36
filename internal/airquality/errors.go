package airquality

import "errors"

var (
	// ErrInvalidStationCode is returned when a station code cannot be split
	// into its province, municipality and station parts.
	ErrInvalidStationCode = errors.New("invalid station code")

	// ErrMissingColumn is returned when a required column is absent from the
	// CSV header.
	ErrMissingColumn = errors.New("missing required column")
)
