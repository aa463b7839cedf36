package services

import "errors"

// Series service errors
var (
	// File errors
	ErrNoFilesFound = errors.New("no files found")

	// Request errors
	ErrInvalidYearRange  = errors.New("invalid year range")
	ErrInvalidPollutant  = errors.New("invalid pollutant code")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
