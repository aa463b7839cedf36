// Package http implements the HTTP handlers of the series API. Handlers
// parse and validate the request, call the service layer and render JSON;
// every failure is answered with an RFC 7807 problem through
// errors.ErrorHandler.
//
// Routes:
//
//	GET /api/series/{station}/{pollutant}          daily series as JSON
//	GET /api/series/{station}/{pollutant}/export   CSV or XLSX download
//	GET /api/files                                 data files by year
//	GET /api/pollutants                            pollutant catalogue
//	GET /api/health                                liveness
//	GET /api/health/ready                          data and export dirs usable
//	GET /api/version                               build information
//
// {pollutant} is a magnitude code (8) or a formula (NO2). Query parameters
// from and to bound the years; drop_missing=true leaves out days without a
// reading. In JSON a missing reading is null.
package http
