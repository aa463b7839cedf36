// Package app wires the series server together and manages its lifecycle.
//
// NewApplication loads the configuration, initializes the logger and
// telemetry, builds the services and the chi router, and creates the HTTP
// server. Run serves until SIGINT or SIGTERM, then drains in-flight
// requests and flushes telemetry:
//
//	application, err := app.NewApplication()
//	if err != nil {
//		return err
//	}
//	return application.Run()
//
// Errors are returned to the caller; the package never calls os.Exit.
package app
