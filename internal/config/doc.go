// Package config loads the server configuration.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML file: $AQ_CONFIG_FILE, config.yaml or configs/config.yaml
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern AQ_<SECTION>_<FIELD>:
//
//	AQ_SERVER_PORT=8080
//	AQ_PATHS_DATA_DIR=/srv/madrid/csv
//	AQ_LOGGING_LEVEL=debug
//	AQ_TELEMETRY_TRACE_EXPORTER=stdout
//	AQ_EXTRACTION_MAX_CONCURRENT_LOADS=2
//
// # Paths
//
// Relative directories are resolved against the working directory by
// ResolvePaths. Only the export and log directories are created on demand.
// A relative logging.file_path is placed in the logs directory.
//
// # Testing
//
// Use Default for a valid configuration that needs no environment or files.
package config
