package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "aqseries/internal/errors"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "AQ"

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" envconfig:"SERVER"`
	Security   SecurityConfig   `yaml:"security" envconfig:"SECURITY"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
	Extraction ExtractionConfig `yaml:"extraction" envconfig:"EXTRACTION"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir     string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ExportDir   string `yaml:"export_dir" envconfig:"EXPORT_DIR"`
	LogsDir     string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
	FilePattern string `yaml:"file_pattern" envconfig:"FILE_PATTERN"`
}

// TelemetryConfig controls tracing and metrics
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	MetricsEnabled bool    `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}

// ExtractionConfig bounds the work done per series request
type ExtractionConfig struct {
	MaxConcurrentLoads int `yaml:"max_concurrent_loads" envconfig:"MAX_CONCURRENT_LOADS"`
}

// Load loads configuration from defaults, the first config file found and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Only variables that are set override; envconfig leaves the rest alone.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file at filePath onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %q", c.Logging.Output)
	}

	switch c.Telemetry.TraceExporter {
	case "none", "stdout":
	default:
		return fmt.Errorf("invalid trace exporter: %q", c.Telemetry.TraceExporter)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("sample ratio must be within [0, 1]: %v", c.Telemetry.SampleRatio)
	}

	if c.Extraction.MaxConcurrentLoads < 1 {
		return fmt.Errorf("max concurrent loads must be at least 1")
	}

	if c.Paths.DataDir == "" {
		return fmt.Errorf("data directory must be set")
	}

	if c.Paths.FilePattern == "" {
		c.Paths.FilePattern = "*.csv"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG_FILE"); p != "" {
		return p
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "aqserver.log",
		},
		Paths: PathsConfig{
			DataDir:     "data",
			ExportDir:   "exports",
			LogsDir:     "logs",
			FilePattern: "*.csv",
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "aqseries",
			TraceExporter:  "none",
			MetricsEnabled: true,
			SampleRatio:    1.0,
		},
		Extraction: ExtractionConfig{
			MaxConcurrentLoads: 4,
		},
	}
}
