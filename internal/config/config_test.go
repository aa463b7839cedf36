package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "aqseries/internal/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults without file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "environment overrides defaults",
			env: map[string]string{
				"AQ_SERVER_PORT":                     "9090",
				"AQ_SERVER_READ_TIMEOUT":             "30s",
				"AQ_SECURITY_ALLOWED_ORIGINS":        "http://a.example,http://b.example",
				"AQ_LOGGING_LEVEL":                   "debug",
				"AQ_PATHS_DATA_DIR":                  "/srv/csv",
				"AQ_TELEMETRY_TRACE_EXPORTER":        "stdout",
				"AQ_EXTRACTION_MAX_CONCURRENT_LOADS": "2",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "/srv/csv", cfg.Paths.DataDir)
				assert.Equal(t, "stdout", cfg.Telemetry.TraceExporter)
				assert.Equal(t, 2, cfg.Extraction.MaxConcurrentLoads)
				// untouched fields keep their defaults
				assert.Equal(t, time.Minute, cfg.Server.WriteTimeout)
				assert.Equal(t, "*.csv", cfg.Paths.FilePattern)
			},
		},
		{
			name: "file overrides defaults",
			file: `
server:
  port: 7070
  write_timeout: 2m
paths:
  data_dir: /data/madrid
  file_pattern: "datos*.csv"
extraction:
  max_concurrent_loads: 8
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, 2*time.Minute, cfg.Server.WriteTimeout)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "/data/madrid", cfg.Paths.DataDir)
				assert.Equal(t, "datos*.csv", cfg.Paths.FilePattern)
				assert.Equal(t, "exports", cfg.Paths.ExportDir)
				assert.Equal(t, 8, cfg.Extraction.MaxConcurrentLoads)
			},
		},
		{
			name: "environment takes precedence over file",
			env:  map[string]string{"AQ_SERVER_PORT": "6060"},
			file: "server:\n  port: 7070\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 6060, cfg.Server.Port)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"AQ_SERVER_PORT": "99999"},
			wantErr: "invalid server port",
		},
		{
			name:    "unparseable env value",
			env:     map[string]string{"AQ_SERVER_PORT": "eighty"},
			wantErr: "failed to load config from env",
		},
		{
			name:    "malformed yaml",
			file:    "server: [port",
			wantErr: "failed to load config from file",
		},
		{
			name:    "unknown trace exporter",
			env:     map[string]string{"AQ_TELEMETRY_TRACE_EXPORTER": "jaeger"},
			wantErr: "invalid trace exporter",
		},
		{
			name:    "zero concurrent loads",
			env:     map[string]string{"AQ_EXTRACTION_MAX_CONCURRENT_LOADS": "0"},
			wantErr: "max concurrent loads",
		},
		{
			name:    "bad logging output",
			file:    "logging:\n  output: syslog\n",
			wantErr: "invalid logging output",
		},
		{
			name:    "sample ratio out of range",
			env:     map[string]string{"AQ_TELEMETRY_SAMPLE_RATIO": "1.5"},
			wantErr: "sample ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			var file string
			if tt.file != "" {
				file = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFrom(file)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 5050\n")
	t.Setenv("AQ_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5050, cfg.Server.Port)
}

func TestValidate_FillsFilePattern(t *testing.T) {
	cfg := Default()
	cfg.Paths.FilePattern = ""
	require.NoError(t, cfg.validate())
	assert.Equal(t, "*.csv", cfg.Paths.FilePattern)
}

func TestValidate_RateLimitDisabledIgnoresValues(t *testing.T) {
	cfg := Default()
	cfg.Security.RateLimit = RateLimitConfig{Enabled: false}
	assert.NoError(t, cfg.validate())

	cfg.Security.RateLimit.Enabled = true
	assert.Error(t, cfg.validate())
}

func TestLoad_ValidationErrorIsConfigError(t *testing.T) {
	t.Setenv("AQ_SERVER_PORT", "70000")

	_, err := LoadFrom("")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeConfig, appErr.Type)
	assert.Contains(t, err.Error(), "invalid server port: 70000")
}
