package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths holds the absolute directories the server reads from and writes to.
type Paths struct {
	BaseDir   string
	DataDir   string
	ExportDir string
	LogsDir   string
}

// ResolvePaths makes the configured directories absolute. Relative entries
// are taken from baseDir; an empty baseDir means the working directory.
func ResolvePaths(pc PathsConfig, baseDir string) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	return &Paths{
		BaseDir:   baseDir,
		DataDir:   abs(pc.DataDir),
		ExportDir: abs(pc.ExportDir),
		LogsDir:   abs(pc.LogsDir),
	}, nil
}

// GetPaths resolves the configured paths against the working directory.
func (c *Config) GetPaths() (*Paths, error) {
	return ResolvePaths(c.Paths, "")
}

// EnsureDirectories creates the directories the server writes to. The data
// directory is never created: it must already hold the exports.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ExportDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetExportPath returns the path for an exported file
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved directories
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("exports", p.ExportDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Bool("data_dir_exists", FileExists(p.DataDir)),
	)
}
