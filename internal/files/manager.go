package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"aqseries/internal/config"
)

var unsafeNameRe = regexp.MustCompile(`[^A-Za-z0-9._@-]+`)

// Manager owns the files the server writes
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{paths: paths, logger: logger.With(slog.String("component", "file_manager"))}
}

// SafeName reduces name to characters that are safe in a file name.
func SafeName(name string) string {
	name = filepath.Base(name)
	name = unsafeNameRe.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "export"
	}
	return name
}

// Export is one file being written to the export directory. Path is
// reserved for this export alone; the content appears there on Commit.
type Export struct {
	Name     string
	Path     string
	TempPath string
}

// CreateExport reserves a unique file for name in the export directory.
// Name keeps the requested name for download headers.
func (m *Manager) CreateExport(name string) (*Export, error) {
	if err := m.EnsureDirectory(m.paths.ExportDir); err != nil {
		return nil, err
	}

	safe := SafeName(name)
	ext := filepath.Ext(safe)
	f, err := os.CreateTemp(m.paths.ExportDir, strings.TrimSuffix(safe, ext)+"_*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve export %s: %w", safe, err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to reserve export %s: %w", safe, err)
	}

	// The temp file keeps the extension; excelize picks the format from it.
	return &Export{
		Name:     safe,
		Path:     path,
		TempPath: filepath.Join(m.paths.ExportDir, ".tmp-"+filepath.Base(path)),
	}, nil
}

// Commit moves the written temp file onto the reserved path
func (m *Manager) Commit(e *Export) error {
	if err := os.Rename(e.TempPath, e.Path); err != nil {
		return fmt.Errorf("failed to publish export %s: %w", e.Path, err)
	}
	m.logger.Debug("Export published", slog.String("path", e.Path))
	return nil
}

// Discard removes both files of an export that failed
func (m *Manager) Discard(e *Export) error {
	if err := m.RemoveFile(e.TempPath); err != nil {
		return err
	}
	return m.RemoveFile(e.Path)
}

// EnsureDirectory creates a directory if it doesn't exist
func (m *Manager) EnsureDirectory(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// RemoveFile deletes path, ignoring a file that is already gone
func (m *Manager) RemoveFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	m.logger.Debug("Removed file", slog.String("path", path))
	return nil
}
