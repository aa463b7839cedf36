package files

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var yearRe = regexp.MustCompile(`(19|20)\d{2}`)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	// Year is the first year found in the file name, 0 when there is none.
	Year int `json:"year,omitempty"`
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// YearFromName returns the first 19xx/20xx year in name.
func YearFromName(name string) (int, bool) {
	m := yearRe.FindString(name)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

func newFileInfo(path string, info os.FileInfo) FileInfo {
	fi := FileInfo{
		Path:    path,
		Name:    info.Name(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	fi.Year, _ = YearFromName(fi.Name)
	return fi
}

// FindCSVFiles finds all CSV files in the specified directory, sorted by name
func (d *Discovery) FindCSVFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, newFileInfo(filepath.Join(fullPath, entry.Name()), info))
	}

	return files, nil
}

// FindFilesByPattern finds regular files matching a glob pattern, sorted by name
func (d *Discovery) FindFilesByPattern(dir string, pattern string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)
	if _, err := os.Stat(fullPath); err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	matches, err := filepath.Glob(filepath.Join(fullPath, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var files []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, newFileInfo(match, info))
	}

	return files, nil
}

// FindYearlyFiles returns the files matching pattern whose name carries a
// year within [from, to], ordered by year then name. A zero bound is open.
func (d *Discovery) FindYearlyFiles(dir, pattern string, from, to int) ([]FileInfo, error) {
	files, err := d.FindFilesByPattern(dir, pattern)
	if err != nil {
		return nil, err
	}

	yearly := FilterByYear(files, from, to)
	SortByYear(yearly)
	return yearly, nil
}

// FilterByYear keeps the files with a detected year within [from, to].
func FilterByYear(files []FileInfo, from, to int) []FileInfo {
	var out []FileInfo
	for _, f := range files {
		if f.Year == 0 {
			continue
		}
		if from != 0 && f.Year < from {
			continue
		}
		if to != 0 && f.Year > to {
			continue
		}
		out = append(out, f)
	}
	return out
}

// SortByYear orders files by year, then by name.
func SortByYear(files []FileInfo) {
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Year != files[j].Year {
			return files[i].Year < files[j].Year
		}
		return files[i].Name < files[j].Name
	})
}

// Paths returns the path of every file, in order.
func Paths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}
	return latest, true
}
