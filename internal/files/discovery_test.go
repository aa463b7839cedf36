package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0644))
	}
}

func names(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestYearFromName(t *testing.T) {
	tests := []struct {
		name   string
		want   int
		wantOK bool
	}{
		{"datos2019.csv", 2019, true},
		{"datos201901.csv", 2019, true},
		{"28079_1999_diario.csv", 1999, true},
		{"2020-2021.csv", 2020, true},
		{"datos.csv", 0, false},
		{"station_1850.csv", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := YearFromName(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindCSVFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "datos2019.csv", "DATOS2020.CSV", "readme.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0755))

	d := NewDiscovery(dir)
	files, err := d.FindCSVFiles(".")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"datos2019.csv", "DATOS2020.CSV"}, names(files))
	for _, f := range files {
		assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
		assert.Equal(t, int64(1), f.Size)
		assert.NotZero(t, f.Year)
	}

	_, err = d.FindCSVFiles("missing")
	assert.Error(t, err)
}

func TestFindFilesByPattern(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "datos2019.csv", "datos2020.csv", "other2020.csv")

	d := NewDiscovery("/ignored")
	files, err := d.FindFilesByPattern(dir, "datos*.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"datos2019.csv", "datos2020.csv"}, names(files))

	_, err = d.FindFilesByPattern(dir, "[")
	assert.Error(t, err)

	_, err = d.FindFilesByPattern(filepath.Join(dir, "nope"), "*.csv")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFindYearlyFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b_2020.csv", "a_2020.csv", "datos2018.csv", "datos2019.csv", "notes.csv", "datos2021.csv")

	d := NewDiscovery(dir)

	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"unbounded", 0, 0, []string{"datos2018.csv", "datos2019.csv", "a_2020.csv", "b_2020.csv", "datos2021.csv"}},
		{"closed range", 2019, 2020, []string{"datos2019.csv", "a_2020.csv", "b_2020.csv"}},
		{"from only", 2021, 0, []string{"datos2021.csv"}},
		{"to only", 0, 2018, []string{"datos2018.csv"}},
		{"empty range", 2030, 2040, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := d.FindYearlyFiles(".", "*.csv", tt.from, tt.to)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, files)
				return
			}
			assert.Equal(t, tt.want, names(files))
			assert.Equal(t, len(tt.want), len(Paths(files)))
		})
	}
}

func TestGetLatestFile(t *testing.T) {
	_, ok := GetLatestFile(nil)
	assert.False(t, ok)

	now := time.Now()
	latest, ok := GetLatestFile([]FileInfo{
		{Name: "a", ModTime: now.Add(-time.Hour)},
		{Name: "b", ModTime: now},
		{Name: "c", ModTime: now.Add(-2 * time.Hour)},
	})
	require.True(t, ok)
	assert.Equal(t, "b", latest.Name)
}
