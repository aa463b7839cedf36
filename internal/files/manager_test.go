package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aqseries/internal/config"
)

func TestSafeName(t *testing.T) {
	assert.Equal(t, "NO2@28079035_2019-2020.csv", SafeName("NO2@28079035_2019-2020.csv"))
	assert.Equal(t, "passwd", SafeName("../../etc/passwd"))
	assert.Equal(t, "a_b.xlsx", SafeName("a b.xlsx"))
	assert.Equal(t, "export", SafeName(".."))
}

func TestManager_CreateExport(t *testing.T) {
	base := t.TempDir()
	paths := &config.Paths{ExportDir: filepath.Join(base, "exports", "nested")}
	m := NewManager(paths, nil)

	first, err := m.CreateExport("NO2@28079035_all.csv")
	require.NoError(t, err)
	second, err := m.CreateExport("NO2@28079035_all.csv")
	require.NoError(t, err)

	assert.DirExists(t, paths.ExportDir)
	assert.Equal(t, "NO2@28079035_all.csv", first.Name)
	assert.Equal(t, first.Name, second.Name)
	assert.NotEqual(t, first.Path, second.Path, "every export gets its own file")
	assert.Equal(t, paths.ExportDir, filepath.Dir(first.Path))
	assert.True(t, strings.HasPrefix(filepath.Base(first.Path), "NO2@28079035_all_"))
	assert.Equal(t, ".csv", filepath.Ext(first.Path))
	assert.Equal(t, ".csv", filepath.Ext(first.TempPath))
	assert.FileExists(t, first.Path, "the path is reserved")
}

func TestManager_CommitAndDiscard(t *testing.T) {
	m := NewManager(&config.Paths{ExportDir: t.TempDir()}, nil)

	e, err := m.CreateExport("a.csv")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(e.TempPath, []byte("date,value\n"), 0644))
	require.NoError(t, m.Commit(e))

	data, err := os.ReadFile(e.Path)
	require.NoError(t, err)
	assert.Equal(t, "date,value\n", string(data))
	assert.NoFileExists(t, e.TempPath)

	failed, err := m.CreateExport("b.csv")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(failed.TempPath, []byte("partial"), 0644))
	require.NoError(t, m.Discard(failed))
	assert.NoFileExists(t, failed.TempPath)
	assert.NoFileExists(t, failed.Path)
	assert.NoError(t, m.Discard(failed), "discarding twice is fine")
}

func TestManager_CommitWithoutTempFile(t *testing.T) {
	m := NewManager(&config.Paths{ExportDir: t.TempDir()}, nil)

	e, err := m.CreateExport("a.csv")
	require.NoError(t, err)
	assert.Error(t, m.Commit(e))
}

func TestManager_CreateExportFails(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	m := NewManager(&config.Paths{ExportDir: filepath.Join(blocker, "exports")}, nil)
	_, err := m.CreateExport("x.csv")
	assert.Error(t, err)
}
