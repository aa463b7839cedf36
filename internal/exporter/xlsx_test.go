package exporter

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"aqseries/internal/airquality"
)

func TestSheetName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"NO2@28079035", "NO2@28079035"},
		{"a/b:c", "a_b_c"},
		{"[x]*?", "_x___"},
		{"", "Series"},
		{"'quoted'", "quoted"},
		{strings.Repeat("x", 40), strings.Repeat("x", 31)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SheetName(tt.in), tt.in)
	}
}

func TestXLSXWriter_WriteSeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no2.xlsx")
	require.NoError(t, NewXLSXWriter(nil).WriteSeries(path, sampleSeries(), WriteOptions{}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"NO2@28079035"}, f.GetSheetList())

	header, err := f.GetCellValue("NO2@28079035", "A1")
	require.NoError(t, err)
	assert.Equal(t, "date", header)

	date, err := f.GetCellValue("NO2@28079035", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01", date)

	value, err := f.GetCellValue("NO2@28079035", "B2")
	require.NoError(t, err)
	assert.Equal(t, "45.2", value)

	missing, err := f.GetCellValue("NO2@28079035", "B3")
	require.NoError(t, err)
	assert.Empty(t, missing)

	rows, err := f.GetRows("NO2@28079035")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestXLSXWriter_WriteSeries_DropMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no2.xlsx")
	require.NoError(t, NewXLSXWriter(nil).WriteSeries(path, sampleSeries(), WriteOptions{DropMissing: true}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("NO2@28079035")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "38", rows[2][1])
}

func TestXLSXWriter_WriteSeries_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, NewXLSXWriter(nil).WriteSeries(path, &airquality.Series{Name: "empty"}, WriteOptions{}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("empty")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"date", "value"}}, rows)
}
