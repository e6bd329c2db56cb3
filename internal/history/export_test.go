package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func TestExportXLSX(t *testing.T) {
	entries := []Entry{
		{
			ID:                 7,
			URL:                "https://youtu.be/abc",
			Title:              "Talk",
			Engine:             "whispercpp",
			Model:              "base",
			Language:           "en",
			LastConversionTime: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			AudioDuration:      61.5,
			OutputPath:         "/out/Talk.txt",
			Transcription:      "hello",
		},
		{ID: 8, URL: "https://youtu.be/def", HasError: true, ErrorMessage: "Invalid YouTube URL"},
	}
	path := filepath.Join(t.TempDir(), "history.xlsx")

	require.NoError(t, ExportXLSX(entries, path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	assert.Equal(t, ExportSheetName, sheet.Name)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "7", sheet.Rows[1].Cells[0].Value)
	assert.Equal(t, "Talk", sheet.Rows[1].Cells[2].Value)
	assert.Equal(t, "2026-03-01T12:00:00Z", sheet.Rows[1].Cells[6].Value)
	assert.Equal(t, "61.50", sheet.Rows[1].Cells[7].Value)
	assert.Equal(t, "hello", sheet.Rows[1].Cells[9].Value)
	assert.Equal(t, "Invalid YouTube URL", sheet.Rows[2].Cells[10].Value)
}
