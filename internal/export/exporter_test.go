package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []SessionRow {
	started := time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)
	return []SessionRow{
		{
			SessionID:            "s1",
			WorkspaceID:          "w1",
			ClientName:           "Acme Industries",
			CompletionPercentage: 67,
			CurrentPhase:         4,
			LastActivity:         started.Add(72 * time.Hour),
			Status:               "active",
			StartedAt:            started,
		},
		{
			SessionID:            "s2",
			WorkspaceID:          "w2",
			ClientName:           "Globex Corporation",
			CompletionPercentage: 100,
			CurrentPhase:         6,
			LastActivity:         started.Add(200 * time.Hour),
			Status:               "completed",
			StartedAt:            started,
		},
	}
}

func TestExportCSV(t *testing.T) {
	result, err := NewSessionExporter().Export(sampleRows(), FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	records, err := csv.NewReader(bytes.NewReader(result.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, columns, records[0])
	assert.Equal(t, "Acme Industries", records[1][2])
	assert.Equal(t, "100", records[2][3])
}

func TestExportXLSX(t *testing.T) {
	result, err := NewSessionExporter().Export(sampleRows(), FormatXLSX)
	require.NoError(t, err)

	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.ContentType)
	assert.NotEmpty(t, result.Content)
	// XLSX files are zip archives
	assert.Equal(t, []byte{'P', 'K'}, result.Content[:2])
}

func TestExportPDF(t *testing.T) {
	result, err := NewSessionExporter().Export(sampleRows(), FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Content, []byte("%PDF")))
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, err := NewSessionExporter().Export(sampleRows(), "docx")
	assert.ErrorContains(t, err, "unsupported export format")
}

func TestExportEmptyList(t *testing.T) {
	result, err := NewSessionExporter().Export(nil, FormatCSV)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(result.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
}
