package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/proctorhub/proctoring-service/internal/models"
)

func TestExportToExcel(t *testing.T) {
	course := "CS401"
	avgConfidence := 72.4
	rows := []*models.FraudAnalytics{
		{
			Period:          "2026-S1",
			CourseCode:      &course,
			TotalSessions:   240,
			FlaggedSessions: 12,
			FraudRate:       5.0,
			AvgConfidence:   &avgConfidence,
		},
		{
			Period:        "2026-S1",
			TotalSessions: 88,
		},
	}

	data, err := NewAnalyticsExporter().ExportToExcel(rows)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Fraud Analytics", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Period", header)

	period, err := f.GetCellValue("Fraud Analytics", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2026-S1", period)

	courseCell, err := f.GetCellValue("Fraud Analytics", "B2")
	require.NoError(t, err)
	assert.Equal(t, "CS401", courseCell)

	// Nil optionals render as empty cells, not zeros.
	emptyCourse, err := f.GetCellValue("Fraud Analytics", "B3")
	require.NoError(t, err)
	assert.Equal(t, "", emptyCourse)
}

func TestExportToExcelEmpty(t *testing.T) {
	data, err := NewAnalyticsExporter().ExportToExcel(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Fraud Analytics", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Period", header)
}
