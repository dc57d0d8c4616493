package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/proctorhub/proctoring-service/internal/models"
)

// AnalyticsExporter renders fraud analytics snapshots as spreadsheets for
// academic-integrity reporting.
type AnalyticsExporter struct{}

func NewAnalyticsExporter() *AnalyticsExporter {
	return &AnalyticsExporter{}
}

// ExportToExcel writes one row per analytics snapshot into an xlsx workbook.
func (e *AnalyticsExporter) ExportToExcel(rows []*models.FraudAnalytics) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Fraud Analytics"

	// Create sheet
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	// Write headers
	headers := []string{
		"Period", "Course Code", "Department", "Total Sessions", "Flagged Sessions",
		"Confirmed Incidents", "Dismissed Incidents", "Fraud Rate (%)",
		"Avg Confidence", "Avg Score", "Pass Rate (%)",
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	// Write data
	for rowIndex, row := range rows {
		values := analyticsRow(row)
		for colIndex, value := range values {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	// Save to buffer
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}

func analyticsRow(a *models.FraudAnalytics) []interface{} {
	return []interface{}{
		a.Period,
		stringOrEmpty(a.CourseCode),
		stringOrEmpty(a.Department),
		a.TotalSessions,
		a.FlaggedSessions,
		a.ConfirmedIncidents,
		a.DismissedIncidents,
		a.FraudRate,
		floatOrEmpty(a.AvgConfidence),
		floatOrEmpty(a.AvgScore),
		floatOrEmpty(a.PassRate),
	}
}

func stringOrEmpty(s *string) interface{} {
	if s == nil {
		return ""
	}
	return *s
}

func floatOrEmpty(f *float64) interface{} {
	if f == nil {
		return ""
	}
	return *f
}
