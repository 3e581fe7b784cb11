package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// SessionRow is one exported row of the dashboard session list
type SessionRow struct {
	SessionID            string
	WorkspaceID          string
	ClientName           string
	CompletionPercentage int
	CurrentPhase         int
	LastActivity         time.Time
	Status               string
	StartedAt            time.Time
}

// Result is a rendered export artifact
type Result struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Supported export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

var columns = []string{
	"Session ID", "Workspace ID", "Client", "Completion %",
	"Current Phase", "Last Activity", "Status", "Started At",
}

const timestampFormat = "2006-01-02 15:04:05"

// SessionExporter renders session lists into downloadable artifacts
type SessionExporter struct{}

// NewSessionExporter creates a new exporter
func NewSessionExporter() *SessionExporter {
	return &SessionExporter{}
}

// Export renders the given sessions in the requested format
func (e *SessionExporter) Export(rows []SessionRow, format string) (*Result, error) {
	switch format {
	case FormatCSV:
		return e.exportCSV(rows)
	case FormatXLSX:
		return e.exportXLSX(rows)
	case FormatPDF:
		return e.exportPDF(rows)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

func cells(row SessionRow) []string {
	return []string{
		row.SessionID,
		row.WorkspaceID,
		row.ClientName,
		strconv.Itoa(row.CompletionPercentage),
		strconv.Itoa(row.CurrentPhase),
		row.LastActivity.Format(timestampFormat),
		row.Status,
		row.StartedAt.Format(timestampFormat),
	}
}

func (e *SessionExporter) exportCSV(rows []SessionRow) (*Result, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(cells(row)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return &Result{
		Filename:    exportFilename("csv"),
		ContentType: "text/csv",
		Content:     buf.Bytes(),
	}, nil
}

func (e *SessionExporter) exportXLSX(rows []SessionRow) (*Result, error) {
	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Sessions"
	file.SetSheetName("Sheet1", sheet)

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(sheet, cell, col); err != nil {
			return nil, err
		}
	}
	lastCol, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return nil, err
	}
	if err := file.SetCellStyle(sheet, "A1", lastCol, headerStyle); err != nil {
		return nil, err
	}

	for r, row := range rows {
		for c, value := range cells(row) {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return &Result{
		Filename:    exportFilename("xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     buf.Bytes(),
	}, nil
}

func (e *SessionExporter) exportPDF(rows []SessionRow) (*Result, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Onboarding Sessions")
	pdf.Ln(12)

	widths := []float64{45, 45, 40, 25, 25, 35, 25, 35}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	for i, col := range columns {
		pdf.CellFormat(widths[i], 8, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(0, 0, 0)
	fill := false
	pdf.SetFillColor(235, 240, 250)
	for _, row := range rows {
		for i, value := range cells(row) {
			pdf.CellFormat(widths[i], 7, value, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	return &Result{
		Filename:    exportFilename("pdf"),
		ContentType: "application/pdf",
		Content:     buf.Bytes(),
	}, nil
}

func exportFilename(ext string) string {
	return fmt.Sprintf("onboarding-sessions-%s.%s", time.Now().Format("20060102-150405"), ext)
}
