// Package document renders report tables as PDF or XLSX.
package document

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
)

var columns = []string{"Employee ID", "Name", "Check-in Time", "Check-out Time", "Date"}

func cells(row report.Row) []string {
	return []string{row.EmployeeIdentifier, row.Name, row.CheckIn, row.CheckOut, row.Date}
}

func footer(table report.Table) string {
	return fmt.Sprintf("Total Records: %d", len(table.Rows))
}

// NewRenderer returns the renderer for format.
func NewRenderer(format report.Format) (report.Renderer, error) {
	switch format {
	case report.FormatPDF:
		return PDFRenderer{}, nil
	case report.FormatExcel:
		return ExcelRenderer{}, nil
	default:
		return nil, report.ErrInvalidFormat
	}
}
