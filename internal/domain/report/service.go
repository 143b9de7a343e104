package report

import (
	"context"
)

type ReportService interface {
	// GenerateDailyAttendanceReport renders every check-in of one calendar day.
	GenerateDailyAttendanceReport(ctx context.Context, req DailyReportRequest) (Document, error)
}

// Renderer encodes a Table in a document format.
type Renderer interface {
	Render(table Table) ([]byte, error)
	ContentType() string
	Extension() string
}
