package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/document"
)

const (
	reportTitle    = "Daily Attendance Report"
	notCheckedOut  = "Not checked out"
	clockLayout    = "15:04:05"
	dateLayout     = "2006-01-02"
	filenamePrefix = "attendance-report-"
)

// AttendanceFeed is the part of the attendance service a report reads from.
type AttendanceFeed interface {
	FindByCheckInDay(ctx context.Context, day time.Time) ([]attendance.Record, error)
	Location() *time.Location
}

type ReportServiceImpl struct {
	feed AttendanceFeed
}

func NewReportService(feed AttendanceFeed) report.ReportService {
	return &ReportServiceImpl{feed: feed}
}

// GenerateDailyAttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) GenerateDailyAttendanceReport(ctx context.Context, req report.DailyReportRequest) (report.Document, error) {
	renderer, err := document.NewRenderer(req.Format)
	if err != nil {
		return report.Document{}, err
	}
	if err := req.Validate(); err != nil {
		return report.Document{}, err
	}

	loc := s.feed.Location()
	day, err := time.ParseInLocation(dateLayout, req.Date, loc)
	if err != nil {
		return report.Document{}, report.ErrInvalidDate
	}

	records, err := s.feed.FindByCheckInDay(ctx, day)
	if err != nil {
		return report.Document{}, fmt.Errorf("failed to get attendance data: %w", err)
	}

	table := report.Table{
		Title: reportTitle,
		Date:  req.Date,
		Rows:  make([]report.Row, 0, len(records)),
	}
	for _, rec := range records {
		table.Rows = append(table.Rows, toRow(rec, loc))
	}

	content, err := renderer.Render(table)
	if err != nil {
		return report.Document{}, fmt.Errorf("failed to render report: %w", err)
	}

	slog.Info("Attendance report generated",
		"date", req.Date,
		"format", req.Format,
		"records", len(table.Rows),
	)

	return report.Document{
		Filename:    filenamePrefix + req.Date + "." + renderer.Extension(),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

func toRow(rec attendance.Record, loc *time.Location) report.Row {
	row := report.Row{
		EmployeeIdentifier: rec.Employee.EmployeeIdentifier,
		Name:               fullName(rec.Employee),
		CheckOut:           notCheckedOut,
	}
	if rec.CheckInTime != nil {
		in := rec.CheckInTime.In(loc)
		row.CheckIn = in.Format(clockLayout)
		row.Date = in.Format(dateLayout)
	}
	if rec.CheckOutTime != nil {
		row.CheckOut = rec.CheckOutTime.In(loc).Format(clockLayout)
	}
	return row
}

func fullName(e attendance.EmployeeSummary) string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
