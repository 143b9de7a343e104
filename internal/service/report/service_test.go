package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubFeed struct {
	records []attendance.Record
	err     error
	asked   time.Time
	loc     *time.Location
}

func (s *stubFeed) FindByCheckInDay(_ context.Context, day time.Time) ([]attendance.Record, error) {
	s.asked = day
	return s.records, s.err
}

func (s *stubFeed) Location() *time.Location {
	if s.loc == nil {
		return time.UTC
	}
	return s.loc
}

func sampleRecords() []attendance.Record {
	in1 := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	out1 := time.Date(2024, 1, 10, 17, 0, 0, 0, time.UTC)
	in2 := time.Date(2024, 1, 10, 9, 15, 0, 0, time.UTC)
	return []attendance.Record{
		{ID: "1", CheckInTime: &in1, CheckOutTime: &out1, Employee: attendance.EmployeeSummary{EmployeeIdentifier: "alice123456", FirstName: "Alice", LastName: "Uwase"}},
		{ID: "2", CheckInTime: &in2, Employee: attendance.EmployeeSummary{EmployeeIdentifier: "bob654321", FirstName: "Bob", LastName: "Mugisha"}},
	}
}

func TestReportService_Excel(t *testing.T) {
	feed := &stubFeed{records: sampleRecords()}
	svc := NewReportService(feed)

	doc, err := svc.GenerateDailyAttendanceReport(context.Background(), report.DailyReportRequest{Date: "2024-01-10", Format: report.FormatExcel})
	require.NoError(t, err)

	assert.Equal(t, "attendance-report-2024-01-10.xlsx", doc.Filename)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", doc.ContentType)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), feed.asked)

	f, err := excelize.OpenReader(bytes.NewReader(doc.Content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, []string{"alice123456", "Alice Uwase", "08:00:00", "17:00:00", "2024-01-10"}, rows[1])
	assert.Equal(t, "Not checked out", rows[2][3])
}

func TestReportService_PDF(t *testing.T) {
	svc := NewReportService(&stubFeed{records: sampleRecords()})

	doc, err := svc.GenerateDailyAttendanceReport(context.Background(), report.DailyReportRequest{Date: "2024-01-10", Format: report.FormatPDF})
	require.NoError(t, err)

	assert.Equal(t, "attendance-report-2024-01-10.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF-")))
}

func TestReportService_RendersInConfiguredZone(t *testing.T) {
	cat := time.FixedZone("CAT", 2*60*60)
	feed := &stubFeed{records: sampleRecords(), loc: cat}

	_, err := NewReportService(feed).GenerateDailyAttendanceReport(context.Background(), report.DailyReportRequest{Date: "2024-01-10", Format: report.FormatPDF})
	require.NoError(t, err)
	assert.True(t, feed.asked.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, cat)))

	row := toRow(sampleRecords()[0], cat)
	assert.Equal(t, "10:00:00", row.CheckIn)
	assert.Equal(t, "19:00:00", row.CheckOut)
}

func TestReportService_InvalidFormat(t *testing.T) {
	_, err := NewReportService(&stubFeed{}).GenerateDailyAttendanceReport(context.Background(), report.DailyReportRequest{Date: "2024-01-10", Format: "csv"})
	assert.ErrorIs(t, err, report.ErrInvalidFormat)
}

func TestReportService_InvalidDate(t *testing.T) {
	_, err := NewReportService(&stubFeed{}).GenerateDailyAttendanceReport(context.Background(), report.DailyReportRequest{Date: "10/01/2024", Format: report.FormatPDF})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "date")
}

func TestReportService_FeedError(t *testing.T) {
	boom := errors.New("db down")
	_, err := NewReportService(&stubFeed{err: boom}).GenerateDailyAttendanceReport(context.Background(), report.DailyReportRequest{Date: "2024-01-10", Format: report.FormatExcel})
	assert.ErrorIs(t, err, boom)
}
