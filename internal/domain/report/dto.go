package report

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
)

// DailyReportRequest selects one calendar day. Format is checked when a
// renderer is chosen, so an unknown format is ErrInvalidFormat.
type DailyReportRequest struct {
	Date   string
	Format Format
}

func (r *DailyReportRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Date) {
		errs = errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = errs.Add("date", ErrInvalidDate.Error())
	}
	return errs.OrNil()
}

// Row is one printed line of the daily attendance report.
type Row struct {
	EmployeeIdentifier string
	Name               string
	CheckIn            string
	CheckOut           string
	Date               string
}

// Table is what a Renderer turns into bytes.
type Table struct {
	Title string
	Date  string
	Rows  []Row
}

// Document is a rendered report ready to stream to the client.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}
