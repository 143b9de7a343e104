package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	DailyAttendance(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// DailyAttendance streams the attendance report for ?date in ?format.
func (h *reportHandlerImpl) DailyAttendance(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := report.DailyReportRequest{
		Date:   query.Get("date"),
		Format: report.Format(query.Get("format")),
	}

	doc, err := h.reportService.GenerateDailyAttendanceReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, doc.Filename, doc.ContentType, doc.Content)
}
