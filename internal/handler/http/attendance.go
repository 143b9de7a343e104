package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	dispatcher        attendance.EventDispatcher
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, dispatcher attendance.EventDispatcher) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		dispatcher:        dispatcher,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, events, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.dispatch(r.Context(), events)
	response.Created(w, "Checked in successfully", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, events, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.dispatch(r.Context(), events)
	response.SuccessWithMessage(w, "Checked out successfully", result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var errs validator.ValidationErrors
	filter := attendance.AttendanceFilter{
		EmployeeIdentifier: queryString(r, "employeeIdentifier"),
		From:               queryString(r, "from"),
		To:                 queryString(r, "to"),
		PageRequest:        pageRequest(r, &errs),
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result, err := h.attendanceService.FindEmployeeAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// dispatch hands events to the notification queue. The attendance row is
// already committed, so a failure is logged and not returned to the client.
func (h *attendanceHandlerImpl) dispatch(ctx context.Context, events []attendance.Event) {
	if len(events) == 0 {
		return
	}
	if err := h.dispatcher.Dispatch(context.WithoutCancel(ctx), events...); err != nil {
		slog.Error("Failed to dispatch attendance events", "error", err, "count", len(events))
	}
}
