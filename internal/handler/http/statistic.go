package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/statistic"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type StatisticHandler interface {
	Totals(w http.ResponseWriter, r *http.Request)
}

type statisticHandlerImpl struct {
	statisticService statistic.StatisticService
}

func NewStatisticHandler(statisticService statistic.StatisticService) StatisticHandler {
	return &statisticHandlerImpl{statisticService: statisticService}
}

func (h *statisticHandlerImpl) Totals(w http.ResponseWriter, r *http.Request) {
	result, err := h.statisticService.Totals(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
