package handler

import (
	"net/http"

	"go-clinic-booking/internal/usecase"
	"go-clinic-booking/pkg/response"

	"github.com/gorilla/mux"
)

type SummaryHandler struct {
	summaryUsecase usecase.DailySummaryUsecase
}

func NewSummaryHandler(summaryUsecase usecase.DailySummaryUsecase) *SummaryHandler {
	return &SummaryHandler{
		summaryUsecase: summaryUsecase,
	}
}

// ListDailySummaries handles GET /summaries/daily?from=&to=. Both default to today.
func (h *SummaryHandler) ListDailySummaries(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" {
		from = "today"
	}
	if to == "" {
		to = "today"
	}

	summaries, err := h.summaryUsecase.ListDailySummaries(r.Context(), from, to)
	if err != nil {
		writeUsecaseError(w, err, "Failed to list daily summaries")
		return
	}

	response.Success(w, http.StatusOK, "Daily summaries retrieved successfully", summaries)
}

// GetDailySummary handles GET /summaries/daily/{date}; date may be "today"
func (h *SummaryHandler) GetDailySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summaryUsecase.GetDailySummary(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		writeUsecaseError(w, err, "Failed to get daily summary")
		return
	}

	response.Success(w, http.StatusOK, "Daily summary retrieved successfully", summary)
}

func (h *SummaryHandler) GetDailyReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.summaryUsecase.GetDailyReport(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		writeUsecaseError(w, err, "Failed to build daily report")
		return
	}

	response.Success(w, http.StatusOK, "Daily report retrieved successfully", report)
}
