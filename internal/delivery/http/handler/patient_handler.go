package handler

import (
	"net/http"
	"strings"

	"go-clinic-booking/internal/delivery/dto"
	"go-clinic-booking/internal/usecase"
	"go-clinic-booking/pkg/response"

	"github.com/gorilla/mux"
)

type PatientHandler struct {
	searchUsecase usecase.PatientSearchUsecase
}

func NewPatientHandler(searchUsecase usecase.PatientSearchUsecase) *PatientHandler {
	return &PatientHandler{
		searchUsecase: searchUsecase,
	}
}

// GetByUHID handles GET /patients/uhid/{uhid}
func (h *PatientHandler) GetByUHID(w http.ResponseWriter, r *http.Request) {
	patient, err := h.searchUsecase.FindByUHID(r.Context(), mux.Vars(r)["uhid"])
	if err != nil {
		writeUsecaseError(w, err, "Failed to get patient")
		return
	}
	if patient == nil {
		response.NotFound(w, "Patient not found")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

// Search handles GET /patients/search with exactly one of q, suffix or phone.
// An empty result is still a 200.
func (h *PatientHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		q      = strings.TrimSpace(query.Get("q"))
		suffix = strings.TrimSpace(query.Get("suffix"))
		phone  = strings.TrimSpace(query.Get("phone"))
	)

	set := 0
	for _, v := range []string{q, suffix, phone} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		response.BadRequest(w, "Exactly one of q, suffix or phone is required", nil)
		return
	}

	var err error
	var result *dto.PatientListResponse
	switch {
	case q != "":
		result, err = h.searchUsecase.Search(r.Context(), q)
	case suffix != "":
		result, err = h.searchUsecase.FindBySuffix(r.Context(), suffix)
	default:
		result, err = h.searchUsecase.FindByPhone(r.Context(), phone)
	}
	if err != nil {
		writeUsecaseError(w, err, "Failed to search patients")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", result)
}
