package handler

import (
	"errors"
	"net/http"

	"go-clinic-booking/internal/service"
	"go-clinic-booking/internal/usecase"
	"go-clinic-booking/pkg/response"
)

// writeUsecaseError maps usecase and service sentinels to a status code.
// Rejections carry their message; write failures carry the cause.
func writeUsecaseError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		response.BadRequest(w, err.Error(), nil)
	case errors.Is(err, service.ErrAllocationUnavailable):
		response.ServiceUnavailable(w, "Patient identifier could not be allocated, please retry")
	case errors.Is(err, usecase.ErrPatientNotFound):
		response.NotFound(w, "Patient not found")
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrPatientWriteFailed),
		errors.Is(err, usecase.ErrAppointmentWriteFailed),
		errors.Is(err, usecase.ErrStorage):
		response.Error(w, http.StatusInternalServerError, fallback, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
