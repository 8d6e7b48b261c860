package usecase

import (
	"context"
	"fmt"
	"strings"

	"go-clinic-booking/internal/converter"
	"go-clinic-booking/internal/delivery/dto"
	"go-clinic-booking/internal/domain/entity"
	"go-clinic-booking/internal/domain/repository"
	"go-clinic-booking/pkg/metrics"
	"go-clinic-booking/pkg/uhid"

	"github.com/sirupsen/logrus"
)

// PatientSearchUsecase resolves front-desk lookups to patient rows.
// A miss is a nil result or an empty list, never an error; storage failures
// come back wrapped in ErrStorage.
type PatientSearchUsecase interface {
	FindByUHID(ctx context.Context, value string) (*dto.PatientResponse, error)
	FindBySuffix(ctx context.Context, partial string) (*dto.PatientListResponse, error)
	FindByPhone(ctx context.Context, phone string) (*dto.PatientListResponse, error)
	Search(ctx context.Context, query string) (*dto.PatientListResponse, error)
}

type patientSearchUsecase struct {
	log         *logrus.Logger
	patientRepo repository.PatientRepository
	formatter   *uhid.Formatter
	metrics     *metrics.Collector
}

func NewPatientSearchUsecase(
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	formatter *uhid.Formatter,
	m *metrics.Collector,
) PatientSearchUsecase {
	return &patientSearchUsecase{
		log:         log,
		patientRepo: patientRepo,
		formatter:   formatter,
		metrics:     m,
	}
}

func (u *patientSearchUsecase) FindByUHID(ctx context.Context, value string) (*dto.PatientResponse, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("%w: uhid is required", ErrInvalidInput)
	}

	patient, err := u.patientRepo.FindByUHID(ctx, value)
	if err != nil {
		u.log.Warnf("Failed to find patient by uhid %s: %+v", value, err)
		return nil, storageErr(err)
	}
	u.count("uhid", patient != nil)

	return converter.PatientToResponse(patient), nil
}

// FindBySuffix matches the trailing sequence segment, so "42" finds
// MED-2023-00042 and MED-2024-00042 alike.
func (u *patientSearchUsecase) FindBySuffix(ctx context.Context, partial string) (*dto.PatientListResponse, error) {
	partial = strings.TrimSpace(partial)
	if !uhid.IsNumeric(partial) {
		return nil, fmt.Errorf("%w: suffix must contain digits only", ErrInvalidInput)
	}
	return u.findByPredicate(ctx, u.formatter.MatchSuffix(partial))
}

func (u *patientSearchUsecase) FindByPhone(ctx context.Context, phone string) (*dto.PatientListResponse, error) {
	phone = strings.TrimSpace(phone)
	if !uhid.IsNumeric(phone) {
		return nil, ErrInvalidPhoneNumber
	}

	patients, err := u.patientRepo.FindByPhone(ctx, phone)
	if err != nil {
		u.log.Warnf("Failed to find patients by phone: %+v", err)
		return nil, storageErr(err)
	}
	u.count("phone", len(patients) > 0)

	return listResponse(patients, "phone"), nil
}

// Search takes whatever the receptionist typed: digits are a suffix search,
// anything else an exact UHID.
func (u *patientSearchUsecase) Search(ctx context.Context, query string) (*dto.PatientListResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidInput)
	}
	return u.findByPredicate(ctx, u.formatter.MatchSuffix(query))
}

func (u *patientSearchUsecase) findByPredicate(ctx context.Context, pred uhid.Predicate) (*dto.PatientListResponse, error) {
	patients, err := u.patientRepo.FindByUHIDPredicate(ctx, pred)
	if err != nil {
		u.log.Warnf("Failed to search patients (%s %q): %+v", pred.Kind, pred.Value, err)
		return nil, storageErr(err)
	}
	u.count(pred.Kind.String(), len(patients) > 0)

	return listResponse(patients, pred.Kind.String()), nil
}

func (u *patientSearchUsecase) count(mode string, found bool) {
	result := "miss"
	if found {
		result = "hit"
	}
	u.metrics.PatientSearchesTotal.WithLabelValues(mode, result).Inc()
}

func listResponse(patients []entity.Patient, mode string) *dto.PatientListResponse {
	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients),
		Total:    len(patients),
		Mode:     mode,
	}
}
