package converter

import (
	"go-clinic-booking/internal/delivery/dto"
	"go-clinic-booking/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	resp := &dto.PatientResponse{
		ID:          patient.ID,
		UHID:        patient.UHID,
		FullName:    patient.FullName,
		PhoneNumber: patient.PhoneNumber,
		Age:         patient.Age,
		AgeUnit:     string(patient.AgeUnit),
		Gender:      patient.Gender,
		Address:     patient.Address,
		CreatedAt:   patient.CreatedAt,
		UpdatedAt:   patient.UpdatedAt,
	}
	if patient.DateOfBirth != nil {
		resp.DateOfBirth = patient.DateOfBirth.Format("2006-01-02")
	}
	return resp
}

// PatientsToResponses never returns nil so empty results encode as []
func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}
