package repository

import (
	"context"

	"go-clinic-booking/internal/domain/entity"
	"go-clinic-booking/pkg/uhid"
)

// PatientRepository returns nil, nil when a single lookup finds no row.
type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	// UpdateDemographics returns rows affected; 0 means id and uhid did not match a patient
	UpdateDemographics(ctx context.Context, patient *entity.Patient) (int64, error)
	FindByID(ctx context.Context, id int64) (*entity.Patient, error)
	FindByUHID(ctx context.Context, uhid string) (*entity.Patient, error)
	FindByUHIDPredicate(ctx context.Context, pred uhid.Predicate) ([]entity.Patient, error)
	FindByPhone(ctx context.Context, phone string) ([]entity.Patient, error)
}
