package repository

import (
	"context"
	"errors"

	"go-clinic-booking/internal/domain/entity"
	domainRepo "go-clinic-booking/internal/domain/repository"
	"go-clinic-booking/pkg/uhid"

	"gorm.io/gorm"
)

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) domainRepo.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	return classify(r.db.WithContext(ctx).Create(patient).Error)
}

// UpdateDemographics writes only the demographic columns; id and uhid are never part of the SET list.
// It returns the number of rows matched by id and uhid together.
func (r *patientRepository) UpdateDemographics(ctx context.Context, patient *entity.Patient) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Patient{}).
		Where("id = ? AND uhid = ?", patient.ID, patient.UHID).
		Select(entity.DemographicColumns).
		Updates(patient)
	return result.RowsAffected, result.Error
}

func (r *patientRepository) FindByID(ctx context.Context, id int64) (*entity.Patient, error) {
	var patient entity.Patient
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByUHID(ctx context.Context, value string) (*entity.Patient, error) {
	var patient entity.Patient
	err := r.db.WithContext(ctx).Where("uhid = ?", value).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByUHIDPredicate(ctx context.Context, pred uhid.Predicate) ([]entity.Patient, error) {
	var patients []entity.Patient

	query := r.db.WithContext(ctx)
	switch pred.Kind {
	case uhid.MatchSuffix:
		query = query.Where("uhid LIKE ?", "%"+pred.Value)
	default:
		query = query.Where("uhid = ?", pred.Value)
	}

	if err := query.Order("id").Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) FindByPhone(ctx context.Context, phone string) ([]entity.Patient, error) {
	var patients []entity.Patient
	err := r.db.WithContext(ctx).
		Where("phone_number = ?", phone).
		Order("updated_at DESC").
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}
