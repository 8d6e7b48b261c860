package repository

import (
	"context"

	"go-clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
)

type DoctorProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error)
	FindAll(ctx context.Context) ([]entity.DoctorProfile, error)
	// FindDisplayName returns "" when no doctor has that id
	FindDisplayName(ctx context.Context, userID uuid.UUID) (string, error)
}
