package repository

import (
	"context"

	domainRepo "go-clinic-booking/internal/domain/repository"

	"gorm.io/gorm"
)

type sequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) domainRepo.SequenceRepository {
	return &sequenceRepository{db: db}
}

// IncrementCounter is one round trip; the read-modify-write happens inside Postgres
func (r *sequenceRepository) IncrementCounter(ctx context.Context) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Raw("SELECT increment_counter()").Row().Scan(&next)
	if err != nil {
		return 0, err
	}
	return next, nil
}
