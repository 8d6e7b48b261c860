package repository

import (
	"context"
	"time"

	"go-clinic-booking/internal/domain/entity"
)

type DailySummaryRepository interface {
	// Increment adds delta with a single INSERT ... ON CONFLICT DO UPDATE
	Increment(ctx context.Context, date time.Time, delta entity.SummaryDelta) (*entity.DailySummary, error)
	// IncrementLocked adds delta under a row lock inside a transaction
	IncrementLocked(ctx context.Context, date time.Time, delta entity.SummaryDelta) (*entity.DailySummary, error)
	FindByDate(ctx context.Context, date time.Time) (*entity.DailySummary, error)
	FindRange(ctx context.Context, from, to time.Time) ([]entity.DailySummary, error)
	FindSince(ctx context.Context, since time.Time, limit, offset int) ([]entity.DailySummary, error)
}
