package repository

import (
	"context"
	"errors"
	"time"

	"go-clinic-booking/internal/domain/entity"
	domainRepo "go-clinic-booking/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type dailySummaryRepository struct {
	db *gorm.DB
}

func NewDailySummaryRepository(db *gorm.DB) domainRepo.DailySummaryRepository {
	return &dailySummaryRepository{db: db}
}

// Increment is a single statement: the first booking of a day inserts the row,
// later ones add to it. Concurrent callers serialize on the conflicting row.
func (r *dailySummaryRepository) Increment(ctx context.Context, date time.Time, delta entity.SummaryDelta) (*entity.DailySummary, error) {
	row := entity.NewDailySummary(date)
	row.Apply(delta)

	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "summary_date"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"total_count":   gorm.Expr("daily_summaries.total_count + EXCLUDED.total_count"),
					"total_revenue": gorm.Expr("daily_summaries.total_revenue + EXCLUDED.total_revenue"),
					"cash":          gorm.Expr("daily_summaries.cash + EXCLUDED.cash"),
					"online":        gorm.Expr("daily_summaries.online + EXCLUDED.online"),
					"discount":      gorm.Expr("daily_summaries.discount + EXCLUDED.discount"),
					"updated_at":    gorm.Expr("NOW()"),
				}),
			},
			clause.Returning{},
		).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return row, nil
}

// IncrementLocked seeds the row if absent, then reads it FOR UPDATE so the
// read-modify-write below cannot interleave with another booking.
func (r *dailySummaryRepository) IncrementLocked(ctx context.Context, date time.Time, delta entity.SummaryDelta) (*entity.DailySummary, error) {
	var row entity.DailySummary

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := entity.NewDailySummary(date)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
			return err
		}

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("summary_date = ?", date.Format(dateLayout)).
			First(&row).Error
		if err != nil {
			return err
		}

		row.Apply(delta)
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *dailySummaryRepository) FindByDate(ctx context.Context, date time.Time) (*entity.DailySummary, error) {
	var row entity.DailySummary
	err := r.db.WithContext(ctx).Where("summary_date = ?", date.Format(dateLayout)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *dailySummaryRepository) FindRange(ctx context.Context, from, to time.Time) ([]entity.DailySummary, error) {
	var rows []entity.DailySummary
	err := r.db.WithContext(ctx).
		Where("summary_date BETWEEN ? AND ?", from.Format(dateLayout), to.Format(dateLayout)).
		Order("summary_date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *dailySummaryRepository) FindSince(ctx context.Context, since time.Time, limit, offset int) ([]entity.DailySummary, error) {
	var rows []entity.DailySummary
	err := r.db.WithContext(ctx).
		Where("summary_date >= ?", since.Format(dateLayout)).
		Order("summary_date").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
