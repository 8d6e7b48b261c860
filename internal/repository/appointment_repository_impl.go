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

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) CreateOnCall(ctx context.Context, appt *entity.OnCallAppointment) error {
	return r.db.WithContext(ctx).Omit("Patient").Create(appt).Error
}

// CreateScheduled relies on gorm association saving for the lines; bill_number
// comes back from the column default via RETURNING.
func (r *appointmentRepository) CreateScheduled(ctx context.Context, appt *entity.ScheduledAppointment) error {
	numberLines(appt.ServiceLines)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Patient").Create(appt).Error
	})
}

func (r *appointmentRepository) FindOnCallByID(ctx context.Context, id int64) (*entity.OnCallAppointment, error) {
	var appt entity.OnCallAppointment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&appt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepository) FindScheduledByID(ctx context.Context, id int64) (*entity.ScheduledAppointment, error) {
	var appt entity.ScheduledAppointment
	err := r.db.WithContext(ctx).
		Preload("ServiceLines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Where("id = ?", id).
		First(&appt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepository) UpdateOnCall(ctx context.Context, appt *entity.OnCallAppointment) error {
	return r.db.WithContext(ctx).
		Model(appt).
		Omit(clause.Associations).
		Select("appointment_date", "appointment_time", "referral", "notes", "updated_at").
		Updates(appt).Error
}

// ReplaceScheduled keeps id, bill_number and created_by; everything else is rewritten
func (r *appointmentRepository) ReplaceScheduled(ctx context.Context, appt *entity.ScheduledAppointment) error {
	numberLines(appt.ServiceLines)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(appt).
			Omit(clause.Associations).
			Select(
				"appointment_date", "referral", "notes",
				"payment_method", "payment_total_charges", "payment_discount", "payment_total_paid",
				"payment_cash_amount", "payment_online_amount", "payment_cash_channel", "payment_online_channel",
				"updated_at",
			).
			Updates(appt).Error
		if err != nil {
			return err
		}

		if err := tx.Where("appointment_id = ?", appt.ID).Delete(&entity.ServiceLine{}).Error; err != nil {
			return err
		}

		for i := range appt.ServiceLines {
			appt.ServiceLines[i].ID = 0
			appt.ServiceLines[i].AppointmentID = appt.ID
		}
		if len(appt.ServiceLines) == 0 {
			return nil
		}
		return tx.Create(&appt.ServiceLines).Error
	})
}

func (r *appointmentRepository) SumScheduledCreatedOn(ctx context.Context, date time.Time) (*domainRepo.ScheduledTotals, error) {
	start := entity.DateOnly(date)
	end := start.AddDate(0, 0, 1)

	var totals domainRepo.ScheduledTotals
	err := r.db.WithContext(ctx).
		Model(&entity.ScheduledAppointment{}).
		Select(`
			COUNT(*) AS count,
			COALESCE(SUM(payment_total_paid), 0) AS revenue,
			COALESCE(SUM(payment_cash_amount), 0) AS cash,
			COALESCE(SUM(payment_online_amount), 0) AS online,
			COALESCE(SUM(payment_discount), 0) AS discount
		`).
		Where("created_at >= ? AND created_at < ?", start, end).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func numberLines(lines []entity.ServiceLine) {
	for i := range lines {
		lines[i].Position = i + 1
	}
}
