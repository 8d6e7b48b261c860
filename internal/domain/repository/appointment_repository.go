package repository

import (
	"context"
	"time"

	"go-clinic-booking/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// ScheduledTotals is the recomputed aggregate of scheduled appointments for one day
type ScheduledTotals struct {
	Count    int64
	Revenue  decimal.Decimal
	Cash     decimal.Decimal
	Online   decimal.Decimal
	Discount decimal.Decimal
}

type AppointmentRepository interface {
	CreateOnCall(ctx context.Context, appt *entity.OnCallAppointment) error
	// CreateScheduled inserts the appointment and its service lines together and fills BillNumber
	CreateScheduled(ctx context.Context, appt *entity.ScheduledAppointment) error
	FindOnCallByID(ctx context.Context, id int64) (*entity.OnCallAppointment, error)
	FindScheduledByID(ctx context.Context, id int64) (*entity.ScheduledAppointment, error)
	UpdateOnCall(ctx context.Context, appt *entity.OnCallAppointment) error
	// ReplaceScheduled rewrites fields, payment and service lines in one transaction
	ReplaceScheduled(ctx context.Context, appt *entity.ScheduledAppointment) error
	// SumScheduledCreatedOn recomputes ledger totals from appointments created on date
	SumScheduledCreatedOn(ctx context.Context, date time.Time) (*ScheduledTotals, error)
}
