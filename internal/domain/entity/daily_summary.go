package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary holds running booking totals for one calendar date.
// This table is derived data: the scheduled appointments are authoritative.
type DailySummary struct {
	SummaryDate  time.Time       `gorm:"type:date;primaryKey" json:"summary_date"`
	TotalCount   int64           `gorm:"not null;default:0" json:"total_count"`
	TotalRevenue decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"total_revenue"`
	Cash         decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"cash"`
	Online       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"online"`
	Discount     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"discount"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DailySummary) TableName() string {
	return "daily_summaries"
}

// SummaryDelta is what one booking adds to its day
type SummaryDelta struct {
	Count      int64
	AmountPaid decimal.Decimal
	Cash       decimal.Decimal
	Online     decimal.Decimal
	Discount   decimal.Decimal
}

// DeltaFromPayment builds the ledger contribution of a single booking
func DeltaFromPayment(p PaymentInfo) SummaryDelta {
	return SummaryDelta{
		Count:      1,
		AmountPaid: p.TotalPaid,
		Cash:       p.CashAmount,
		Online:     p.OnlineAmount,
		Discount:   p.Discount,
	}
}

// Apply adds d to s in place
func (s *DailySummary) Apply(d SummaryDelta) {
	s.TotalCount += d.Count
	s.TotalRevenue = s.TotalRevenue.Add(d.AmountPaid)
	s.Cash = s.Cash.Add(d.Cash)
	s.Online = s.Online.Add(d.Online)
	s.Discount = s.Discount.Add(d.Discount)
}

// NewDailySummary returns an all-zero row for date
func NewDailySummary(date time.Time) *DailySummary {
	return &DailySummary{
		SummaryDate:  DateOnly(date),
		TotalRevenue: decimal.Zero,
		Cash:         decimal.Zero,
		Online:       decimal.Zero,
		Discount:     decimal.Zero,
	}
}

// DateOnly truncates t to midnight in its own location
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
