package service

import (
	"context"
	"fmt"
	"time"

	"go-clinic-booking/config"
	"go-clinic-booking/internal/domain/entity"
	"go-clinic-booking/internal/domain/repository"
	"go-clinic-booking/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// DailyLedger keeps the per-day booking aggregate
type DailyLedger interface {
	AddBooking(ctx context.Context, date time.Time, delta entity.SummaryDelta) error
}

// SummaryMirror receives each committed ledger row; implemented by SummarySyncService
type SummaryMirror interface {
	Mirror(ctx context.Context, row *entity.DailySummary) error
}

type dailyLedgerService struct {
	repo     repository.DailySummaryRepository
	mirror   SummaryMirror
	strategy string
	log      *logrus.Logger
	metrics  *metrics.Collector
}

// NewDailyLedgerService picks the update strategy from config. mirror may be nil.
func NewDailyLedgerService(
	repo repository.DailySummaryRepository,
	mirror SummaryMirror,
	cfg config.LedgerConfig,
	log *logrus.Logger,
	m *metrics.Collector,
) DailyLedger {
	strategy := cfg.Strategy
	if strategy != config.LedgerStrategyRowLock {
		strategy = config.LedgerStrategyUpsert
	}
	return &dailyLedgerService{
		repo:     repo,
		mirror:   mirror,
		strategy: strategy,
		log:      log,
		metrics:  m,
	}
}

// AddBooking applies delta to date's row atomically. Only the Postgres write
// decides the result; mirror failures are logged and counted.
func (s *dailyLedgerService) AddBooking(ctx context.Context, date time.Time, delta entity.SummaryDelta) error {
	date = entity.DateOnly(date)

	var (
		row *entity.DailySummary
		err error
	)
	if s.strategy == config.LedgerStrategyRowLock {
		row, err = s.repo.IncrementLocked(ctx, date, delta)
	} else {
		row, err = s.repo.Increment(ctx, date, delta)
	}
	if err != nil {
		s.metrics.LedgerUpdateFailures.Inc()
		return fmt.Errorf("update daily summary %s: %w", date.Format("2006-01-02"), err)
	}

	if s.mirror != nil && row != nil {
		if err := s.mirror.Mirror(ctx, row); err != nil {
			s.metrics.LedgerMirrorFailures.Inc()
			s.log.Warnf("Failed to mirror daily summary %s: %+v", date.Format("2006-01-02"), err)
		}
	}

	return nil
}
