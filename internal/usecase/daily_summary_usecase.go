package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-clinic-booking/internal/converter"
	"go-clinic-booking/internal/delivery/dto"
	"go-clinic-booking/internal/domain/entity"
	"go-clinic-booking/internal/domain/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

const maxSummaryRangeDays = 366

// SummaryCache serves mirrored ledger rows; implemented by service.SummarySyncService
type SummaryCache interface {
	GetSummary(ctx context.Context, date time.Time) (*entity.DailySummary, bool, error)
}

type DailySummaryUsecase interface {
	GetDailySummary(ctx context.Context, date string) (*dto.DailySummaryResponse, error)
	ListDailySummaries(ctx context.Context, from, to string) (*dto.DailySummaryListResponse, error)
	GetDailyReport(ctx context.Context, date string) (*dto.DailyReportResponse, error)
}

type dailySummaryUsecase struct {
	log             *logrus.Logger
	summaryRepo     repository.DailySummaryRepository
	appointmentRepo repository.AppointmentRepository
	cache           SummaryCache
	loc             *time.Location
	now             func() time.Time
}

// NewDailySummaryUsecase: cache may be nil, in which case every read goes to Postgres
func NewDailySummaryUsecase(
	log *logrus.Logger,
	summaryRepo repository.DailySummaryRepository,
	appointmentRepo repository.AppointmentRepository,
	cache SummaryCache,
	loc *time.Location,
) DailySummaryUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &dailySummaryUsecase{
		log:             log,
		summaryRepo:     summaryRepo,
		appointmentRepo: appointmentRepo,
		cache:           cache,
		loc:             loc,
		now:             time.Now,
	}
}

// GetDailySummary returns an all-zero summary for a day with no bookings.
// Today's row is served from Redis when it is there.
func (u *dailySummaryUsecase) GetDailySummary(ctx context.Context, date string) (*dto.DailySummaryResponse, error) {
	day, err := u.parseDate(date)
	if err != nil {
		return nil, err
	}

	if u.cache != nil && day.Equal(entity.DateOnly(u.now().In(u.loc))) {
		row, ok, err := u.cache.GetSummary(ctx, day)
		if err != nil {
			u.log.Warnf("Failed to read mirrored summary, falling back to database: %+v", err)
		} else if ok {
			resp := converter.DailySummaryToResponse(row, "cache")
			return &resp, nil
		}
	}

	row, err := u.summaryRepo.FindByDate(ctx, day)
	if err != nil {
		u.log.Warnf("Failed to find daily summary %s: %+v", date, err)
		return nil, storageErr(err)
	}
	if row == nil {
		row = entity.NewDailySummary(day)
	}

	resp := converter.DailySummaryToResponse(row, "database")
	return &resp, nil
}

// ListDailySummaries returns one entry per day in [from, to], zero-filled
func (u *dailySummaryUsecase) ListDailySummaries(ctx context.Context, from, to string) (*dto.DailySummaryListResponse, error) {
	start, err := u.parseDate(from)
	if err != nil {
		return nil, err
	}
	end, err := u.parseDate(to)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: from must not be after to", ErrInvalidInput)
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > maxSummaryRangeDays {
		return nil, fmt.Errorf("%w: range is limited to %d days", ErrInvalidInput, maxSummaryRangeDays)
	}

	rows, err := u.summaryRepo.FindRange(ctx, start, end)
	if err != nil {
		u.log.Warnf("Failed to list daily summaries %s..%s: %+v", from, to, err)
		return nil, storageErr(err)
	}

	byDate := make(map[string]*entity.DailySummary, len(rows))
	for i := range rows {
		byDate[rows[i].SummaryDate.Format(dateLayout)] = &rows[i]
	}

	total := entity.NewDailySummary(start)
	resp := &dto.DailySummaryListResponse{
		From: start.Format(dateLayout),
		To:   end.Format(dateLayout),
	}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		row, ok := byDate[day.Format(dateLayout)]
		if !ok {
			row = entity.NewDailySummary(day)
		}
		total.Apply(entity.SummaryDelta{
			Count:      row.TotalCount,
			AmountPaid: row.TotalRevenue,
			Cash:       row.Cash,
			Online:     row.Online,
			Discount:   row.Discount,
		})
		resp.Summaries = append(resp.Summaries, converter.DailySummaryToResponse(row, ""))
	}

	resp.Total = converter.DailySummaryToResponse(total, "")
	resp.Total.Date = ""
	return resp, nil
}

// GetDailyReport loads the ledger row and recomputes the same totals from the
// appointments created that day, in parallel, and reports the difference.
func (u *dailySummaryUsecase) GetDailyReport(ctx context.Context, date string) (*dto.DailyReportResponse, error) {
	day, err := u.parseDate(date)
	if err != nil {
		return nil, err
	}

	var (
		ledger     *entity.DailySummary
		recomputed *repository.ScheduledTotals
	)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		row, err := u.summaryRepo.FindByDate(ctx, day)
		if err != nil {
			return fmt.Errorf("load ledger row: %w", err)
		}
		ledger = row
		return nil
	})
	p.Go(func(ctx context.Context) error {
		totals, err := u.appointmentRepo.SumScheduledCreatedOn(ctx, day)
		if err != nil {
			return fmt.Errorf("recompute from appointments: %w", err)
		}
		recomputed = totals
		return nil
	})
	if err := p.Wait(); err != nil {
		u.log.Warnf("Failed to build daily report %s: %+v", date, err)
		return nil, storageErr(err)
	}

	if ledger == nil {
		ledger = entity.NewDailySummary(day)
	}

	dateStr := day.Format(dateLayout)
	drift := dto.DailySummaryResponse{
		Date:         dateStr,
		TotalCount:   ledger.TotalCount - recomputed.Count,
		TotalRevenue: ledger.TotalRevenue.Sub(recomputed.Revenue),
		Cash:         ledger.Cash.Sub(recomputed.Cash),
		Online:       ledger.Online.Sub(recomputed.Online),
		Discount:     ledger.Discount.Sub(recomputed.Discount),
	}

	inSync := drift.TotalCount == 0
	for _, d := range []decimal.Decimal{drift.TotalRevenue, drift.Cash, drift.Online, drift.Discount} {
		if !d.IsZero() {
			inSync = false
		}
	}
	if !inSync {
		u.log.Warnf("Daily summary %s differs from appointments: count %+d revenue %s", dateStr, drift.TotalCount, drift.TotalRevenue)
	}

	return &dto.DailyReportResponse{
		Date:       dateStr,
		Ledger:     converter.DailySummaryToResponse(ledger, "database"),
		Recomputed: converter.ScheduledTotalsToResponse(dateStr, recomputed),
		Drift:      drift,
		InSync:     inSync,
	}, nil
}

func (u *dailySummaryUsecase) parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "today") {
		return entity.DateOnly(u.now().In(u.loc)), nil
	}
	day, err := time.ParseInLocation(dateLayout, value, u.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return day, nil
}
