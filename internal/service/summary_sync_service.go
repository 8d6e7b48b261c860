package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go-clinic-booking/internal/domain/entity"
	"go-clinic-booking/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// mirrorSummaryScript overwrites the hash only when the incoming row is at
// least as new as the stored one. total_count only grows, so it orders rows
// written by concurrent bookings without any in-process lock.
//
// KEYS[1] = summary hash
// ARGV    = total_count, total_revenue, cash, online, discount, ttl seconds
// Returns 1 when written, 0 when a newer row was already there.
var mirrorSummaryScript = redis.NewScript(`
	local stored = tonumber(redis.call('HGET', KEYS[1], 'total_count') or '-1')
	if stored > tonumber(ARGV[1]) then
		return 0
	end
	redis.call('HSET', KEYS[1],
		'total_count', ARGV[1],
		'total_revenue', ARGV[2],
		'cash', ARGV[3],
		'online', ARGV[4],
		'discount', ARGV[5])
	redis.call('EXPIRE', KEYS[1], tonumber(ARGV[6]))
	return 1
`)

const (
	RedisSummaryKeyPrefix = "summary:daily:"

	// Rows per Postgres page and per Redis pipeline during a resync
	syncBatchSize = 500

	summaryDateLayout = "2006-01-02"
)

// SummarySyncService keeps a Redis copy of recent daily_summaries rows so the
// "today" dashboard read does not hit Postgres. Postgres stays authoritative:
// a miss or a Redis error falls back to the table.
type SummarySyncService struct {
	repo        repository.DailySummaryRepository
	redisClient *redis.Client
	ttlDays     int
	log         *logrus.Logger
}

func NewSummarySyncService(repo repository.DailySummaryRepository, redisClient *redis.Client, ttlDays int, log *logrus.Logger) *SummarySyncService {
	if ttlDays <= 0 {
		ttlDays = 1
	}
	return &SummarySyncService{
		repo:        repo,
		redisClient: redisClient,
		ttlDays:     ttlDays,
		log:         log,
	}
}

// Mirror writes a committed ledger row into Redis
func (s *SummarySyncService) Mirror(ctx context.Context, row *entity.DailySummary) error {
	key := summaryKey(row.SummaryDate)
	ttl := s.calculateTTL(row.SummaryDate)

	written, err := mirrorSummaryScript.Run(ctx, s.redisClient, []string{key},
		row.TotalCount,
		row.TotalRevenue.String(),
		row.Cash.String(),
		row.Online.String(),
		row.Discount.String(),
		int64(ttl/time.Second),
	).Int()
	if err != nil {
		return fmt.Errorf("lua mirror summary %s: %w", key, err)
	}

	if written == 0 {
		s.log.Debugf("Skipped stale mirror write for %s (count=%d)", key, row.TotalCount)
	}
	return nil
}

// GetSummary reads a mirrored row. ok is false on a miss.
func (s *SummarySyncService) GetSummary(ctx context.Context, date time.Time) (*entity.DailySummary, bool, error) {
	fields, err := s.redisClient.HGetAll(ctx, summaryKey(date)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("hgetall summary %s: %w", date.Format(summaryDateLayout), err)
	}
	if len(fields) == 0 {
		return nil, false, nil
	}

	row, err := summaryFromHash(date, fields)
	if err != nil {
		return nil, false, err
	}
	return row, true, nil
}

// SyncOnStartup copies every summary row from since onwards into Redis,
// overwriting what is there. Rows are paged from Postgres and each page goes
// out in its own pipeline.
//
// Run it before accepting traffic, or from the resync-summaries command.
func (s *SummarySyncService) SyncOnStartup(ctx context.Context, since time.Time) (int, error) {
	s.log.Info("Starting daily summary re-sync from database...")
	startTime := time.Now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.Warnf("Redis is not available, skipping sync: %+v", err)
		return 0, fmt.Errorf("redis ping failed: %w", err)
	}

	offset := 0
	totalSynced := 0

	for {
		rows, err := s.repo.FindSince(ctx, entity.DateOnly(since), syncBatchSize, offset)
		if err != nil {
			s.log.Errorf("Failed to query summaries at offset %d: %+v", offset, err)
			return totalSynced, fmt.Errorf("query summaries at offset %d: %w", offset, err)
		}

		if len(rows) == 0 {
			if offset == 0 {
				s.log.Info("No daily summaries found for sync")
			}
			break
		}

		pipe := s.redisClient.TxPipeline()
		for i := range rows {
			row := &rows[i]
			key := summaryKey(row.SummaryDate)
			pipe.HSet(ctx, key,
				"total_count", row.TotalCount,
				"total_revenue", row.TotalRevenue.String(),
				"cash", row.Cash.String(),
				"online", row.Online.String(),
				"discount", row.Discount.String(),
			)
			pipe.Expire(ctx, key, s.calculateTTL(row.SummaryDate))
		}

		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Errorf("Failed to execute pipeline for batch at offset %d: %+v", offset, err)
			return totalSynced, fmt.Errorf("pipeline exec at offset %d: %w", offset, err)
		}

		totalSynced += len(rows)

		if len(rows) < syncBatchSize {
			break
		}
		offset += syncBatchSize

		select {
		case <-ctx.Done():
			return totalSynced, ctx.Err()
		default:
		}
	}

	s.log.Infof("Daily summary re-sync completed: %d rows synced in %v", totalSynced, time.Since(startTime))
	return totalSynced, nil
}

// calculateTTL keeps a row for ttlDays after its date ends
func (s *SummarySyncService) calculateTTL(date time.Time) time.Duration {
	expireAt := entity.DateOnly(date).AddDate(0, 0, 1+s.ttlDays)
	ttl := time.Until(expireAt)

	if ttl <= 0 {
		return 1 * time.Minute
	}
	return ttl
}

func summaryKey(date time.Time) string {
	return RedisSummaryKeyPrefix + date.Format(summaryDateLayout)
}

func summaryFromHash(date time.Time, fields map[string]string) (*entity.DailySummary, error) {
	row := entity.NewDailySummary(date)

	count, err := strconv.ParseInt(fields["total_count"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse mirrored total_count: %w", err)
	}
	row.TotalCount = count

	amounts := []struct {
		field string
		dst   *decimal.Decimal
	}{
		{"total_revenue", &row.TotalRevenue},
		{"cash", &row.Cash},
		{"online", &row.Online},
		{"discount", &row.Discount},
	}
	for _, a := range amounts {
		v, err := decimal.NewFromString(fields[a.field])
		if err != nil {
			return nil, fmt.Errorf("parse mirrored %s: %w", a.field, err)
		}
		*a.dst = v
	}

	return row, nil
}
