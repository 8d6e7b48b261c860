package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go-clinic-booking/internal/domain/entity"
	"go-clinic-booking/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestMetrics() *metrics.Collector {
	return metrics.NewCollector("test", prometheus.NewRegistry())
}

// counterRepo behaves like increment_counter(): the increment and read are one step
type counterRepo struct {
	mu    sync.Mutex
	value int64
	err   error
}

func (r *counterRepo) IncrementCounter(ctx context.Context) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value++
	return r.value, nil
}

// atomicSummaryRepo applies each delta under one lock, like the upsert
type atomicSummaryRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.DailySummary
	err  error

	lockedCalls int
}

func newAtomicSummaryRepo() *atomicSummaryRepo {
	return &atomicSummaryRepo{rows: map[string]*entity.DailySummary{}}
}

func (r *atomicSummaryRepo) Increment(ctx context.Context, date time.Time, delta entity.SummaryDelta) (*entity.DailySummary, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := date.Format("2006-01-02")
	row, ok := r.rows[key]
	if !ok {
		row = entity.NewDailySummary(date)
		r.rows[key] = row
	}
	row.Apply(delta)

	copied := *row
	return &copied, nil
}

func (r *atomicSummaryRepo) IncrementLocked(ctx context.Context, date time.Time, delta entity.SummaryDelta) (*entity.DailySummary, error) {
	r.mu.Lock()
	r.lockedCalls++
	r.mu.Unlock()
	return r.Increment(ctx, date, delta)
}

func (r *atomicSummaryRepo) FindByDate(ctx context.Context, date time.Time) (*entity.DailySummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[date.Format("2006-01-02")]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (r *atomicSummaryRepo) FindRange(ctx context.Context, from, to time.Time) ([]entity.DailySummary, error) {
	return nil, errors.New("not implemented")
}

func (r *atomicSummaryRepo) FindSince(ctx context.Context, since time.Time, limit, offset int) ([]entity.DailySummary, error) {
	return nil, errors.New("not implemented")
}

// naiveSummaryRepo reads, waits for the other writers to read too, then
// writes back. This is the unguarded read-modify-write the ledger replaced.
type naiveSummaryRepo struct {
	*atomicSummaryRepo
	readBarrier *sync.WaitGroup
}

func (r *naiveSummaryRepo) Increment(ctx context.Context, date time.Time, delta entity.SummaryDelta) (*entity.DailySummary, error) {
	snapshot, _ := r.atomicSummaryRepo.FindByDate(ctx, date)
	if snapshot == nil {
		snapshot = entity.NewDailySummary(date)
	}

	r.readBarrier.Done()
	r.readBarrier.Wait()

	snapshot.Apply(delta)

	r.mu.Lock()
	r.rows[date.Format("2006-01-02")] = snapshot
	r.mu.Unlock()
	return snapshot, nil
}

type recordingMirror struct {
	mu   sync.Mutex
	rows []entity.DailySummary
	err  error
}

func (m *recordingMirror) Mirror(ctx context.Context, row *entity.DailySummary) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *row)
	return nil
}
