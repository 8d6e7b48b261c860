package service

import (
	"context"
	"errors"
	"fmt"

	"go-clinic-booking/internal/domain/repository"
	"go-clinic-booking/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// ErrAllocationUnavailable means no sequence value was issued. Nothing was
// written, so the caller may retry the whole booking.
var ErrAllocationUnavailable = errors.New("identifier allocation unavailable")

type SequenceAllocator interface {
	AllocateNext(ctx context.Context) (int64, error)
}

type sequenceAllocator struct {
	repo    repository.SequenceRepository
	log     *logrus.Logger
	metrics *metrics.Collector
}

func NewSequenceAllocator(repo repository.SequenceRepository, log *logrus.Logger, m *metrics.Collector) SequenceAllocator {
	return &sequenceAllocator{
		repo:    repo,
		log:     log,
		metrics: m,
	}
}

// AllocateNext returns a value never returned before. There is no
// read-then-write fallback when the server-side increment fails.
func (s *sequenceAllocator) AllocateNext(ctx context.Context) (int64, error) {
	next, err := s.repo.IncrementCounter(ctx)
	if err != nil {
		s.metrics.UHIDAllocationsTotal.WithLabelValues("error").Inc()
		s.log.Errorf("Failed to allocate sequence value: %+v", err)
		return 0, fmt.Errorf("%w: %w", ErrAllocationUnavailable, err)
	}
	if next <= 0 {
		s.metrics.UHIDAllocationsTotal.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("%w: counter returned %d", ErrAllocationUnavailable, next)
	}

	s.metrics.UHIDAllocationsTotal.WithLabelValues("ok").Inc()
	return next, nil
}
