package mirror

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cipherhire/cipherhire-backend/internal/clock"
)

// Service runs the registry mirror loop.
type Service struct {
	logger       *zap.Logger
	registry     Registry
	writer       SnapshotWriter
	metrics      Metrics
	sleep        func(context.Context, time.Duration) error
	now          func() time.Time
	syncInterval time.Duration
	errorBackoff time.Duration
}

// NewService builds a mirror Service with dependencies.
func NewService(reg Registry, repo SnapshotRepository, metrics Metrics, logger *zap.Logger) (*Service, error) {
	if reg == nil {
		return nil, errors.New("mirror registry is required")
	}
	if repo == nil {
		return nil, errors.New("mirror repository is required")
	}
	if metrics == nil {
		return nil, errors.New("mirror metrics is required")
	}

	return &Service{
		logger:       logger,
		registry:     reg,
		writer:       newSnapshotWriter(repo, logger.Named("snapshotWriter")),
		metrics:      metrics,
		sleep:        clock.SleepWithContext,
		now:          time.Now,
		syncInterval: syncInterval,
		errorBackoff: errorBackoff,
	}, nil
}

// Run starts the mirror loop until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	s.writer.Start(ctx)
	defer s.writer.Stop()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.run(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("sync pass failed, backing off", zap.Error(err), zap.Duration("sleep", s.errorBackoff))
			if sleepErr := s.sleep(ctx, s.errorBackoff); sleepErr != nil {
				return sleepErr
			}
		}
	}
}

func (s *Service) run(ctx context.Context) error {
	started := time.Now()

	report, err := s.registry.Reconcile(ctx)
	if err != nil {
		s.metrics.ObserveSync(err, 0, started)
		return fmt.Errorf("reconcile registry: %w", err)
	}
	if report.Finished > 0 || report.Discarded > 0 {
		s.logger.Info("repaired creation intents",
			zap.Int("finished", report.Finished),
			zap.Int("discarded", report.Discarded),
		)
	}

	list, err := s.registry.LoadAll(ctx)
	if err != nil {
		s.metrics.ObserveSync(err, 0, started)
		return fmt.Errorf("load registry: %w", err)
	}

	snapshots, err := ToSnapshots(list, s.now().UTC())
	if err != nil {
		s.metrics.ObserveSync(err, 0, started)
		return err
	}

	for _, snapshot := range snapshots {
		if err = s.writer.Write(ctx, snapshot); err != nil {
			s.metrics.ObserveSync(err, 0, started)
			return fmt.Errorf("queue snapshot: %w", err)
		}
	}
	s.metrics.ObserveSync(nil, len(snapshots), started)

	s.logger.Debug("sync pass complete", zap.Int("rows", len(snapshots)))
	return s.sleep(ctx, s.syncInterval)
}
