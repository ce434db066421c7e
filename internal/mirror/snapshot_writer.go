package mirror

import (
	"context"

	"go.uber.org/zap"

	"github.com/cipherhire/cipherhire-backend/internal/model"
	"github.com/cipherhire/cipherhire-backend/pkg/batcher"
)

type snapshotWriter struct {
	repo            SnapshotRepository
	logger          *zap.Logger
	snapshotBatcher *batcher.Batcher[model.CandidateSnapshot]
}

func newSnapshotWriter(repo SnapshotRepository, logger *zap.Logger) *snapshotWriter {
	w := &snapshotWriter{
		repo:   repo,
		logger: logger,
	}
	w.snapshotBatcher = batcher.New[model.CandidateSnapshot](
		logger.Named("snapshotBatcher"),
		w.flush,
		snapshotBatcherCapacity,
		snapshotBatcherFlushInterval,
		snapshotBatcherRPS,
	)
	return w
}

func (w *snapshotWriter) Start(ctx context.Context) {
	w.snapshotBatcher.Start(ctx)
}

func (w *snapshotWriter) Stop() {
	w.snapshotBatcher.Stop()
}

func (w *snapshotWriter) Write(ctx context.Context, snapshot model.CandidateSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return w.snapshotBatcher.Add(ctx, snapshot)
}

func (w *snapshotWriter) flush(ctx context.Context, snapshots []model.CandidateSnapshot) error {
	if err := w.repo.InsertCandidateSnapshots(ctx, snapshots); err != nil {
		return err
	}
	w.logger.Debug("InsertCandidateSnapshots", zap.Int("count", len(snapshots)))
	return nil
}
