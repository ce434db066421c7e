package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/cipherhire/cipherhire-backend/internal/model"
)

// InsertCandidateSnapshots stores candidate snapshot rows in ClickHouse.
func (r *Repository) InsertCandidateSnapshots(ctx context.Context, snapshots []model.CandidateSnapshot) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_candidate_snapshots", err, start)
	}()

	if len(snapshots) == 0 {
		return nil
	}

	const query = `
INSERT INTO candidate_snapshots (
	snapshot_time,
	id,
	name,
	position,
	score,
	stage,
	status,
	owner,
	version,
	created_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare snapshots batch: %w", err)
	}

	for _, snapshot := range snapshots {
		if err = batch.Append(
			snapshot.SnapshotTime,
			snapshot.ID,
			snapshot.Name,
			snapshot.Position,
			snapshot.Score,
			snapshot.Stage,
			string(snapshot.Status),
			snapshot.Owner,
			snapshot.Version,
			snapshot.CreatedAt,
		); err != nil {
			return fmt.Errorf("append snapshot: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert snapshots: %w", err)
	}
	return nil
}
