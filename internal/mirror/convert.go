package mirror

import (
	"fmt"
	"time"

	"github.com/cipherhire/cipherhire-backend/internal/model"
	"github.com/cipherhire/cipherhire-backend/pkg/safe"
)

// ToSnapshots converts a loaded candidate list into snapshot rows stamped
// with the sync pass time.
func ToSnapshots(list []model.Candidate, at time.Time) ([]model.CandidateSnapshot, error) {
	snapshots := make([]model.CandidateSnapshot, 0, len(list))
	for _, c := range list {
		score, err := safe.Uint32(c.Score)
		if err != nil {
			return nil, fmt.Errorf("candidate %s score: %w", c.ID, err)
		}
		version, err := safe.Uint32(c.Version)
		if err != nil {
			return nil, fmt.Errorf("candidate %s version: %w", c.ID, err)
		}

		snapshots = append(snapshots, model.CandidateSnapshot{
			SnapshotTime: at,
			ID:           c.ID,
			Name:         c.Name,
			Position:     c.Position,
			Score:        score,
			Stage:        c.Stage,
			Status:       c.Status,
			Owner:        c.Owner,
			Version:      version,
			CreatedAt:    time.Unix(c.Timestamp, 0).UTC(),
		})
	}
	return snapshots, nil
}
