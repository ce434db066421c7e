package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/cipherhire/cipherhire-backend/internal/model"
)

// StatusDistribution counts candidates per status over the latest snapshot of
// every id.
func (r *Repository) StatusDistribution(ctx context.Context) (map[model.Status]uint64, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("status_distribution", err, start)
	}()

	const query = `WITH latest AS (
    SELECT
        id,
        argMax(status, snapshot_time) AS status
    FROM candidate_snapshots
    GROUP BY id
)
SELECT status, count() AS total
FROM latest
GROUP BY status;`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query status distribution: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	distribution := make(map[model.Status]uint64)
	for rows.Next() {
		var (
			status string
			total  uint64
		)
		if err = rows.Scan(&status, &total); err != nil {
			return nil, fmt.Errorf("scan status distribution: %w", err)
		}
		distribution[model.Status(status)] = total
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status distribution: %w", err)
	}

	return distribution, nil
}
