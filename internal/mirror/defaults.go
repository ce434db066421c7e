package mirror

import "time"

const (
	syncInterval = 1 * time.Minute
	errorBackoff = 5 * time.Second

	snapshotBatcherCapacity      = 500
	snapshotBatcherFlushInterval = 5 * time.Second
	snapshotBatcherRPS           = 1
)
