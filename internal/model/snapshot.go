package model

import "time"

// CandidateSnapshot is a point-in-time copy of a candidate record persisted
// to ClickHouse for analytics. The ledger stays the source of truth; rows are
// append-only and keyed by the sync pass that produced them.
type CandidateSnapshot struct {
	SnapshotTime time.Time
	ID           string
	Name         string
	Position     string
	Score        uint32
	Stage        string
	Status       Status
	Owner        string
	Version      uint32
	CreatedAt    time.Time
}
