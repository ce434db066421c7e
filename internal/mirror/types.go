// Package mirror keeps an analytics copy of the candidate registry in
// ClickHouse. Each sync pass repairs interrupted creations, loads the full
// registry and appends one snapshot row per candidate.
package mirror

import (
	"context"
	"time"

	"github.com/cipherhire/cipherhire-backend/internal/model"
	"github.com/cipherhire/cipherhire-backend/internal/registry"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Registry describes the synchronizer operations the mirror needs.
	Registry interface {
		LoadAll(ctx context.Context) ([]model.Candidate, error)
		Reconcile(ctx context.Context) (registry.ReconcileReport, error)
	}

	// SnapshotWriter buffers snapshot rows before they reach ClickHouse.
	SnapshotWriter interface {
		Start(ctx context.Context)
		Stop()
		Write(ctx context.Context, snapshot model.CandidateSnapshot) error
	}

	// SnapshotRepository persists snapshot rows.
	SnapshotRepository interface {
		InsertCandidateSnapshots(ctx context.Context, snapshots []model.CandidateSnapshot) error
	}

	// Metrics records metrics for mirror sync passes.
	Metrics interface {
		ObserveSync(err error, rows int, started time.Time)
	}
)
