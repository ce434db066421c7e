// Package registry implements the candidate registry synchronization protocol
// against the contract key-value ledger: assembling the candidate list from
// the id index, creating records through a two-phase intent, and applying
// status transitions with optimistic concurrency.
package registry

import (
	"context"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Ledger describes the contract store operations the synchronizer needs.
	Ledger interface {
		IsAvailable(ctx context.Context) (bool, error)
		GetData(ctx context.Context, key string) ([]byte, error)
		SetData(ctx context.Context, key string, value []byte) error
	}

	// Index describes the id bookkeeping operations the synchronizer needs.
	Index interface {
		Read(ctx context.Context) ([]string, error)
		Append(ctx context.Context, id string) error
		ReadPending(ctx context.Context) ([]string, error)
		AddPending(ctx context.Context, id string) error
		RemovePending(ctx context.Context, id string) error
	}

	// Metrics records metrics for synchronizer operations.
	Metrics interface {
		ObserveLoadAll(err error, records int, started time.Time)
		ObserveCreate(err error, started time.Time)
		ObserveUpdateStatus(err error, started time.Time)
		ObserveReconcile(err error, finished, discarded int, started time.Time)
	}
)

// Draft carries the caller-supplied fields of a new candidate. Stage is the
// intake pipeline position shown on the dashboard; it stays informational and
// is never reconciled with the status state machine.
type Draft struct {
	Name     string `json:"name" validate:"required"`
	Position string `json:"position" validate:"required"`
	Stage    string `json:"stage" validate:"omitempty,oneof=screening testing interview"`
}
