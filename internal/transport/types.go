// Package transport exposes the registry over HTTP.
package transport

import (
	"context"

	"github.com/cipherhire/cipherhire-backend/internal/model"
	"github.com/cipherhire/cipherhire-backend/internal/registry"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Registry describes the synchronizer operations the HTTP API needs.
	Registry interface {
		LoadAll(ctx context.Context) ([]model.Candidate, error)
		Create(ctx context.Context, caller string, draft registry.Draft) (*model.Candidate, error)
		UpdateStatus(ctx context.Context, caller, id string, next model.Status) (*model.Candidate, error)
		Stats(ctx context.Context) (registry.Stats, error)
	}
)
