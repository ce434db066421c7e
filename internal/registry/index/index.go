// Package index maintains the registry bookkeeping entries on the ledger: the
// ordered id list under candidate_keys and the in-flight creation intents
// under candidate_pending. The ledger offers no conditional writes, so append
// uses a bounded verify-retry loop to defend against concurrent overwrites.
package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/cipherhire/cipherhire-backend/internal/registry/ledger"
)

const appendRetries = 3

// ErrAppendContended is returned when every verify-retry attempt lost to a
// concurrent index overwrite.
var ErrAppendContended = errors.New("index append lost to concurrent writers")

type (
	// Ledger describes the store operations the index manager needs.
	Ledger interface {
		GetData(ctx context.Context, key string) ([]byte, error)
		SetData(ctx context.Context, key string, value []byte) error
	}
)

// Manager reads and extends the candidate id index.
type Manager struct {
	ledger Ledger
	logger *zap.Logger
}

// NewManager builds a Manager.
func NewManager(l Ledger, logger *zap.Logger) (*Manager, error) {
	if l == nil {
		return nil, errors.New("index ledger is required")
	}
	return &Manager{ledger: l, logger: logger}, nil
}

// Read returns all candidate ids in creation order. An absent or empty index
// entry is the "no candidates yet" state, not an error. Corrupt index bytes
// are logged and treated as empty, favoring availability over completeness.
func (m *Manager) Read(ctx context.Context) ([]string, error) {
	return m.readList(ctx, ledger.IndexKey)
}

// Append adds id to the index. Ids already present are left alone, keeping the
// exactly-once invariant under reconciliation replays. After each write the
// index is read back; if the id is gone a concurrent writer overwrote the
// entry from a stale snapshot and the append is retried.
func (m *Manager) Append(ctx context.Context, id string) error {
	for attempt := 0; attempt < appendRetries; attempt++ {
		ids, err := m.readList(ctx, ledger.IndexKey)
		if err != nil {
			return err
		}
		if slices.Contains(ids, id) {
			return nil
		}

		ids = append(ids, id)
		if err := m.writeList(ctx, ledger.IndexKey, ids); err != nil {
			return err
		}

		stored, err := m.readList(ctx, ledger.IndexKey)
		if err != nil {
			return err
		}
		if slices.Contains(stored, id) {
			return nil
		}
		m.logger.Warn("index append overwritten, retrying",
			zap.String("id", id),
			zap.Int("attempt", attempt+1),
		)
	}
	return fmt.Errorf("append %s: %w", id, ErrAppendContended)
}

// ReadPending returns the ids of creations recorded but not yet indexed.
func (m *Manager) ReadPending(ctx context.Context) ([]string, error) {
	return m.readList(ctx, ledger.PendingKey)
}

// AddPending records a creation intent for id.
func (m *Manager) AddPending(ctx context.Context, id string) error {
	ids, err := m.readList(ctx, ledger.PendingKey)
	if err != nil {
		return err
	}
	if slices.Contains(ids, id) {
		return nil
	}
	return m.writeList(ctx, ledger.PendingKey, append(ids, id))
}

// RemovePending clears the creation intent for id.
func (m *Manager) RemovePending(ctx context.Context, id string) error {
	ids, err := m.readList(ctx, ledger.PendingKey)
	if err != nil {
		return err
	}
	remaining := slices.DeleteFunc(ids, func(s string) bool { return s == id })
	if len(remaining) == len(ids) {
		return nil
	}
	return m.writeList(ctx, ledger.PendingKey, remaining)
}

func (m *Manager) readList(ctx context.Context, key string) ([]string, error) {
	data, err := m.ledger.GetData(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		m.logger.Warn("stored id list is corrupt, treating as empty",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, nil
	}
	return ids, nil
}

func (m *Manager) writeList(ctx context.Context, key string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := m.ledger.SetData(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
