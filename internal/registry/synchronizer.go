package registry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cipherhire/cipherhire-backend/internal/model"
	"github.com/cipherhire/cipherhire-backend/internal/registry/codec"
	"github.com/cipherhire/cipherhire-backend/internal/registry/envelope"
	"github.com/cipherhire/cipherhire-backend/internal/registry/ledger"
	"github.com/cipherhire/cipherhire-backend/pkg/workerpool"
)

const defaultWorkerCount = 8

// Synchronizer orchestrates reads and writes of candidate records against the
// ledger. Operations are best-effort snapshots: the ledger is shared with
// other sessions and each key is read independently.
type Synchronizer struct {
	logger   *zap.Logger
	ledger   Ledger
	index    Index
	metrics  Metrics
	validate *validator.Validate

	workerCount int
	now         func() time.Time
	newID       func() string
	newScore    func() int
}

// NewSynchronizer builds a Synchronizer with dependencies.
func NewSynchronizer(l Ledger, idx Index, metrics Metrics, logger *zap.Logger) (*Synchronizer, error) {
	if l == nil {
		return nil, errors.New("synchronizer ledger is required")
	}
	if idx == nil {
		return nil, errors.New("synchronizer index is required")
	}
	if metrics == nil {
		return nil, errors.New("synchronizer metrics is required")
	}

	return &Synchronizer{
		logger:      logger,
		ledger:      l,
		index:       idx,
		metrics:     metrics,
		validate:    validator.New(),
		workerCount: defaultWorkerCount,
		now:         time.Now,
		newID:       newCandidateID,
		// Placeholder until the evaluation pipeline produces real scores,
		// mirroring what the contract currently stores.
		newScore: func() int { return rand.IntN(100) },
	}, nil
}

// newCandidateID yields a time-ordered id with a random suffix. Uniqueness is
// probabilistic, which is acceptable at registry scale.
func newCandidateID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix)
}

// LoadAll assembles the full candidate list: availability probe, index read,
// then a bounded fan-out of per-id record reads. A failure on one id is
// logged and that candidate omitted; it never aborts siblings. The result is
// sorted by timestamp descending, ties keeping index order.
func (s *Synchronizer) LoadAll(ctx context.Context) (list []model.Candidate, err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveLoadAll(err, len(list), started)
	}()

	ok, probeErr := s.ledger.IsAvailable(ctx)
	if probeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, probeErr)
	}
	if !ok {
		return nil, ErrUnavailable
	}

	ids, err := s.index.Read(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Candidate{}, nil
	}

	type task struct {
		pos int
		id  string
	}
	type slot struct {
		candidate model.Candidate
		ok        bool
	}

	tasks := make([]task, len(ids))
	for i, id := range ids {
		tasks[i] = task{pos: i, id: id}
	}
	slots := make([]slot, len(ids))

	// Workers touch disjoint slots, so no locking is needed. The process
	// callback swallows per-id failures to keep them isolated.
	err = workerpool.Process(ctx, s.workerCount, tasks, func(ctx context.Context, t task) error {
		if c, ok := s.fetchCandidate(ctx, t.id); ok {
			slots[t.pos] = slot{candidate: c, ok: true}
		}
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}

	list = make([]model.Candidate, 0, len(ids))
	for _, sl := range slots {
		if sl.ok {
			list = append(list, sl.candidate)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Timestamp > list[j].Timestamp })
	return list, nil
}

func (s *Synchronizer) fetchCandidate(ctx context.Context, id string) (model.Candidate, bool) {
	key := ledger.CandidateKey(id)

	data, err := s.ledger.GetData(ctx, key)
	if err != nil {
		s.logger.Warn("read candidate failed, omitting", zap.String("id", id), zap.Error(err))
		return model.Candidate{}, false
	}
	if len(data) == 0 {
		s.logger.Warn("indexed candidate has no record", zap.String("id", id))
		return model.Candidate{}, false
	}

	c, err := codec.Decode(key, data)
	if err != nil {
		s.logger.Warn("decode candidate failed, omitting", zap.String("id", id), zap.Error(err))
		return model.Candidate{}, false
	}
	// The index is authoritative for identity.
	c.ID = id
	return c, true
}

// Create validates the draft, seals the opaque payload and writes the record
// through a two-phase intent: intent under candidate_pending, then the record,
// then the index append, then intent cleanup. A crash mid-sequence leaves an
// intent for Reconcile instead of a silently invisible record.
func (s *Synchronizer) Create(ctx context.Context, caller string, draft Draft) (created *model.Candidate, err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveCreate(err, started)
	}()

	if caller == "" {
		return nil, ErrUnauthenticated
	}
	if draft.Stage == "" {
		draft.Stage = string(model.StatusScreening)
	}
	if err = s.validate.Struct(draft); err != nil {
		return nil, fmt.Errorf("validate draft: %w", err)
	}

	sealed, err := envelope.Seal(draft)
	if err != nil {
		return nil, err
	}

	id := s.newID()
	record := model.Candidate{
		ID:            id,
		Name:          draft.Name,
		Position:      draft.Position,
		Score:         s.newScore(),
		Stage:         draft.Stage,
		EncryptedData: sealed,
		Timestamp:     s.now().Unix(),
		Owner:         caller,
		Status:        model.StatusScreening,
		Version:       0,
	}
	encoded, err := codec.Encode(record)
	if err != nil {
		return nil, err
	}

	if err = s.index.AddPending(ctx, id); err != nil {
		return nil, &SubmissionError{Op: "create", Err: err}
	}
	if err = s.ledger.SetData(ctx, ledger.CandidateKey(id), encoded); err != nil {
		return nil, &SubmissionError{Op: "create", Err: err}
	}
	if err = s.index.Append(ctx, id); err != nil {
		return nil, &SubmissionError{Op: "create", Err: err}
	}

	if cleanupErr := s.index.RemovePending(ctx, id); cleanupErr != nil {
		s.logger.Warn("clear creation intent failed, reconcile will retry",
			zap.String("id", id),
			zap.Error(cleanupErr),
		)
	}

	s.logger.Info("candidate created",
		zap.String("id", id),
		zap.String("position", record.Position),
	)
	return &record, nil
}

// UpdateStatus applies a status transition to an owned record. The record is
// re-read immediately before the overwrite; a moved version fails the write
// with ErrConflict instead of silently losing the intervening transition.
func (s *Synchronizer) UpdateStatus(ctx context.Context, caller, id string, next model.Status) (updated *model.Candidate, err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveUpdateStatus(err, started)
	}()

	if caller == "" {
		return nil, ErrUnauthenticated
	}
	if !next.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", next, ErrInvalidStatus)
	}

	key := ledger.CandidateKey(id)
	data, err := s.ledger.GetData(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read candidate %s: %w", id, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}

	record, err := codec.Decode(key, data)
	if err != nil {
		return nil, err
	}
	record.ID = id

	if !record.OwnedBy(caller) {
		return nil, fmt.Errorf("candidate %s: %w", id, ErrNotOwner)
	}
	if record.Status.Terminal() {
		return nil, fmt.Errorf("candidate %s is %s: %w", id, record.Status, ErrTerminalStatus)
	}
	if !record.Status.CanTransition(next) {
		return nil, fmt.Errorf("%s to %s: %w", record.Status, next, ErrInvalidStatus)
	}

	next2 := record
	next2.Status = next
	next2.Version = record.Version + 1
	encoded, err := codec.Encode(next2)
	if err != nil {
		return nil, err
	}

	// The ledger has no conditional write; re-reading just before the
	// overwrite is the strongest available guard against a racing writer.
	current, err := s.ledger.GetData(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reread candidate %s: %w", id, err)
	}
	if len(current) == 0 {
		return nil, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	latest, err := codec.Decode(key, current)
	if err != nil {
		return nil, err
	}
	if latest.Version != record.Version {
		return nil, fmt.Errorf("candidate %s moved to version %d during update from %d: %w",
			id, latest.Version, record.Version, ErrConflict)
	}

	if err = s.ledger.SetData(ctx, key, encoded); err != nil {
		return nil, &SubmissionError{Op: "status update", Err: err}
	}

	s.logger.Info("candidate status updated",
		zap.String("id", id),
		zap.String("status", string(next)),
	)
	return &next2, nil
}

// ReconcileReport summarizes a repair pass over pending creation intents.
type ReconcileReport struct {
	Finished  int
	Discarded int
}

// Reconcile repairs interrupted creations. An intent whose record landed but
// never reached the index is finished by appending it; an intent with no
// record behind it is discarded. Read failures keep the intent for a later
// pass.
func (s *Synchronizer) Reconcile(ctx context.Context) (report ReconcileReport, err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveReconcile(err, report.Finished, report.Discarded, started)
	}()

	pending, err := s.index.ReadPending(ctx)
	if err != nil {
		return report, err
	}
	if len(pending) == 0 {
		return report, nil
	}

	indexed, err := s.index.Read(ctx)
	if err != nil {
		return report, err
	}

	for _, id := range pending {
		if err = ctx.Err(); err != nil {
			return report, err
		}

		data, readErr := s.ledger.GetData(ctx, ledger.CandidateKey(id))
		if readErr != nil {
			s.logger.Warn("reconcile read failed, keeping intent", zap.String("id", id), zap.Error(readErr))
			continue
		}

		if len(data) == 0 {
			// The record write never landed; only the intent exists.
			if removeErr := s.index.RemovePending(ctx, id); removeErr != nil {
				s.logger.Warn("discard intent failed", zap.String("id", id), zap.Error(removeErr))
				continue
			}
			report.Discarded++
			continue
		}

		if !slices.Contains(indexed, id) {
			if appendErr := s.index.Append(ctx, id); appendErr != nil {
				s.logger.Warn("finish intent failed", zap.String("id", id), zap.Error(appendErr))
				continue
			}
			indexed = append(indexed, id)
			report.Finished++
			s.logger.Info("finished interrupted creation", zap.String("id", id))
		}
		if removeErr := s.index.RemovePending(ctx, id); removeErr != nil {
			s.logger.Warn("clear intent failed", zap.String("id", id), zap.Error(removeErr))
		}
	}
	return report, nil
}
