package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means the ledger liveness probe failed; reads abort whole.
	ErrUnavailable = errors.New("registry ledger is unavailable")
	// ErrUnauthenticated means a write was attempted without a signer address.
	ErrUnauthenticated = errors.New("write requires a signer address")
	// ErrNotFound means the target candidate record does not exist.
	ErrNotFound = errors.New("candidate record not found")
	// ErrConflict means the record changed between read and write.
	ErrConflict = errors.New("candidate record was modified concurrently")
	// ErrNotOwner means the caller does not own the target record.
	ErrNotOwner = errors.New("caller is not the record owner")
	// ErrTerminalStatus means the record is hired or rejected and frozen.
	ErrTerminalStatus = errors.New("candidate status is terminal")
	// ErrInvalidStatus means the requested transition is not allowed.
	ErrInvalidStatus = errors.New("invalid status transition")
)

// SubmissionError wraps a failed registry write. Unwrap exposes the cause so
// callers can still distinguish a signer rejection (ledger.ErrUserRejected)
// from other failures.
type SubmissionError struct {
	Op  string
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s submission failed: %v", e.Op, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
