// Package model defines domain models for the candidate registry.
package model

import "strings"

// Status describes the pipeline state of a candidate record.
type Status string

var (
	// StatusScreening is the initial state of every new candidate.
	StatusScreening Status = "screening"
	// StatusTesting marks a candidate in the assessment phase.
	StatusTesting Status = "testing"
	// StatusInterview marks a candidate in the interview phase.
	StatusInterview Status = "interview"
	// StatusHired is a terminal state.
	StatusHired Status = "hired"
	// StatusRejected is a terminal state.
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the known pipeline states.
func (s Status) Valid() bool {
	switch s {
	case StatusScreening, StatusTesting, StatusInterview, StatusHired, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusHired || s == StatusRejected
}

// CanTransition reports whether a record may move from s to next.
func (s Status) CanTransition(next Status) bool {
	if !next.Valid() || s.Terminal() || s == next {
		return false
	}
	return true
}

// Candidate is the sole persistent entity of the registry. Records are stored
// on the ledger under candidate_<ID> as JSON and listed in candidate_keys.
type Candidate struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Position      string `json:"position"`
	Score         int    `json:"score"`
	Stage         string `json:"stage"`
	EncryptedData string `json:"encryptedData"`
	Timestamp     int64  `json:"timestamp"`
	Owner         string `json:"owner"`
	Status        Status `json:"status"`
	// Version counts writes to the record. Legacy records on the ledger
	// predate the field and decode as 0.
	Version uint64 `json:"version"`
}

// OwnedBy compares addr against the record owner. Addresses are hex strings
// whose case carries no identity, so the compare is case-insensitive.
func (c Candidate) OwnedBy(addr string) bool {
	return addr != "" && strings.EqualFold(c.Owner, addr)
}
