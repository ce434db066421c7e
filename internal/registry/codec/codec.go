// Package codec serializes candidate records for ledger storage. The wire
// format is the JSON object layout already present on deployed contracts, so
// encoding must stay field-compatible with existing data.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/cipherhire/cipherhire-backend/internal/model"
)

// DecodeError marks stored bytes that do not decode into a candidate record.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode record %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Encode serializes a candidate record to its ledger payload.
func Encode(c model.Candidate) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode record %s: %w", c.ID, err)
	}
	return data, nil
}

// Decode parses a ledger payload into a candidate record. Records written by
// older clients may lack status and version; those default to screening and 0.
// key is only used for error reporting.
func Decode(key string, data []byte) (model.Candidate, error) {
	var c model.Candidate
	if err := json.Unmarshal(data, &c); err != nil {
		return model.Candidate{}, &DecodeError{Key: key, Err: err}
	}
	if c.Status == "" {
		c.Status = model.StatusScreening
	}
	return c, nil
}
