// Package envelope produces the opaque payload stored in a candidate's
// encryptedData field. The format ("FHE-" prefix over base64 JSON) is what
// deployed contracts already hold; it is a placeholder the dashboard displays
// as ciphertext and NOT an encryption scheme. Nothing here provides
// confidentiality.
package envelope

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const prefix = "FHE-"

// ErrMalformed marks a payload without the expected shape.
var ErrMalformed = errors.New("malformed envelope payload")

// Seal wraps v into the opaque payload format.
func Seal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("seal payload: %w", err)
	}
	return prefix + base64.StdEncoding.EncodeToString(data), nil
}

// Open unwraps a sealed payload back into its JSON bytes.
func Open(payload string) ([]byte, error) {
	encoded, ok := strings.CutPrefix(payload, prefix)
	if !ok {
		return nil, ErrMalformed
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return data, nil
}
