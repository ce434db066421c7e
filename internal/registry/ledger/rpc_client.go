// Package ledger provides clients for the contract key-value store backing the
// candidate registry. The store exposes three operations through a JSON-RPC
// gateway: an availability probe, getData and setData. Keys are plain strings,
// values are opaque byte payloads, and every setData is an atomic overwrite.
package ledger

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// EIP-1193 code reported by the gateway when the signer declines a write.
const codeUserRejected = 4001

var (
	// ErrUserRejected marks a write the signer explicitly declined.
	ErrUserRejected = errors.New("transaction rejected by user")
	// ErrNoSigner marks a write attempted through a read-only client.
	ErrNoSigner = errors.New("ledger client has no signer account")
)

type (
	// RPCMetrics records metrics for gateway calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// RPCClient talks JSON-RPC 2.0 to the contract gateway. A client constructed
// without a signer account can only read.
type RPCClient struct {
	endpoint   string
	from       string
	httpClient *http.Client
	metrics    RPCMetrics
	reqID      atomic.Uint64
}

// NewRPCClient constructs an instrumented gateway client. from may be empty
// for read-only use.
func NewRPCClient(endpoint, from string, timeout time.Duration, metrics RPCMetrics) (*RPCClient, error) {
	if endpoint == "" {
		return nil, errors.New("ledger endpoint is required")
	}
	if metrics == nil {
		return nil, errors.New("ledger metrics is required")
	}
	return &RPCClient{
		endpoint:   endpoint,
		from:       from,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
	}, nil
}

// SignerAddress returns the account used for writes, if any.
func (c *RPCClient) SignerAddress() (string, bool) {
	return c.from, c.from != ""
}

// IsAvailable probes the contract for liveness.
func (c *RPCClient) IsAvailable(ctx context.Context) (ok bool, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("is_available", err, started)
	}()

	raw, err := c.call(ctx, "registry_isAvailable", nil)
	if err != nil {
		return false, err
	}
	if err = json.Unmarshal(raw, &ok); err != nil {
		return false, fmt.Errorf("decode availability result: %w", err)
	}
	return ok, nil
}

// GetData reads the payload stored under key. An absent key yields empty bytes.
func (c *RPCClient) GetData(ctx context.Context, key string) (value []byte, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_data", err, started)
	}()

	raw, err := c.call(ctx, "registry_getData", []any{key})
	if err != nil {
		return nil, err
	}
	var encoded string
	if err = json.Unmarshal(raw, &encoded); err != nil {
		return nil, fmt.Errorf("decode getData result for %s: %w", key, err)
	}
	value, err = decodeHexBytes(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode getData payload for %s: %w", key, err)
	}
	return value, nil
}

// SetData durably overwrites the payload under key through the signer account.
func (c *RPCClient) SetData(ctx context.Context, key string, value []byte) (err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("set_data", err, started)
	}()

	if c.from == "" {
		return ErrNoSigner
	}
	if _, err = c.call(ctx, "registry_setData", []any{key, encodeHexBytes(value), c.from}); err != nil {
		return err
	}
	return nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("gateway error %d: %s", e.Code, e.Message)
}

func (c *RPCClient) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.reqID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("call %s: unexpected status %d", method, resp.StatusCode)
	}

	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if decoded.Error != nil {
		if decoded.Error.Code == codeUserRejected {
			return nil, fmt.Errorf("%w: %s", ErrUserRejected, decoded.Error.Message)
		}
		return nil, fmt.Errorf("call %s: %w", method, decoded.Error)
	}
	return decoded.Result, nil
}

func encodeHexBytes(value []byte) string {
	return "0x" + hex.EncodeToString(value)
}

func decodeHexBytes(encoded string) ([]byte, error) {
	trimmed := strings.TrimPrefix(encoded, "0x")
	if trimmed == "" {
		return nil, nil
	}
	return hex.DecodeString(trimmed)
}
