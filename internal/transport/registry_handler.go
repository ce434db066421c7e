package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cipherhire/cipherhire-backend/internal/model"
	"github.com/cipherhire/cipherhire-backend/internal/registry"
	"github.com/cipherhire/cipherhire-backend/internal/registry/ledger"
)

// WalletHeader carries the caller address on every write request. The
// address identifies the signer; requests without it are unauthenticated.
const WalletHeader = "X-Wallet-Address"

// RegistryHandler serves the candidate registry HTTP API.
type RegistryHandler struct {
	registry Registry
	logger   *zap.Logger
}

// NewRegistryHandler returns a RegistryHandler instance.
func NewRegistryHandler(reg Registry, logger *zap.Logger) (*RegistryHandler, error) {
	if reg == nil {
		return nil, errors.New("handler registry is required")
	}
	return &RegistryHandler{registry: reg, logger: logger}, nil
}

// Register mounts all routes on mux.
func (h *RegistryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/candidates", h.listCandidates)
	mux.HandleFunc("POST /api/candidates", h.createCandidate)
	mux.HandleFunc("POST /api/candidates/{id}/status", h.updateStatus)
	mux.HandleFunc("GET /api/stats", h.stats)
	mux.HandleFunc("GET /health", h.health)
}

func (h *RegistryHandler) listCandidates(w http.ResponseWriter, r *http.Request) {
	list, err := h.registry.LoadAll(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

func (h *RegistryHandler) createCandidate(w http.ResponseWriter, r *http.Request) {
	var draft registry.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	created, err := h.registry.Create(r.Context(), r.Header.Get(WalletHeader), draft)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *RegistryHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	updated, err := h.registry.UpdateStatus(
		r.Context(),
		r.Header.Get(WalletHeader),
		r.PathValue("id"),
		model.Status(req.Status),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *RegistryHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.registry.Stats(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *RegistryHandler) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *RegistryHandler) writeError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, registry.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, registry.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, registry.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, registry.ErrConflict),
		errors.Is(err, registry.ErrTerminalStatus),
		errors.Is(err, registry.ErrInvalidStatus):
		status = http.StatusConflict
	case errors.Is(err, registry.ErrUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, ledger.ErrUserRejected), errors.As(err, &validationErrs):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *RegistryHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response failed", zap.Error(err))
	}
}
