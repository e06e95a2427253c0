package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/checkin/internal/domain/roster"
	"github.com/okian/checkin/internal/domain/types"
	"github.com/okian/checkin/internal/domain/verify"
)

// ScanDependencies defines the interface for scan processing dependencies.
type ScanDependencies interface {
	Verify(ctx context.Context, text string) (verify.Entry, error)
	Entries() []verify.Entry
	Mapping() (roster.ColumnMapping, error)
}

// ScansHandler handles scan requests.
type ScansHandler struct {
	deps ScanDependencies
}

// NewScansHandler creates a new scans handler.
func NewScansHandler(deps ScanDependencies) *ScansHandler {
	return &ScansHandler{deps: deps}
}

// scanRequest mirrors the body of POST /scans.
type scanRequest struct {
	Text string `json:"text"`
}

// HandleScans handles POST /scans and GET /scans?order=desc.
func (h *ScansHandler) HandleScans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.post(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *ScansHandler) post(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_scan"
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	entry, err := h.deps.Verify(r.Context(), req.Text)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}

	m, _ := h.deps.Mapping()
	writeJSON(w, http.StatusOK, resultView(entry, m))
}

func (h *ScansHandler) list(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_scans"
	order := r.URL.Query().Get("order")
	if order != "" && order != "asc" && order != "desc" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("order must be asc or desc")))
		return
	}

	entries := h.deps.Entries()
	m, _ := h.deps.Mapping()

	out := make([]types.Result, len(entries))
	for i, e := range entries {
		idx := i
		if order == "desc" {
			idx = len(entries) - 1 - i
		}
		out[idx] = resultView(e, m)
	}
	writeJSON(w, http.StatusOK, out)
}
