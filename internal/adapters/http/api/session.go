package api

import (
	"context"
	"net/http"
	"strconv"
)

// SessionDependencies defines the session lifecycle operations.
type SessionDependencies interface {
	Reset(ctx context.Context)
	ClearScans(ctx context.Context) error
}

// SessionHandler handles session lifecycle requests.
type SessionHandler struct {
	deps SessionDependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

type resetResponse struct {
	Status     string `json:"status"`
	KeptRoster bool   `json:"kept_roster"`
}

// HandleReset handles POST /session/reset. With keep_roster=true only the
// check-ins are cleared.
func (h *SessionHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.reset_session"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	keep := false
	if v := r.URL.Query().Get("keep_roster"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		keep = b
	}

	if keep {
		if err := h.deps.ClearScans(r.Context()); err != nil {
			writeServiceError(w, op, err)
			return
		}
	} else {
		h.deps.Reset(r.Context())
	}
	writeJSON(w, http.StatusOK, resetResponse{Status: "reset", KeptRoster: keep})
}
