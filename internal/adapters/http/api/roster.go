package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/okian/checkin/internal/domain/roster"
	"github.com/okian/checkin/internal/domain/types"
	"github.com/okian/checkin/pkg/logger"
)

// RosterDependencies defines the roster and mapping operations.
type RosterDependencies interface {
	LoadWorkbook(ctx context.Context, fileName string, r io.Reader, sheetName string, m *roster.ColumnMapping) (types.Roster, error)
	Roster() (types.Roster, error)
	Mapping() (roster.ColumnMapping, error)
	SetMapping(ctx context.Context, m roster.ColumnMapping) (roster.ColumnMapping, error)
}

// RosterHandler handles roster uploads and column mapping.
type RosterHandler struct {
	deps     RosterDependencies
	maxBytes int64
	logger   logger.Logger
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies, maxBytes int64, l logger.Logger) *RosterHandler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	if l == nil {
		l = logger.Nop()
	}
	return &RosterHandler{deps: deps, maxBytes: maxBytes, logger: l}
}

// HandleRoster handles POST /roster uploads and GET /roster.
//
// The upload is a multipart form with the workbook in "file", an optional
// "sheet" name and optional "<role>_column" overrides.
func (h *RosterHandler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	const op = "api.roster"
	switch r.Method {
	case http.MethodGet:
		info, err := h.deps.Roster()
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	case http.MethodPost:
		h.upload(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *RosterHandler) upload(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload_roster"

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrTooLarge, err))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("missing file: %w", err)))
		return
	}
	defer func() { _ = file.Close() }()

	name := filepath.Base(header.Filename)
	if ext := strings.ToLower(filepath.Ext(name)); ext != ".xlsx" && ext != ".xlsm" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("unsupported file type %q", ext)))
		return
	}

	var mapping *roster.ColumnMapping
	var proposed roster.ColumnMapping
	for _, role := range roster.Roles {
		if v := strings.TrimSpace(r.FormValue(string(role) + "_column")); v != "" {
			proposed = proposed.With(role, v)
			mapping = &proposed
		}
	}

	info, err := h.deps.LoadWorkbook(r.Context(), name, file, strings.TrimSpace(r.FormValue("sheet")), mapping)
	if err != nil {
		if isRosterError(err) {
			writeServiceError(w, op, err)
			return
		}
		// Anything the workbook reader rejects is the client's upload.
		writeError(w, http.StatusBadRequest, "invalid_roster", WrapKind(op, ErrBadRequest, err))
		return
	}

	h.logger.Info(r.Context(), "roster uploaded",
		logger.String("file", info.FileName),
		logger.Int("records", info.Records),
	)
	writeJSON(w, http.StatusOK, info)
}

// HandleMapping handles GET /mapping and PUT /mapping.
func (h *RosterHandler) HandleMapping(w http.ResponseWriter, r *http.Request) {
	const op = "api.mapping"
	switch r.Method {
	case http.MethodGet:
		m, err := h.deps.Mapping()
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, mappingView(m))
	case http.MethodPut:
		var req types.Mapping
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		applied, err := h.deps.SetMapping(r.Context(), roster.ColumnMapping{
			ID:      req.ID,
			Name:    req.Name,
			Email:   req.Email,
			Team:    req.Team,
			Event:   req.Event,
			Payment: req.Payment,
		})
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, mappingView(applied))
	default:
		http.NotFound(w, r)
	}
}
