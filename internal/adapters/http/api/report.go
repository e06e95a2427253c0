package api

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/okian/checkin/internal/adapters/sheet"
	"github.com/okian/checkin/internal/domain/report"
	"github.com/okian/checkin/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportDependencies defines the interface for report operations.
type ReportDependencies interface {
	Report(ctx context.Context) (report.Table, string, error)
}

// ReportHandler handles attendance report requests.
type ReportHandler struct {
	deps   ReportDependencies
	logger logger.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies, l logger.Logger) *ReportHandler {
	if l == nil {
		l = logger.Nop()
	}
	return &ReportHandler{deps: deps, logger: l}
}

// HandleReport handles GET /report requests.
func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	t, name, err := h.deps.Report(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, reportView(t, name))
}

// HandleDownload handles GET /report/download requests with an xlsx attachment.
func (h *ReportHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	const op = "api.download_report"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	t, name, err := h.deps.Report(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}

	var buf bytes.Buffer
	if err := sheet.WriteReport(&buf, t); err != nil {
		h.logger.Error(r.Context(), "report export failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, fmt.Errorf("export: %w", err)))
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
