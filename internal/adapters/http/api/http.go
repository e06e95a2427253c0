// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/checkin/internal/adapters/sheet"
	service "github.com/okian/checkin/internal/app"
	"github.com/okian/checkin/internal/domain/report"
	"github.com/okian/checkin/internal/domain/roster"
	"github.com/okian/checkin/internal/domain/types"
	"github.com/okian/checkin/internal/domain/verify"
	"github.com/okian/checkin/pkg/logger"
)

const defaultMaxUploadBytes = 10 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	// LoadWorkbook parses an uploaded xlsx roster and starts a new session.
	LoadWorkbook(ctx context.Context, fileName string, r io.Reader, sheetName string, m *roster.ColumnMapping) (types.Roster, error)
	Roster() (types.Roster, error)
	Loaded() bool

	Mapping() (roster.ColumnMapping, error)
	SetMapping(ctx context.Context, m roster.ColumnMapping) (roster.ColumnMapping, error)

	// Verify runs one scan through the session and returns its log entry.
	Verify(ctx context.Context, text string) (verify.Entry, error)
	Entries() []verify.Entry

	Report(ctx context.Context) (report.Table, string, error)

	Reset(ctx context.Context)
	ClearScans(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	rosterHandler  *RosterHandler
	scansHandler   *ScansHandler
	reportHandler  *ReportHandler
	sessionHandler *SessionHandler

	operators map[string]string
	logger    logger.Logger
}

// Option configures a Server.
type Option func(*serverConfig)

type serverConfig struct {
	maxUploadBytes int64
	operators      map[string]string
	logger         logger.Logger
}

// WithMaxUploadBytes caps the size of roster uploads.
func WithMaxUploadBytes(n int64) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxUploadBytes = n
		}
	}
}

// WithOperators enables basic auth for the given username to bcrypt hash map.
func WithOperators(ops map[string]string) Option {
	return func(c *serverConfig) {
		c.operators = ops
	}
}

// WithLogger sets the logger used by handlers.
func WithLogger(l logger.Logger) Option {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	cfg := serverConfig{
		maxUploadBytes: defaultMaxUploadBytes,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Server{
		healthHandler:  NewHealthHandler(deps),
		statsHandler:   NewStatsHandler(deps),
		rosterHandler:  NewRosterHandler(deps, cfg.maxUploadBytes, cfg.logger),
		scansHandler:   NewScansHandler(deps),
		reportHandler:  NewReportHandler(deps, cfg.logger),
		sessionHandler: NewSessionHandler(deps),
		operators:      cfg.operators,
		logger:         cfg.logger,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	guard := func(h http.HandlerFunc) http.HandlerFunc {
		return AuthMiddleware(h, s.operators)
	}

	// Open routes
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", MetricsHandler())

	// Operator routes
	mux.HandleFunc("/stats", MetricsMiddleware(guard(s.statsHandler.HandleStats), "stats"))
	mux.HandleFunc("/roster", MetricsMiddleware(guard(s.rosterHandler.HandleRoster), "roster"))
	mux.HandleFunc("/mapping", MetricsMiddleware(guard(s.rosterHandler.HandleMapping), "mapping"))
	mux.HandleFunc("/scans", MetricsMiddleware(guard(s.scansHandler.HandleScans), "scans"))
	mux.HandleFunc("/report", MetricsMiddleware(guard(s.reportHandler.HandleReport), "report"))
	mux.HandleFunc("/report/download", MetricsMiddleware(guard(s.reportHandler.HandleDownload), "report_download"))
	mux.HandleFunc("/session/reset", MetricsMiddleware(guard(s.sessionHandler.HandleReset), "session_reset"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service sentinels to HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNoRoster):
		writeError(w, http.StatusConflict, "no_roster", Wrap(op, err))
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_started", Wrap(op, err))
	case errors.Is(err, service.ErrScanTimeout):
		writeError(w, http.StatusGatewayTimeout, "scan_timeout", Wrap(op, err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "cancelled", Wrap(op, err))
	case isRosterError(err):
		writeError(w, http.StatusBadRequest, "invalid_roster", WrapKind(op, ErrBadRequest, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

func isRosterError(err error) bool {
	for _, target := range []error{
		roster.ErrEmptyRoster,
		roster.ErrNoColumns,
		roster.ErrDuplicateColumn,
		sheet.ErrNoSheets,
		sheet.ErrSheetNotFound,
		sheet.ErrNoHeader,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
