// Package service is the session controller: it owns the loaded roster and
// its verification session, and funnels every scan through a single worker.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	scanqueue "github.com/okian/checkin/internal/adapters/mq/queue"
	scanworker "github.com/okian/checkin/internal/adapters/mq/worker"
	"github.com/okian/checkin/internal/adapters/sheet"
	"github.com/okian/checkin/internal/domain/model"
	"github.com/okian/checkin/internal/domain/report"
	"github.com/okian/checkin/internal/domain/roster"
	"github.com/okian/checkin/internal/domain/types"
	"github.com/okian/checkin/internal/domain/verify"
	"github.com/okian/checkin/pkg/logger"
	"github.com/okian/checkin/pkg/metrics"
)

const workerShutdownTimeout = 5 * time.Second

// sessionVerifier adapts the Service to worker.Verifier.
type sessionVerifier struct {
	s *Service
}

func (v sessionVerifier) Verify(ctx context.Context, session *verify.Session, scan model.ScanEvent) (verify.Entry, error) {
	return v.s.verifyNow(ctx, session, scan)
}

// Service implements the API dependencies for the check-in desk.
type Service struct {
	mu sync.RWMutex

	// Core components
	engine     *verify.Engine
	session    *verify.Session
	scanQueue  *scanqueue.InMemoryQueue
	scanWorker *scanworker.InMemoryWorker
	cancel     context.CancelFunc

	// Roster provenance
	fileName string
	sheet    string

	// Configuration
	queueSize      int
	scanTimeout    time.Duration
	truncate       int
	defaultMapping roster.ColumnMapping
	reportOpts     []report.Option
	now            func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:   64,
		scanTimeout: 2 * time.Second,
		truncate:    30,
		now:         time.Now,
		logger:      nil, // replaced in Start when not set
	}

	for _, opt := range opts {
		opt(s)
	}

	s.engine = verify.NewEngine(
		verify.WithClock(s.now),
		verify.WithDisplayTruncate(s.truncate),
		verify.WithLogger(s.log().Named("engine")),
	)

	return s
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Nop()
	}
	return s.logger
}

// Start starts the scan queue and its single worker.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.log().Info(ctx, "starting check-in service...")

	s.scanQueue = scanqueue.NewInMemoryQueue(scanqueue.WithCapacity(s.queueSize))
	s.scanWorker = scanworker.NewInMemoryWorker(s.scanQueue, sessionVerifier{s: s},
		scanworker.WithName("scan-worker"),
		scanworker.WithLogger(s.log()),
	)

	workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.scanWorker.Run(workerCtx)

	s.started = true
	s.log().Info(ctx, "check-in service started",
		logger.Int("queueSize", s.queueSize),
		logger.Duration("scanTimeout", s.scanTimeout),
	)

	return nil
}

// Stop drains queued scans and stops the worker.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	q, w, cancel := s.scanQueue, s.scanWorker, s.cancel
	s.mu.Unlock()

	ctx, done := context.WithTimeout(context.Background(), workerShutdownTimeout)
	defer done()
	s.log().Info(ctx, "stopping check-in service...")

	_ = q.Close()
	if err := w.Shutdown(ctx); err != nil {
		s.log().Warn(ctx, "scan worker did not drain in time", logger.Error(err))
	}
	cancel()

	s.log().Info(ctx, "check-in service stopped")
}

// LoadRoster replaces the current session with one over r. A nil mapping
// means header heuristics; a non-nil one is merged over them.
func (s *Service) LoadRoster(ctx context.Context, fileName string, r *roster.Roster, m *roster.ColumnMapping) (types.Roster, error) {
	return s.loadRoster(ctx, fileName, "", r, m)
}

// LoadWorkbook parses an xlsx roster from rd and loads it.
func (s *Service) LoadWorkbook(ctx context.Context, fileName string, rd io.Reader, sheetName string, m *roster.ColumnMapping) (types.Roster, error) {
	loaded, err := sheet.ReadRoster(rd, sheetName)
	if err != nil {
		metrics.RecordRosterLoadError()
		s.log().Warn(ctx, "roster upload rejected",
			logger.String("file", fileName),
			logger.Error(err),
		)
		return types.Roster{}, err
	}
	return s.loadRoster(ctx, fileName, loaded.Sheet, loaded.Roster, m)
}

// LoadRosterFile loads an xlsx roster from disk.
func (s *Service) LoadRosterFile(ctx context.Context, path, sheetName string, m *roster.ColumnMapping) (types.Roster, error) {
	loaded, err := sheet.ReadRosterFile(path, sheetName)
	if err != nil {
		metrics.RecordRosterLoadError()
		return types.Roster{}, err
	}
	return s.loadRoster(ctx, path, loaded.Sheet, loaded.Roster, m)
}

func (s *Service) loadRoster(ctx context.Context, fileName, sheetName string, r *roster.Roster, m *roster.ColumnMapping) (types.Roster, error) {
	if r == nil {
		return types.Roster{}, ErrNoRoster
	}

	headers := r.Headers()
	mapping := roster.MergeMapping(s.defaultMapping, roster.SuggestMapping(headers), headers)
	if m != nil && !m.IsZero() {
		mapping = roster.MergeMapping(*m, mapping, headers)
	}

	session, err := verify.NewSession(r, mapping)
	if err != nil {
		metrics.RecordRosterLoadError()
		return types.Roster{}, err
	}

	s.mu.Lock()
	s.session = session
	s.fileName = fileName
	s.sheet = sheetName
	s.mu.Unlock()

	metrics.RecordRosterLoad()
	metrics.UpdateRosterRecords(r.Len())
	metrics.UpdateVerifiedCount(0)
	metrics.UpdateLogEntries(0)

	s.log().Info(ctx, "roster loaded",
		logger.String("file", fileName),
		logger.String("sheet", sheetName),
		logger.Int("records", r.Len()),
		logger.String("idColumn", session.Mapping().ID),
	)

	return rosterView(fileName, sheetName, session), nil
}

// Roster describes the loaded roster.
func (s *Service) Roster() (types.Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return types.Roster{}, ErrNoRoster
	}
	return rosterView(s.fileName, s.sheet, s.session), nil
}

// Loaded reports whether a roster is loaded.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil
}

// Mapping returns the active column mapping.
func (s *Service) Mapping() (roster.ColumnMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return roster.ColumnMapping{}, ErrNoRoster
	}
	return s.session.Mapping(), nil
}

// SetMapping replaces the column mapping. Unknown columns are dropped.
// Check-ins already recorded are kept.
func (s *Service) SetMapping(ctx context.Context, m roster.ColumnMapping) (roster.ColumnMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return roster.ColumnMapping{}, ErrNoRoster
	}
	applied := s.session.SetMapping(m)
	s.log().Info(ctx, "column mapping updated",
		logger.String("id", applied.ID),
		logger.String("email", applied.Email),
	)
	return applied, nil
}

// Verify queues text for the scan worker and waits for the verdict.
func (s *Service) Verify(ctx context.Context, text string) (verify.Entry, error) {
	s.mu.RLock()
	started, session, q := s.started, s.session, s.scanQueue
	s.mu.RUnlock()

	if !started {
		return verify.Entry{}, ErrNotStarted
	}
	if session == nil {
		return verify.Entry{}, ErrNoRoster
	}

	j := scanqueue.NewJob(session, model.NewScanEvent(text, s.now()))
	if err := q.Enqueue(ctx, j); err != nil {
		switch {
		case errors.Is(err, scanqueue.ErrFull):
			return verify.Entry{}, fmt.Errorf("%w: %d pending", ErrBackpressure, q.Cap())
		case errors.Is(err, scanqueue.ErrClosed):
			return verify.Entry{}, ErrNotStarted
		default:
			return verify.Entry{}, err
		}
	}

	timer := time.NewTimer(s.scanTimeout)
	defer timer.Stop()

	select {
	case out := <-j.Reply:
		return out.Entry, out.Err
	case <-timer.C:
		return verify.Entry{}, ErrScanTimeout
	case <-ctx.Done():
		return verify.Entry{}, ctx.Err()
	}
}

// verifyNow runs on the scan worker only. A scan queued under a session
// that has since been replaced or dropped is refused.
func (s *Service) verifyNow(ctx context.Context, session *verify.Session, scan model.ScanEvent) (verify.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session == nil || session != s.session {
		return verify.Entry{}, fmt.Errorf("%w: session changed while the scan was queued", ErrNoRoster)
	}
	return s.engine.Verify(ctx, session, scan)
}

// Entries returns the verification log in append order. It is empty when
// no roster is loaded.
func (s *Service) Entries() []verify.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return nil
	}
	return s.session.Log().Entries()
}

// Report merges the log into the roster. The second value is the download
// file name.
func (s *Service) Report(ctx context.Context) (report.Table, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return report.Table{}, "", ErrNoRoster
	}

	start := time.Now()
	t := report.Build(s.session.Roster(), s.session.Log().Entries(), s.session.Mapping(), s.reportOpts...)
	metrics.RecordReportBuilt(float64(time.Since(start).Microseconds()) / 1000)

	s.log().Debug(ctx, "report built",
		logger.Int("present", t.Summary.Present),
		logger.Int("absent", t.Summary.Absent),
	)

	return t, sheet.ReportFileName(s.fileName), nil
}

// Reset drops the roster together with its log and tracker.
func (s *Service) Reset(ctx context.Context) {
	s.mu.Lock()
	s.session = nil
	s.fileName = ""
	s.sheet = ""
	s.mu.Unlock()

	metrics.RecordSessionReset()
	metrics.UpdateRosterRecords(0)
	metrics.UpdateVerifiedCount(0)
	metrics.UpdateLogEntries(0)

	s.log().Info(ctx, "session reset")
}

// ClearScans forgets every check-in but keeps the roster and mapping.
func (s *Service) ClearScans(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return ErrNoRoster
	}
	s.session.Reset(ctx)

	metrics.RecordSessionReset()
	metrics.UpdateVerifiedCount(0)
	metrics.UpdateLogEntries(0)

	s.log().Info(ctx, "scans cleared", logger.String("file", s.fileName))
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":       s.started,
		"queueCapacity": s.queueSize,
		"rosterLoaded":  s.session != nil,
	}

	if s.started {
		stats["queueLength"] = s.scanQueue.Len(ctx)
	}

	if s.session != nil {
		counts := s.session.Log().Counts()
		stats["fileName"] = s.fileName
		stats["records"] = s.session.Roster().Len()
		stats["verified"] = s.session.Tracker().Size()
		stats["entries"] = s.session.Log().Len()
		stats["success"] = counts[verify.StatusSuccess]
		stats["notFound"] = counts[verify.StatusNotFound]
		stats["duplicate"] = counts[verify.StatusDuplicate]
		stats["sessionStartedAt"] = s.session.StartedAt()
	}

	return stats
}

func rosterView(fileName, sheetName string, session *verify.Session) types.Roster {
	m := session.Mapping()
	return types.Roster{
		FileName: fileName,
		Sheet:    sheetName,
		Columns:  session.Roster().Headers(),
		Records:  session.Roster().Len(),
		Mapping: types.Mapping{
			ID:      m.ID,
			Name:    m.Name,
			Email:   m.Email,
			Team:    m.Team,
			Event:   m.Event,
			Payment: m.Payment,
		},
	}
}
