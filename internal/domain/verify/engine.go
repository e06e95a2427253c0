// Package verify decides the outcome of each scan: it runs the matcher,
// consults the session's dedup tracker and appends the result to the
// session log.
package verify

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/okian/checkin/internal/domain/model"
	"github.com/okian/checkin/pkg/logger"
	"github.com/okian/checkin/pkg/metrics"
)

// rowKeyPrefix marks position keys. An unmatched scan never looks up a key
// carrying it, so scanned text cannot hit a position key.
const rowKeyPrefix = "\x00row:"

// Engine holds the stateless part of verification. All mutable state lives
// in the Session passed to Verify.
type Engine struct {
	now      func() time.Time
	newID    func() string
	truncate int
	logger   logger.Logger
}

// NewEngine creates an engine with a wall clock, UUID entry ids and a 30
// rune display limit.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:      time.Now,
		newID:    defaultID,
		truncate: defaultDisplayTruncate,
		logger:   logger.Nop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Verify decides scan against s and appends exactly one entry to the log.
// Only a missing session is an error.
func (e *Engine) Verify(ctx context.Context, s *Session, scan model.ScanEvent) (Entry, error) {
	if s == nil {
		return Entry{}, ErrNoRoster
	}
	start := time.Now()

	m := s.matcher.Match(scan.Text)

	key := m.Token
	if m.Found() {
		key = recordKey(m.Record.Get(s.mapping.ID), m.Index)
	}

	res := Result{
		ScannedValue: m.Token,
		MatchedID:    m.Token,
		Key:          key,
		Record:       m.Record,
		Strategy:     m.Strategy,
		Timestamp:    e.now(),
	}

	switch {
	case key != "" && (m.Found() || !isRowKey(key)) && s.tracker.Contains(ctx, key):
		res.Status = StatusDuplicate
		res.Message = MessageDuplicate
	case m.Found():
		s.tracker.SeenAndRecord(ctx, key)
		res.Status = StatusSuccess
	default:
		res.Status = StatusNotFound
		res.Message = MessageNotFound
		res.ScannedValue = e.display(m.Token)
	}

	entry := Entry{ID: e.newID(), Result: res}
	s.log.Append(entry)

	metrics.RecordScan(string(res.Status))
	metrics.RecordVerifyLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.UpdateVerifiedCount(s.tracker.Size())
	metrics.UpdateLogEntries(s.log.Len())

	e.logger.Debug(ctx, "scan verified",
		logger.String("entry", entry.ID),
		logger.String("status", string(res.Status)),
		logger.String("key", key),
		logger.String("strategy", string(res.Strategy)),
	)

	return entry, nil
}

// recordKey is the dedup identity of a matched record: its id, or its
// roster position when the id cell is empty or unmapped.
func recordKey(id string, index int) string {
	if id != "" {
		return id
	}
	return rowKeyPrefix + strconv.Itoa(index+1)
}

func isRowKey(key string) bool {
	return strings.HasPrefix(key, rowKeyPrefix)
}

func (e *Engine) display(token string) string {
	if e.truncate <= 0 {
		return token
	}
	r := []rune(token)
	if len(r) <= e.truncate {
		return token
	}
	return string(r[:e.truncate]) + "..."
}
