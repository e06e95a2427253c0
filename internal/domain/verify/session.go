package verify

import (
	"context"
	"time"

	"github.com/okian/checkin/internal/domain/dedupe"
	"github.com/okian/checkin/internal/domain/match"
	"github.com/okian/checkin/internal/domain/roster"
)

// Session scopes one roster upload: the roster and its mapping, plus the
// dedup tracker and log that Verify mutates. A Session is not safe for
// concurrent Verify calls; the caller serializes them.
type Session struct {
	roster    *roster.Roster
	mapping   roster.ColumnMapping
	matcher   *match.Matcher
	tracker   dedupe.Tracker
	log       *Log
	startedAt time.Time
}

// NewSession starts a session over r. The mapping is sanitized against the
// roster header so unknown columns behave as unmapped roles.
func NewSession(r *roster.Roster, m roster.ColumnMapping) (*Session, error) {
	if r == nil || r.Len() == 0 {
		return nil, ErrNoRoster
	}
	m = m.Sanitize(r.Headers())
	return &Session{
		roster:    r,
		mapping:   m,
		matcher:   match.New(r, m),
		tracker:   dedupe.NewInMemoryTracker(dedupe.WithCapacityHint(r.Len())),
		log:       NewLog(),
		startedAt: time.Now(),
	}, nil
}

// Roster returns the session roster.
func (s *Session) Roster() *roster.Roster { return s.roster }

// Mapping returns the active column mapping.
func (s *Session) Mapping() roster.ColumnMapping { return s.mapping }

// Tracker returns the dedup tracker.
func (s *Session) Tracker() dedupe.Tracker { return s.tracker }

// Log returns the verification log.
func (s *Session) Log() *Log { return s.log }

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// SetMapping swaps the mapping and rebuilds the matcher. Tracked
// identifiers and the log are kept.
func (s *Session) SetMapping(m roster.ColumnMapping) roster.ColumnMapping {
	s.mapping = m.Sanitize(s.roster.Headers())
	s.matcher = match.New(s.roster, s.mapping)
	return s.mapping
}

// Reset forgets every check-in and clears the log, keeping the roster.
func (s *Session) Reset(ctx context.Context) {
	s.tracker.Reset(ctx)
	s.log.reset()
	s.startedAt = time.Now()
}
