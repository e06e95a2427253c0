package verify

import (
	"time"

	"github.com/google/uuid"
	"github.com/okian/checkin/pkg/logger"
)

const defaultDisplayTruncate = 30

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClock sets the time source used to stamp results.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator sets the log entry id source.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// WithDisplayTruncate sets how many runes of an unmatched scan are shown
// before an ellipsis. Zero or negative disables truncation.
func WithDisplayTruncate(n int) Option {
	return func(e *Engine) {
		e.truncate = n
	}
}

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func defaultID() string {
	return uuid.NewString()
}
