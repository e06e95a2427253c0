package service

import (
	"time"

	"github.com/okian/checkin/internal/domain/report"
	"github.com/okian/checkin/internal/domain/roster"
	"github.com/okian/checkin/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the maximum number of scans waiting for the worker.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithScanTimeout bounds how long Verify waits for its verdict.
func WithScanTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.scanTimeout = d
		}
	}
}

// WithDisplayTruncate sets the display limit for unmatched scans.
func WithDisplayTruncate(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.truncate = n
		}
	}
}

// WithDefaultMapping sets column overrides applied to every roster before
// header heuristics.
func WithDefaultMapping(m roster.ColumnMapping) Option {
	return func(s *Service) {
		s.defaultMapping = m
	}
}

// WithReportOptions sets how reports are rendered.
func WithReportOptions(opts ...report.Option) Option {
	return func(s *Service) {
		s.reportOpts = append(s.reportOpts, opts...)
	}
}

// WithClock sets the time source for scan timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
