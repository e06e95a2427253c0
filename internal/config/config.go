// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and CHECKIN_ environment variables on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/okian/checkin/internal/domain/roster"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RosterPath optionally preloads a roster workbook at startup.
	RosterPath  string `koanf:"roster_path"`
	RosterSheet string `koanf:"roster_sheet"`

	// Column overrides; empty values fall back to header heuristics.
	IDColumn      string `koanf:"id_column"`
	NameColumn    string `koanf:"name_column"`
	EmailColumn   string `koanf:"email_column"`
	TeamColumn    string `koanf:"team_column"`
	EventColumn   string `koanf:"event_column"`
	PaymentColumn string `koanf:"payment_column"`

	// DisplayTruncate caps how many runes of an unmatched scan are echoed.
	DisplayTruncate int `koanf:"display_truncate"`

	// ScanQueueSize bounds the number of scans waiting for the worker.
	ScanQueueSize int `koanf:"scan_queue_size"`

	// ScanTimeoutMS bounds how long a request waits for its verdict.
	ScanTimeoutMS int `koanf:"scan_timeout_ms"`

	// ReportTimeLayout and ReportTimezone format check-in times.
	ReportTimeLayout string `koanf:"report_time_layout"`
	ReportTimezone   string `koanf:"report_timezone"`

	// MaxUploadMB caps roster upload size.
	MaxUploadMB int `koanf:"max_upload_mb"`

	// ShutdownTimeoutMS bounds graceful HTTP shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`

	// Operators maps operator names to bcrypt password hashes. An empty
	// map disables authentication.
	Operators map[string]string `koanf:"operators"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		DisplayTruncate:   30,
		ScanQueueSize:     64,
		ScanTimeoutMS:     2000,
		ReportTimeLayout:  "2006-01-02 15:04:05",
		ReportTimezone:    "Local",
		MaxUploadMB:       10,
		ShutdownTimeoutMS: 5000,
	}
}

// Mapping returns the configured column overrides.
func (c *Config) Mapping() roster.ColumnMapping {
	return roster.ColumnMapping{
		ID:      c.IDColumn,
		Name:    c.NameColumn,
		Email:   c.EmailColumn,
		Team:    c.TeamColumn,
		Event:   c.EventColumn,
		Payment: c.PaymentColumn,
	}
}

// Location resolves ReportTimezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("report_timezone %q: %w", c.ReportTimezone, ErrInvalidConfig)
	}
	return loc, nil
}

// ScanTimeout returns ScanTimeoutMS as a duration.
func (c *Config) ScanTimeout() time.Duration {
	return time.Duration(c.ScanTimeoutMS) * time.Millisecond
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// MaxUploadBytes returns MaxUploadMB in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty: %w", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level %q: %w", c.LogLevel, ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format %q: %w", c.LogFormat, ErrInvalidConfig)
	}
	if c.ScanQueueSize <= 0 {
		return fmt.Errorf("scan_queue_size must be positive: %w", ErrInvalidConfig)
	}
	if c.ScanTimeoutMS <= 0 {
		return fmt.Errorf("scan_timeout_ms must be positive: %w", ErrInvalidConfig)
	}
	if c.DisplayTruncate < 0 {
		return fmt.Errorf("display_truncate must not be negative: %w", ErrInvalidConfig)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive: %w", ErrInvalidConfig)
	}
	if c.ReportTimeLayout == "" {
		return fmt.Errorf("report_time_layout must not be empty: %w", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	for name, hash := range c.Operators {
		if name == "" {
			return fmt.Errorf("operator name must not be empty: %w", ErrInvalidConfig)
		}
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return fmt.Errorf("operator %q: password must be a bcrypt hash: %w", name, ErrInvalidConfig)
		}
	}
	return nil
}
