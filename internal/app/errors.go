package service

import (
	"errors"

	"github.com/okian/checkin/internal/domain/verify"
)

// Sentinel errors returned by the Service.
var (
	// ErrNoRoster is returned by operations that need a loaded roster.
	ErrNoRoster = verify.ErrNoRoster
	// ErrBackpressure is returned when the scan queue is full.
	ErrBackpressure = errors.New("scan queue full")
	// ErrNotStarted is returned when scans arrive before Start or after Stop.
	ErrNotStarted = errors.New("service not started")
	// ErrScanTimeout is returned when a verdict does not arrive in time.
	ErrScanTimeout = errors.New("scan verification timed out")
)
