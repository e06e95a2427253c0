package verify

import "errors"

var (
	// ErrNoRoster is returned when a session is built or used without a roster.
	ErrNoRoster = errors.New("no roster loaded")
)
