package roster

import "errors"

// Sentinel errors for roster construction.
var (
	ErrEmptyRoster     = errors.New("roster has no records")
	ErrNoColumns       = errors.New("roster has no header columns")
	ErrDuplicateColumn = errors.New("duplicate roster column")
)
