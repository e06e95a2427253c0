package queue

import "errors"

// Sentinel errors for enqueue failures.
var (
	ErrFull   = errors.New("scan queue full")
	ErrClosed = errors.New("scan queue closed")
)
