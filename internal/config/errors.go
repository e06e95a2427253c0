package config

import (
	"errors"
)

// Sentinel error kinds for this package. Validation problems wrap
// ErrInvalidConfig; file and env provider failures wrap ErrLoadConfig.
var (
	ErrInvalidConfig = errors.New("invalid check-in config")
	ErrLoadConfig    = errors.New("load check-in config failed")
)
