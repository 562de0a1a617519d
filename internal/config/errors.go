package config

import (
	"errors"
)

// Sentinel errors for this package, so callers can errors.Is on the
// two ways loading can go wrong: bad values vs. unreadable sources.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
