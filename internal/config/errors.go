package config

import "errors"

// Errors returned by configuration operations.
var (
	// ErrInvalidValue indicates a setting has a value it cannot take.
	ErrInvalidValue = errors.New("invalid config value")

	// ErrUnknownSetting indicates a config source names a setting that
	// doesn't exist.
	ErrUnknownSetting = errors.New("unknown setting")
)
