package config

import "errors"

// Validation errors returned by Config.Validate.
var (
	ErrNoURL              = errors.New("no source url configured")
	ErrInvalidURL         = errors.New("invalid source url: scheme and host are required")
	ErrNoCountries        = errors.New("no countries selected for comparison")
	ErrNoYears            = errors.New("no years selected for comparison")
	ErrNoOutputPath       = errors.New("no output path for the rankings file")
	ErrInvalidTimeout     = errors.New("invalid timeout: must be positive")
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")
	ErrEmptySelector      = errors.New("selectors for year, card and country must all be set")
)

// ErrConfigNotFound is returned when an explicitly named file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")
