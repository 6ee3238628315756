package config

import "errors"

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrReadingProfiles is returned when the cache profiles file cannot be read
	ErrReadingProfiles = errors.New("failed to read cache profiles")

	// ErrInvalidProfiles is returned when the cache profiles document is malformed or fails validation
	ErrInvalidProfiles = errors.New("invalid cache profiles")
)
