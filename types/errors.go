package types

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCache is the cause of a ConfigurationError raised for a cache
	// name that has no registered configuration.
	ErrUnknownCache = errors.New("cache is not configured")

	// ErrInvalidConfig is the cause of a ConfigurationError raised for a
	// configuration value that fails validation.
	ErrInvalidConfig = errors.New("invalid cache configuration")
)

// ConfigurationError reports a programming error: an invalid cache
// configuration or an operation on a cache name that was never configured.
// It is never transient and retrying the same call cannot succeed.
type ConfigurationError struct {
	Cache  string
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := e.Err.Error()
	if e.Cache != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Cache)
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Field)
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// UnknownCacheError builds the error returned for an unregistered cache name.
func UnknownCacheError(name string) error {
	return &ConfigurationError{Cache: name, Err: ErrUnknownCache}
}

// InvalidConfigError builds the error returned for a rejected configuration field.
func InvalidConfigError(name, field, reason string) error {
	return &ConfigurationError{Cache: name, Field: field, Reason: reason, Err: ErrInvalidConfig}
}
