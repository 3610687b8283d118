package config

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigurationError reports a missing, out-of-range or conflicting setting.
// It is fatal: no pass may run with a configuration that produced one.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfig
}
