package config

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a missing or invalid input parameter.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// Required returns a ConfigurationError for an empty required field.
func Required(field string) error {
	return &ConfigurationError{Field: field, Reason: "is required"}
}

// Invalid returns a ConfigurationError with a formatted reason.
func Invalid(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsConfigurationError reports whether err (or any error in its chain) is a
// ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
