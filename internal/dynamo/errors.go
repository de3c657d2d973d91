package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for sweep operations.
var (
	// ErrInvalidConfig indicates a configuration that cannot be integrated.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrCanceled indicates the sweep was interrupted before finishing.
	ErrCanceled = errors.New("dynamo: sweep canceled by context")
)

// ConfigError names the offending field of a rejected configuration.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s = %g: %s", ErrInvalidConfig, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// SampleError wraps an error with the sample it happened in.
type SampleError struct {
	Index    int
	Velocity float64
	Step     int
	Wrapped  error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("sample %d (v=%.4f, step %d): %v", e.Index, e.Velocity, e.Step, e.Wrapped)
}

func (e *SampleError) Unwrap() error {
	return e.Wrapped
}
