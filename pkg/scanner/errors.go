package scanner

import (
	"errors"
	"fmt"
)

// Programming errors: misuse of the pool lifecycle. Never operational,
// never retryable.
var (
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("scan worker pool has already been started")

	// ErrNotStarted is returned when a pool operation is invoked before
	// Start.
	ErrNotStarted = errors.New("scan worker pool has not been started")
)

// ConfigurationError reports invalid scan options. Detected before any
// process spawns.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid scan configuration: " + e.Reason
}

// DiscoveryError reports a failed directory traversal. Discovery failures
// are fatal to the whole scan.
type DiscoveryError struct {
	Path string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("file discovery failed at %s: %v", e.Path, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}
