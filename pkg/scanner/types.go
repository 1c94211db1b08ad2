package scanner

import (
	"github.com/pesc/wordfence-cli/pkg/signatures"
)

const (
	// MaxPendingFiles bounds the work queue between discovery and workers.
	MaxPendingFiles = 1000

	// MaxPendingResults bounds the result queue between workers and the
	// coordinator.
	MaxPendingResults = 100

	// locatorInputSize bounds the root-path input queue of the locator.
	locatorInputSize = 10

	// DefaultChunkSize is the per-read chunk size for file content.
	DefaultChunkSize = 1024 * 1024
)

// Options configures a scan. It is immutable input to the Scanner and is
// validated before any goroutine spawns.
type Options struct {
	// Paths are the root paths to scan (at least one required)
	Paths []string

	// Signatures is the signature set handed to the matcher factory
	Signatures *signatures.Set

	// Workers is the number of concurrent scan workers (>= 1)
	Workers int

	// ChunkSize is the number of bytes read per chunk (> 0)
	ChunkSize int

	// RateLimit caps files started per second across all workers
	// (0 = unlimited)
	RateLimit int
}

// Validate checks the options. Violations are configuration errors.
func (o Options) Validate() error {
	if len(o.Paths) == 0 {
		return &ConfigurationError{Reason: "at least one scan path must be specified"}
	}
	if o.Signatures == nil || o.Signatures.Len() == 0 {
		return &ConfigurationError{Reason: "a non-empty signature set is required"}
	}
	if o.Workers < 1 {
		return &ConfigurationError{Reason: "worker count must be at least 1"}
	}
	if o.ChunkSize <= 0 {
		return &ConfigurationError{Reason: "chunk size must be positive"}
	}
	if o.RateLimit < 0 {
		return &ConfigurationError{Reason: "rate limit must be non-negative"}
	}
	return nil
}

// Status is the global scan state shared through the worker pool. Forward
// transitions only, except StatusFailed which is reachable from any state
// and terminal.
type Status int32

const (
	// StatusLocatingFiles means discovery is still producing file paths.
	StatusLocatingFiles Status = iota

	// StatusProcessingFiles means discovery finished; workers are draining
	// the queue.
	StatusProcessingFiles

	// StatusComplete means every worker finished and all results were
	// consumed.
	StatusComplete

	// StatusFailed means a fatal error aborted the scan.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLocatingFiles:
		return "locating_files"
	case StatusProcessingFiles:
		return "processing_files"
	case StatusComplete:
		return "complete"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}
