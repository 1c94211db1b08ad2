package config

import "github.com/pesc/wordfence-cli/pkg/scanner"

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	// OutputFormatText represents the plain-text report format
	OutputFormatText OutputFormat = "text"

	// OutputFormatJSON represents the JSON report format
	OutputFormatJSON OutputFormat = "json"

	// OutputFormatYAML represents the YAML report format
	OutputFormatYAML OutputFormat = "yaml"
)

// Constants for configuration limits and defaults
const (
	// MinChunkSize is the minimum allowed file read chunk size in bytes
	MinChunkSize = 1024

	// DefaultChunkSize is the default file read chunk size in bytes,
	// shared with the scanning engine
	DefaultChunkSize = scanner.DefaultChunkSize

	// MaxWorkerMultiplier is the maximum multiple of CPU cores for worker count
	MaxWorkerMultiplier = 4
)
