// Package config provides configuration management for the wordfence-cli
// application. It handles environment variables and validation of all
// configuration parameters.
//
// # Configuration Loading
//
// To load the configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Environment Variables
//
// The following environment variables are supported:
//
//	WORDFENCE_WORKERS      Number of concurrent scan workers (default: CPU cores)
//	WORDFENCE_CHUNK_SIZE   File read chunk size in bytes (default: 1048576)
//	WORDFENCE_RATE_LIMIT   Files started per second, across all workers (0 for unlimited)
//	WORDFENCE_SIGNATURES   Path to the signature set file
//	WORDFENCE_OUTPUT       Report format: text|json|yaml
//	WORDFENCE_OUTPUT_FILE  Report file path (empty for stdout)
//	WORDFENCE_NO_PROGRESS  Disable progress display (true/false)
//	WORDFENCE_NO_COLOR     Disable colored output (true/false)
//	WORDFENCE_VERBOSE      Verbosity level (number of 'v's)
//
// Command-line flags take precedence over environment variables; both are
// resolved in the cmd package.
//
// # Configuration Validation
//
// The package performs validation on all configuration values:
//   - Workers must be positive and not exceed CPU cores * 4
//   - ChunkSize must be at least 1024 bytes
//   - Output format must be one of: text, json, yaml
//   - RateLimit must be non-negative
//
// # Thread Safety
//
// The configuration is immutable after loading and is safe for concurrent
// access across multiple goroutines.
package config
