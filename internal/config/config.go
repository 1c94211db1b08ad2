package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Workers is the number of concurrent scan workers
	Workers int

	// ChunkSize is the number of bytes read from a file per chunk
	ChunkSize int

	// RateLimit is the maximum number of files started per second across
	// all workers (0 for unlimited)
	RateLimit int

	// Signatures is the path to the signature set file
	Signatures string

	// Output specifies the report format (text, json, or yaml)
	Output string

	// OutputFile is the path to write the report (empty for stdout)
	OutputFile string

	// NoProgress disables the progress display
	NoProgress bool

	// NoColor disables colored output
	NoColor bool

	// Verbose sets the verbosity level
	Verbose int
}

// validOutputFormats contains the list of supported report formats
var validOutputFormats = map[string]bool{
	"text": true,
	"json": true,
	"yaml": true,
}

// Load reads configuration from environment variables and validates it
func Load() (Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("chunk_size", DefaultChunkSize)
	v.SetDefault("rate_limit", 0)
	v.SetDefault("output", "text")
	v.SetDefault("no_progress", false)
	v.SetDefault("no_color", false)
	v.SetDefault("verbose", 0)

	// Configure environment variables
	v.SetEnvPrefix("WORDFENCE")
	v.AutomaticEnv()

	// Map environment variables to config fields
	v.BindEnv("workers")
	v.BindEnv("chunk_size")
	v.BindEnv("rate_limit")
	v.BindEnv("signatures")
	v.BindEnv("output")
	v.BindEnv("output_file")
	v.BindEnv("no_progress")
	v.BindEnv("no_color")
	v.BindEnv("verbose")

	// Process verbosity level from string of 'v's
	if verboseStr := v.GetString("verbose"); verboseStr != "" {
		v.Set("verbose", strings.Count(verboseStr, "v"))
	}

	cfg := Config{
		Workers:    v.GetInt("workers"),
		ChunkSize:  v.GetInt("chunk_size"),
		RateLimit:  v.GetInt("rate_limit"),
		Signatures: v.GetString("signatures"),
		Output:     v.GetString("output"),
		OutputFile: v.GetString("output_file"),
		NoProgress: v.GetBool("no_progress"),
		NoColor:    v.GetBool("no_color"),
		Verbose:    v.GetInt("verbose"),
	}

	// Handle special case for workers=0
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers count must be positive")
	}
	maxWorkers := runtime.NumCPU() * MaxWorkerMultiplier
	if c.Workers > maxWorkers {
		return fmt.Errorf("workers count cannot exceed system CPU count * %d", MaxWorkerMultiplier)
	}

	if c.ChunkSize < MinChunkSize {
		return fmt.Errorf("chunk size must be at least %d bytes", MinChunkSize)
	}

	if !validOutputFormats[c.Output] {
		return fmt.Errorf("invalid output format: must be one of [text json yaml]")
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}

	return nil
}

// String returns a string representation of the configuration
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Workers: %d, ChunkSize: %d, RateLimit: %d, Signatures: %s, "+
			"Output: %s, OutputFile: %s, NoProgress: %v, NoColor: %v, Verbose: %d}",
		c.Workers, c.ChunkSize, c.RateLimit, c.Signatures,
		c.Output, c.OutputFile, c.NoProgress, c.NoColor, c.Verbose,
	)
}
