package progress

import (
	"io"
	"time"
)

// Style represents the type of progress visualization
type Style string

const (
	// StyleSpinner shows a spinning indicator with live counters
	StyleSpinner Style = "spinner"

	// StyleSimple shows basic text progress
	StyleSimple Style = "simple"
)

// Config holds the configuration for progress visualization
type Config struct {
	// Style defines how progress should be displayed
	Style Style

	// ShowStats enables/disables the statistics line
	ShowStats bool

	// NoColor disables colored output
	NoColor bool

	// RefreshRate defines how often the display updates
	RefreshRate time.Duration

	// Writer is the output destination (nil = os.Stdout)
	Writer io.Writer
}

// Status is a snapshot of a running scan. The total number of files is not
// known while discovery runs, so there is no completion percentage.
type Status struct {
	// Phase names the current scan stage (locating, processing)
	Phase string

	// FilesProcessed is the number of files scanned so far
	FilesProcessed int64

	// BytesRead is the number of content bytes read so far
	BytesRead int64

	// MatchedFiles is the number of files with signature matches so far
	MatchedFiles int64

	// FailedFiles is the number of files skipped due to read errors so far
	FailedFiles int64

	// CurrentItem is the most recently processed path
	CurrentItem string
}

// Statistics provides derived progress information
type Statistics struct {
	StartTime      time.Time
	ElapsedTime    time.Duration
	FilesPerSecond float64
}

// Progress defines the interface for progress visualization
type Progress interface {
	// Start begins progress visualization with an initial message
	Start(message string)

	// Update replaces the displayed scan status
	Update(status Status)

	// Complete marks the operation as successfully completed
	Complete(message string)

	// Error marks the operation as failed
	Error(message string)

	// Stop stops progress visualization and clears the line
	Stop()

	// IsSupportedTerminal checks if the output supports terminal control
	IsSupportedTerminal() bool
}
