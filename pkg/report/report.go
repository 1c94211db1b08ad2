/*
Package report defines the reporting surface of a scan and formats scan
reports as text, JSON, or YAML.

The scanning engine emits every reportable fact through the Reporter
interface: worker startup, per-file outcomes, per-file exceptions, and the
final summary. The engine invokes a Reporter from a single goroutine (the
result coordinator), so implementations need no internal locking unless
they are shared elsewhere.
*/
package report

import (
	"sort"
	"time"

	"github.com/pesc/wordfence-cli/pkg/matcher"
	"github.com/pesc/wordfence-cli/pkg/signatures"
)

// Summary aggregates the outcome of a whole scan.
type Summary struct {
	// TotalFiles is the number of files successfully processed
	TotalFiles int64 `json:"total_files" yaml:"total_files"`

	// TotalBytes is the number of content bytes read across all files
	TotalBytes int64 `json:"total_bytes" yaml:"total_bytes"`

	// MatchedFiles is the number of files with at least one signature match
	MatchedFiles int64 `json:"matched_files" yaml:"matched_files"`

	// FailedFiles is the number of files skipped due to read errors
	FailedFiles int64 `json:"failed_files" yaml:"failed_files"`

	// Elapsed is the wall-clock duration of the scan
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// MatchEntry is one signature hit enriched with signature metadata.
type MatchEntry struct {
	SignatureID   int    `json:"signature_id" yaml:"signature_id"`
	SignatureName string `json:"signature_name,omitempty" yaml:"signature_name,omitempty"`
	Severity      string `json:"severity,omitempty" yaml:"severity,omitempty"`
	Offset        int64  `json:"offset" yaml:"offset"`
}

// FileResult records the outcome for a single matched or failed file.
type FileResult struct {
	Path    string       `json:"path" yaml:"path"`
	Length  int64        `json:"length,omitempty" yaml:"length,omitempty"`
	Matches []MatchEntry `json:"matches,omitempty" yaml:"matches,omitempty"`
	Error   string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// Reporter receives every reportable scan event.
type Reporter interface {
	// WorkerStarted is invoked once per scan worker as the pool starts.
	WorkerStarted(index int)

	// FileProcessed is invoked for every successfully processed file,
	// matched or not.
	FileProcessed(path string, length int64, matches map[int]matcher.Match)

	// FileException is invoked when a single file could not be read.
	FileException(path string, err error)

	// Summary is invoked once, after the scan completes normally.
	Summary(s Summary)
}

// MultiReporter fans events out to several reporters in order.
type MultiReporter []Reporter

func (m MultiReporter) WorkerStarted(index int) {
	for _, r := range m {
		r.WorkerStarted(index)
	}
}

func (m MultiReporter) FileProcessed(path string, length int64, matches map[int]matcher.Match) {
	for _, r := range m {
		r.FileProcessed(path, length, matches)
	}
}

func (m MultiReporter) FileException(path string, err error) {
	for _, r := range m {
		r.FileException(path, err)
	}
}

func (m MultiReporter) Summary(s Summary) {
	for _, r := range m {
		r.Summary(s)
	}
}

// Collector accumulates matched and failed files for later formatting.
type Collector struct {
	sigs    *signatures.Set
	results []FileResult
	summary Summary
}

// NewCollector creates a Collector that resolves signature metadata from
// the given set. The set may be nil, in which case entries carry ids only.
func NewCollector(sigs *signatures.Set) *Collector {
	return &Collector{sigs: sigs}
}

func (c *Collector) WorkerStarted(index int) {}

func (c *Collector) FileProcessed(path string, length int64, matches map[int]matcher.Match) {
	if len(matches) == 0 {
		return
	}
	c.results = append(c.results, FileResult{
		Path:    path,
		Length:  length,
		Matches: c.entries(matches),
	})
}

func (c *Collector) FileException(path string, err error) {
	c.results = append(c.results, FileResult{Path: path, Error: err.Error()})
}

func (c *Collector) Summary(s Summary) {
	c.summary = s
}

// Results returns the collected file results, sorted by path for stable
// output.
func (c *Collector) Results() []FileResult {
	sorted := make([]FileResult, len(c.results))
	copy(sorted, c.results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })
	return sorted
}

// ScanSummary returns the recorded summary.
func (c *Collector) ScanSummary() Summary {
	return c.summary
}

func (c *Collector) entries(matches map[int]matcher.Match) []MatchEntry {
	entries := make([]MatchEntry, 0, len(matches))
	for id, match := range matches {
		entry := MatchEntry{SignatureID: id, Offset: match.Offset}
		if c.sigs != nil {
			if sig, ok := c.sigs.Get(id); ok {
				entry.SignatureName = sig.Name
				entry.Severity = sig.Severity
			}
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].SignatureID < entries[j].SignatureID })
	return entries
}
