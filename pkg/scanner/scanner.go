package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/pesc/wordfence-cli/pkg/logger"
	"github.com/pesc/wordfence-cli/pkg/matcher"
	"github.com/pesc/wordfence-cli/pkg/report"
)

// Scanner is the top-level orchestrator: it validates options, wires the
// locator to the worker pool, runs the coordinator loop to completion, and
// reports the summary.
type Scanner struct {
	opts     Options
	fs       afero.Fs
	log      logger.Logger
	reporter report.Reporter
}

// NewScanner creates a Scanner. The reporter receives every reportable
// event; pass a report.MultiReporter to fan out.
func NewScanner(opts Options, fs afero.Fs, log logger.Logger, reporter report.Reporter) *Scanner {
	return &Scanner{
		opts:     opts,
		fs:       fs,
		log:      log,
		reporter: reporter,
	}
}

// Scan runs a scan to completion. It returns the summary on success, or the
// originating fatal error after the pool has been force-terminated. Per-file
// read errors are reported as exceptions and do not fail the scan.
func (s *Scanner) Scan(ctx context.Context) (*report.Summary, error) {
	if err := s.opts.Validate(); err != nil {
		return nil, err
	}

	s.log.WithFields(logger.Fields{
		"paths":      len(s.opts.Paths),
		"signatures": s.opts.Signatures.Len(),
		"workers":    s.opts.Workers,
		"chunkSize":  s.opts.ChunkSize,
	}).Info("Starting scan")

	start := time.Now()

	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	m, err := matcher.NewRegexMatcher(s.opts.Signatures)
	if err != nil {
		return nil, fmt.Errorf("failed to build matcher: %w", err)
	}

	locator := NewFileLocatorProcess(s.fs, s.log)
	metrics := NewScanMetrics(s.opts.Workers)
	pool := NewScanWorkerPool(
		PoolConfig{
			Size:      s.opts.Workers,
			ChunkSize: s.opts.ChunkSize,
			RateLimit: s.opts.RateLimit,
		},
		locator.Output(), s.fs, m, metrics, s.reporter, s.log,
	)

	locator.Start(scanCtx)
	if err := pool.Start(scanCtx); err != nil {
		return nil, err
	}

	// Feed roots concurrently so a fatal failure early in discovery cannot
	// wedge the scan behind a full input queue.
	go func() {
		for _, path := range s.opts.Paths {
			if err := locator.AddPath(scanCtx, path); err != nil {
				return
			}
		}
		locator.FinalizePaths()
	}()

	if err := pool.AwaitResults(); err != nil {
		return nil, err
	}

	if err := pool.Stop(); err != nil {
		return nil, err
	}

	summary := report.Summary{
		TotalFiles:   metrics.TotalCount(),
		TotalBytes:   metrics.TotalBytes(),
		MatchedFiles: pool.MatchedFiles(),
		FailedFiles:  pool.FailedFiles(),
		Elapsed:      time.Since(start),
	}

	s.log.WithFields(logger.Fields{
		"files":   summary.TotalFiles,
		"bytes":   summary.TotalBytes,
		"matched": summary.MatchedFiles,
		"failed":  summary.FailedFiles,
		"elapsed": summary.Elapsed,
	}).Info("Scan completed")

	s.reporter.Summary(summary)

	return &summary, nil
}
