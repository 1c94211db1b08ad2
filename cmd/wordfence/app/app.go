/*
Package app provides the main application container for the wordfence-cli
binary. It wires the configuration, logger, filesystem, reporters, progress
display, and scanning engine together and handles graceful shutdown.

Usage:

	application := app.New(&cfg)
	defer application.Shutdown()
	if err := application.Run(paths); err != nil {
	    log.Fatal(err)
	}
*/
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"

	"github.com/spf13/afero"

	"github.com/pesc/wordfence-cli/internal/config"
	"github.com/pesc/wordfence-cli/pkg/logger"
	"github.com/pesc/wordfence-cli/pkg/progress"
	"github.com/pesc/wordfence-cli/pkg/report"
	"github.com/pesc/wordfence-cli/pkg/scanner"
	"github.com/pesc/wordfence-cli/pkg/signatures"
)

// App represents the main application container
type App struct {
	config *config.Config
	log    logger.Logger
	fs     afero.Fs

	progress progress.Progress

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		config: cfg,
		fs:     afero.NewOsFs(),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	a.initLogger()
	a.initProgress()
	a.setupSignalHandling()

	a.log.WithFields(logger.Fields{
		"workers": cfg.Workers,
		"verbose": cfg.Verbose,
	}).Info("Application initialized")

	return a
}

// Run scans the given root paths and writes the report.
func (a *App) Run(paths []string) error {
	defer func() {
		if r := recover(); r != nil {
			a.log.WithFields(logger.Fields{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Recovered from panic")
		}
	}()

	a.log.WithFields(logger.Fields{
		"paths":      paths,
		"signatures": a.config.Signatures,
		"output":     a.config.Output,
	}).Info("Starting scan operation")

	sigs, err := signatures.Load(a.fs, a.config.Signatures)
	if err != nil {
		return fmt.Errorf("failed to load signatures: %w", err)
	}

	collector := report.NewCollector(sigs)
	reporters := report.MultiReporter{collector}
	if a.config.Output == string(config.OutputFormatText) && a.config.OutputFile == "" {
		reporters = append(reporters, report.NewConsoleReporter(os.Stdout, sigs, a.config.NoColor, a.log))
	}
	if a.progress != nil {
		reporters = append(reporters, newProgressReporter(a.progress))
		a.progress.Start("Scanning")
	}

	s := scanner.NewScanner(scanner.Options{
		Paths:      paths,
		Signatures: sigs,
		Workers:    a.config.Workers,
		ChunkSize:  a.config.ChunkSize,
		RateLimit:  a.config.RateLimit,
	}, a.fs, a.log, reporters)

	summary, err := s.Scan(a.ctx)
	if err != nil {
		if a.progress != nil {
			a.progress.Error(fmt.Sprintf("Scan failed: %v", err))
		}
		return fmt.Errorf("scan operation failed: %w", err)
	}

	if a.progress != nil {
		a.progress.Complete("Scan complete")
	}

	if err := a.writeReport(collector, *summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	a.log.WithFields(logger.Fields{
		"files":   summary.TotalFiles,
		"matched": summary.MatchedFiles,
		"failed":  summary.FailedFiles,
		"elapsed": summary.Elapsed,
	}).Info("Scan operation completed")

	if summary.MatchedFiles > 0 {
		return &MatchesFoundError{Count: summary.MatchedFiles}
	}
	return nil
}

// Shutdown performs a graceful shutdown of the application
func (a *App) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	default:
	}

	a.log.Debug("Initiating shutdown")

	a.cancel()
	if a.progress != nil {
		a.progress.Stop()
	}

	close(a.done)
	return nil
}

// MatchesFoundError signals that the scan completed and found matches. The
// command maps it to a distinct exit code.
type MatchesFoundError struct {
	Count int64
}

func (e *MatchesFoundError) Error() string {
	return fmt.Sprintf("%d file(s) matched signatures", e.Count)
}

// initLogger initializes the application logger
func (a *App) initLogger() {
	a.log = logger.NewLogger(logger.Config{
		Verbosity: a.config.Verbose,
		Output:    os.Stderr,
	})
}

// initProgress initializes the progress display when enabled
func (a *App) initProgress() {
	if a.config.NoProgress {
		return
	}

	a.progress = progress.New(progress.Config{
		Style:     progress.StyleSpinner,
		ShowStats: false,
		NoColor:   a.config.NoColor,
		Writer:    os.Stderr,
	}, a.log)
}

// writeReport formats the collected results and writes them to the
// configured destination. Console text output was already streamed, so only
// structured formats or an explicit output file produce a document here.
func (a *App) writeReport(collector *report.Collector, summary report.Summary) error {
	if a.config.Output == string(config.OutputFormatText) && a.config.OutputFile == "" {
		return nil
	}

	formatter := report.NewFormatter(report.Config{
		Format: report.Format(a.config.Output),
	}, a.log)

	document, err := formatter.Format(collector.Results(), summary)
	if err != nil {
		return err
	}

	if a.config.OutputFile == "" {
		_, err := fmt.Fprintln(os.Stdout, document)
		return err
	}

	dir := filepath.Dir(a.config.OutputFile)
	if err := a.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := afero.WriteFile(a.fs, a.config.OutputFile, []byte(document), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	a.log.WithFields(logger.Fields{
		"path": a.config.OutputFile,
	}).Info("Report written")
	return nil
}
