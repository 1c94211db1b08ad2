/*
Package progress renders live scan progress on the terminal.

A scan has no known total while file discovery is still running, so the
display shows counters and throughput instead of a percentage bar. Output
degrades to plain line-by-line text on non-terminal writers.
*/
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/pesc/wordfence-cli/pkg/logger"
)

type progress struct {
	config Config
	log    logger.Logger
	writer io.Writer

	// State
	status    Status
	startTime time.Time
	message   string
	isActive  bool

	// Rendering
	renderer    renderer
	refreshRate time.Duration

	// Synchronization
	mu       sync.Mutex
	stopChan chan struct{}
	doneChan chan struct{}
}

// New creates a new progress visualization instance
func New(config Config, log logger.Logger) Progress {
	if config.RefreshRate == 0 {
		config.RefreshRate = 100 * time.Millisecond
	}
	if config.Writer == nil {
		config.Writer = os.Stdout
	}

	p := &progress{
		config:      config,
		log:         log,
		writer:      config.Writer,
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
		refreshRate: config.RefreshRate,
	}
	p.renderer = p.createRenderer()

	p.log.WithFields(logger.Fields{
		"style":     p.config.Style,
		"showStats": p.config.ShowStats,
		"noColor":   p.config.NoColor,
		"refresh":   p.config.RefreshRate,
	}).Debug("Created new progress instance")

	return p
}

func (p *progress) Start(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"message": message,
	}).Debug("Starting progress")

	p.message = message
	p.startTime = time.Now()
	p.isActive = true

	go p.renderLoop()
}

func (p *progress) Update(status Status) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"phase": status.Phase,
		"files": status.FilesProcessed,
		"item":  status.CurrentItem,
	}).Trace("Updating progress")

	p.status = status
}

func (p *progress) Complete(message string) {
	p.halt(message, false)
}

func (p *progress) Error(message string) {
	p.halt(message, true)
}

func (p *progress) Stop() {
	p.halt("", false)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearLine()
}

// halt stops the render loop and draws a final frame. Safe to call more
// than once.
func (p *progress) halt(message string, failed bool) {
	p.mu.Lock()
	if !p.isActive {
		p.mu.Unlock()
		return
	}
	p.isActive = false
	if message != "" {
		p.message = message
	}
	close(p.stopChan)
	p.mu.Unlock()

	// Wait outside the lock; the render loop needs it for its last frame.
	<-p.doneChan

	p.mu.Lock()
	defer p.mu.Unlock()
	p.render(failed)
	fmt.Fprintln(p.writer)
}

func (p *progress) IsSupportedTerminal() bool {
	if f, ok := p.writer.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Internal methods

func (p *progress) renderLoop() {
	ticker := time.NewTicker(p.refreshRate)
	defer ticker.Stop()
	defer close(p.doneChan)

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.mu.Lock()
			p.render(false)
			p.mu.Unlock()
		}
	}
}

func (p *progress) render(failed bool) {
	output := p.renderer.render(p.status, p.message, p.calculateStats(), failed)
	p.clearLine()
	fmt.Fprint(p.writer, output)
}

func (p *progress) clearLine() {
	if p.IsSupportedTerminal() {
		fmt.Fprint(p.writer, "\r\033[K")
	} else {
		fmt.Fprint(p.writer, "\r")
	}
}

func (p *progress) calculateStats() Statistics {
	elapsed := time.Since(p.startTime)

	stats := Statistics{
		StartTime:   p.startTime,
		ElapsedTime: elapsed,
	}
	if elapsed > 0 {
		stats.FilesPerSecond = float64(p.status.FilesProcessed) / elapsed.Seconds()
	}
	return stats
}

func (p *progress) createRenderer() renderer {
	switch p.config.Style {
	case StyleSpinner:
		return &spinnerRenderer{
			noColor:   p.config.NoColor,
			showStats: p.config.ShowStats,
		}
	default:
		return &simpleRenderer{
			noColor:   p.config.NoColor,
			showStats: p.config.ShowStats,
		}
	}
}
