package scanner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/spf13/afero"
	"golang.org/x/time/rate"

	"github.com/pesc/wordfence-cli/pkg/logger"
	"github.com/pesc/wordfence-cli/pkg/matcher"
	"github.com/pesc/wordfence-cli/pkg/report"
)

// PoolConfig wires a ScanWorkerPool.
type PoolConfig struct {
	// Size is the number of workers to spawn
	Size int

	// ChunkSize is the per-read chunk size handed to each worker
	ChunkSize int

	// RateLimit caps file starts per second across the pool (0 = unlimited)
	RateLimit int
}

// ScanWorkerPool owns the shared scan status, the bounded result queue, and
// the set of scan workers. AwaitResults is the single-consumer event loop
// driving status transitions, metrics, and fatal termination.
type ScanWorkerPool struct {
	config   PoolConfig
	fs       afero.Fs
	matcher  matcher.Matcher
	metrics  *ScanMetrics
	reporter report.Reporter
	log      logger.Logger

	work    <-chan workItem
	results chan ScanEvent
	workers []*ScanWorker
	limiter *rate.Limiter

	status  atomic.Int32
	started bool

	// matched and failed are written only by the coordinator loop; read
	// them after AwaitResults returns.
	matched int64
	failed  int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScanWorkerPool creates an unstarted pool reading from the given work
// queue.
func NewScanWorkerPool(
	config PoolConfig,
	work <-chan workItem,
	fs afero.Fs,
	m matcher.Matcher,
	metrics *ScanMetrics,
	reporter report.Reporter,
	log logger.Logger,
) *ScanWorkerPool {
	return &ScanWorkerPool{
		config:   config,
		fs:       fs,
		matcher:  m,
		metrics:  metrics,
		reporter: reporter,
		log:      log,
		work:     work,
	}
}

// Start spawns the workers. Starting twice is a programming error.
func (p *ScanWorkerPool) Start(ctx context.Context) error {
	if p.started {
		return ErrAlreadyStarted
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.status.Store(int32(StatusLocatingFiles))
	p.results = make(chan ScanEvent, MaxPendingResults)

	if p.config.RateLimit > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(p.config.RateLimit), 1)
	}

	for i := 0; i < p.config.Size; i++ {
		worker := newScanWorker(
			i, p.fs, p.matcher, p.config.ChunkSize, p.limiter,
			p.work, p.results, p.log,
		)
		p.workers = append(p.workers, worker)

		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			worker.Run(p.ctx)
		}()

		p.reporter.WorkerStarted(i)
	}

	// Close the result queue once every worker goroutine has exited. The
	// coordinator loop drains everything buffered before the close, so no
	// event produced by a worker can be abandoned.
	go func() {
		p.wg.Wait()
		close(p.results)
	}()

	p.started = true

	p.log.WithFields(logger.Fields{
		"workers":   p.config.Size,
		"chunkSize": p.config.ChunkSize,
		"rateLimit": p.config.RateLimit,
	}).Debug("Scan worker pool started")

	return nil
}

// Stop awaits natural termination of every worker. Used on graceful
// completion; by the time AwaitResults has returned the workers have
// already exited, so this only releases the pool context.
func (p *ScanWorkerPool) Stop() error {
	if !p.started {
		return ErrNotStarted
	}

	p.wg.Wait()
	p.cancel()
	return nil
}

// Terminate force-stops all workers. Used only after a fatal error.
func (p *ScanWorkerPool) Terminate() error {
	if !p.started {
		return ErrNotStarted
	}
	p.cancel()
	p.wg.Wait()
	return nil
}

// IsComplete reports whether every worker's completion latch is set.
func (p *ScanWorkerPool) IsComplete() bool {
	if !p.started {
		return false
	}
	for _, worker := range p.workers {
		if !worker.IsComplete() {
			return false
		}
	}
	return true
}

// Status returns the current scan status. Safe to call concurrently with
// the event loop.
func (p *ScanWorkerPool) Status() Status {
	return Status(p.status.Load())
}

// MatchedFiles returns the number of files with at least one match. Valid
// after AwaitResults returns.
func (p *ScanWorkerPool) MatchedFiles() int64 {
	return p.matched
}

// FailedFiles returns the number of files skipped due to read errors.
// Valid after AwaitResults returns.
func (p *ScanWorkerPool) FailedFiles() int64 {
	return p.failed
}

// AwaitResults runs the coordinator loop: the single consumer of the
// result queue. It processes events until the queue is closed and fully
// drained, so a completion latch set while results are still buffered can
// never drop them. It returns nil once every worker completed and all
// results were processed, the context error when the scan was cancelled,
// or the fatal error after force-terminating the pool.
func (p *ScanWorkerPool) AwaitResults() error {
	if !p.started {
		return ErrNotStarted
	}

	for event := range p.results {
		switch event.Type {
		case EventCompleted:
			p.log.WithFields(logger.Fields{
				"worker": event.WorkerIndex,
			}).Debug("Worker reported completion")

		case EventFileQueueEmptied:
			if p.Status() == StatusLocatingFiles {
				p.status.Store(int32(StatusProcessingFiles))
				p.log.Debug("File discovery finished; processing remaining queue")
			}

		case EventFileProcessed:
			p.metrics.RecordResult(event.WorkerIndex, event.Length)
			if len(event.Matches) > 0 {
				p.matched++
			}
			p.reporter.FileProcessed(event.Path, event.Length, event.Matches)

		case EventException:
			p.failed++
			p.log.WithFields(logger.Fields{
				"path":  event.Path,
				"error": event.Err,
			}).Warn("Exception occurred while processing file")
			p.reporter.FileException(event.Path, event.Err)

		case EventFatalException:
			p.status.Store(int32(StatusFailed))
			p.log.WithFields(logger.Fields{
				"error": event.Err,
			}).Error("Fatal exception; terminating scan")

			if err := p.Terminate(); err != nil {
				return fmt.Errorf("terminating after fatal exception: %w", err)
			}
			return event.Err
		}
	}

	// The queue closes once every worker goroutine has exited: either all
	// of them finished naturally, or the context was cancelled beneath
	// them.
	if err := p.ctx.Err(); err != nil && !p.IsComplete() {
		return err
	}

	p.status.Store(int32(StatusComplete))
	p.log.Debug("All workers complete and all results processed")
	return nil
}
