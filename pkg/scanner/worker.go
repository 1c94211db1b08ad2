package scanner

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/spf13/afero"
	"golang.org/x/time/rate"

	"github.com/pesc/wordfence-cli/pkg/logger"
	"github.com/pesc/wordfence-cli/pkg/matcher"
)

// ScanWorker consumes work items from the shared queue and streams file
// content through the matcher, emitting typed result events. Workers stop
// on their own when discovery ends and the queue drains, or when the pool
// context is cancelled.
type ScanWorker struct {
	index     int
	fs        afero.Fs
	matcher   matcher.Matcher
	chunkSize int
	limiter   *rate.Limiter
	work      <-chan workItem
	results   chan<- ScanEvent
	log       logger.Logger

	// complete is a one-way latch set exactly once by the owning worker
	// and read by the coordinator.
	complete atomic.Bool
}

func newScanWorker(
	index int,
	fs afero.Fs,
	m matcher.Matcher,
	chunkSize int,
	limiter *rate.Limiter,
	work <-chan workItem,
	results chan<- ScanEvent,
	log logger.Logger,
) *ScanWorker {
	return &ScanWorker{
		index:     index,
		fs:        fs,
		matcher:   m,
		chunkSize: chunkSize,
		limiter:   limiter,
		work:      work,
		results:   results,
		log:       log.WithFields(logger.Fields{"worker": index}),
	}
}

// IsComplete reports whether the worker's completion latch is set.
func (w *ScanWorker) IsComplete() bool {
	return w.complete.Load()
}

// Run processes work items until the queue ends or the context is
// cancelled. It is the worker's goroutine body.
func (w *ScanWorker) Run(ctx context.Context) {
	w.log.Debug("Worker started")

	buf := make([]byte, w.chunkSize)

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Worker terminated")
			return

		case item, ok := <-w.work:
			if !ok {
				// Queue closed and drained: no more work is coming.
				w.finish(ctx)
				return
			}

			switch item.kind {
			case workItemEndOfStream:
				w.emit(ctx, ScanEvent{WorkerIndex: w.index, Type: EventFileQueueEmptied})
				w.finish(ctx)
				return

			case workItemFailure:
				w.emit(ctx, ScanEvent{WorkerIndex: w.index, Type: EventFatalException, Err: item.err})
				return

			default:
				w.processFile(ctx, item.path, buf)
			}
		}
	}
}

// finish sets the completion latch and emits Completed exactly once.
func (w *ScanWorker) finish(ctx context.Context) {
	if w.complete.CompareAndSwap(false, true) {
		w.emit(ctx, ScanEvent{WorkerIndex: w.index, Type: EventCompleted})
		w.log.Debug("Worker completed")
	}
}

func (w *ScanWorker) emit(ctx context.Context, event ScanEvent) {
	select {
	case <-ctx.Done():
	case w.results <- event:
	}
}

// processFile streams one file through a fresh matcher context. Read errors
// are per-file exceptions: the file is skipped and the worker keeps going.
func (w *ScanWorker) processFile(ctx context.Context, path string, buf []byte) {
	if w.limiter != nil {
		if err := w.limiter.Wait(ctx); err != nil {
			return
		}
	}

	file, err := w.fs.Open(path)
	if err != nil {
		w.emit(ctx, ScanEvent{WorkerIndex: w.index, Type: EventException, Path: path, Err: err})
		return
	}
	defer file.Close()

	mctx := w.matcher.CreateContext()
	var length int64

	for {
		n, err := file.Read(buf)
		if n > 0 {
			length += int64(n)
			mctx.ProcessChunk(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			w.emit(ctx, ScanEvent{WorkerIndex: w.index, Type: EventException, Path: path, Err: err})
			return
		}
	}

	w.emit(ctx, ScanEvent{
		WorkerIndex: w.index,
		Type:        EventFileProcessed,
		Path:        path,
		Length:      length,
		Matches:     mctx.Matches(),
	})
}
