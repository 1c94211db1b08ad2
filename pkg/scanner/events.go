package scanner

import (
	"github.com/pesc/wordfence-cli/pkg/matcher"
)

// ScanEventType tags result events produced by scan workers.
type ScanEventType int

const (
	// EventCompleted signals a worker set its completion latch.
	EventCompleted ScanEventType = iota

	// EventFileQueueEmptied signals a worker observed the end-of-stream
	// marker on the work queue.
	EventFileQueueEmptied

	// EventFileProcessed carries the outcome of one successfully scanned
	// file.
	EventFileProcessed

	// EventException carries a recoverable, per-file error.
	EventException

	// EventFatalException carries a scan-ending error.
	EventFatalException
)

func (t ScanEventType) String() string {
	switch t {
	case EventCompleted:
		return "completed"
	case EventFileQueueEmptied:
		return "file_queue_emptied"
	case EventFileProcessed:
		return "file_processed"
	case EventException:
		return "exception"
	case EventFatalException:
		return "fatal_exception"
	default:
		return "unknown"
	}
}

// ScanEvent is one message on the result queue. Workers produce, the
// coordinator consumes.
type ScanEvent struct {
	WorkerIndex int
	Type        ScanEventType

	// Path and Length are set for EventFileProcessed and EventException.
	Path   string
	Length int64

	// Matches is set for EventFileProcessed.
	Matches map[int]matcher.Match

	// Err is set for EventException and EventFatalException.
	Err error
}

// workItemKind tags entries on the work queue.
type workItemKind int

const (
	// workItemPath carries one discovered file path.
	workItemPath workItemKind = iota

	// workItemEndOfStream marks the end of discovery; no further paths
	// will arrive.
	workItemEndOfStream

	// workItemFailure propagates a discovery failure to the workers.
	workItemFailure
)

// workItem is the tagged variant carried by the work queue: a file path, an
// end-of-stream marker, or a propagated discovery failure.
type workItem struct {
	kind workItemKind
	path string
	err  error
}
