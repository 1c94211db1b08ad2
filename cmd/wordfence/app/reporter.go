package app

import (
	"github.com/pesc/wordfence-cli/pkg/matcher"
	"github.com/pesc/wordfence-cli/pkg/progress"
	"github.com/pesc/wordfence-cli/pkg/report"
)

// progressReporter adapts scan events into progress display updates. The
// engine invokes it from a single goroutine, so the counters need no
// locking.
type progressReporter struct {
	display progress.Progress
	status  progress.Status
}

func newProgressReporter(display progress.Progress) *progressReporter {
	return &progressReporter{display: display}
}

func (r *progressReporter) WorkerStarted(index int) {
	r.status.Phase = "locating"
	r.display.Update(r.status)
}

func (r *progressReporter) FileProcessed(path string, length int64, matches map[int]matcher.Match) {
	r.status.Phase = "processing"
	r.status.FilesProcessed++
	r.status.BytesRead += length
	r.status.CurrentItem = path
	if len(matches) > 0 {
		r.status.MatchedFiles++
	}
	r.display.Update(r.status)
}

func (r *progressReporter) FileException(path string, err error) {
	r.status.FailedFiles++
	r.display.Update(r.status)
}

func (r *progressReporter) Summary(s report.Summary) {}
