package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/pesc/wordfence-cli/pkg/logger"
	"github.com/pesc/wordfence-cli/pkg/matcher"
	"github.com/pesc/wordfence-cli/pkg/signatures"
)

// ConsoleReporter writes human-readable match and summary lines as the scan
// runs. Clean files produce no output.
type ConsoleReporter struct {
	writer io.Writer
	sigs   *signatures.Set
	log    logger.Logger

	matchColor *color.Color
	errColor   *color.Color
	dimColor   *color.Color
}

// NewConsoleReporter creates a console reporter writing to w.
func NewConsoleReporter(w io.Writer, sigs *signatures.Set, noColor bool, log logger.Logger) *ConsoleReporter {
	r := &ConsoleReporter{
		writer:     w,
		sigs:       sigs,
		log:        log,
		matchColor: color.New(color.FgRed, color.Bold),
		errColor:   color.New(color.FgYellow),
		dimColor:   color.New(color.Faint),
	}
	if noColor {
		r.matchColor.DisableColor()
		r.errColor.DisableColor()
		r.dimColor.DisableColor()
	}
	return r
}

func (r *ConsoleReporter) WorkerStarted(index int) {
	r.log.WithFields(logger.Fields{
		"worker": index,
	}).Debug("Scan worker started")
}

func (r *ConsoleReporter) FileProcessed(path string, length int64, matches map[int]matcher.Match) {
	if len(matches) == 0 {
		return
	}

	for _, entry := range (&Collector{sigs: r.sigs}).entries(matches) {
		name := entry.SignatureName
		if name == "" {
			name = fmt.Sprintf("signature %d", entry.SignatureID)
		}
		r.matchColor.Fprintf(r.writer, "MATCH  %s", path)
		fmt.Fprintf(r.writer, "  %s (id %d, offset %d)\n", name, entry.SignatureID, entry.Offset)
	}
}

func (r *ConsoleReporter) FileException(path string, err error) {
	r.errColor.Fprintf(r.writer, "ERROR  %s", path)
	fmt.Fprintf(r.writer, "  %v\n", err)
}

func (r *ConsoleReporter) Summary(s Summary) {
	fmt.Fprintf(r.writer, "\nProcessed %d files containing %s in %.2f seconds",
		s.TotalFiles, humanize.Bytes(uint64(s.TotalBytes)), s.Elapsed.Seconds())
	fmt.Fprintln(r.writer)

	if s.MatchedFiles > 0 {
		r.matchColor.Fprintf(r.writer, "%d file(s) matched signatures\n", s.MatchedFiles)
	} else {
		r.dimColor.Fprintln(r.writer, "No signature matches found")
	}
	if s.FailedFiles > 0 {
		r.errColor.Fprintf(r.writer, "%d file(s) could not be read\n", s.FailedFiles)
	}
}
