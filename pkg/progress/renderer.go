package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type renderer interface {
	render(status Status, message string, stats Statistics, failed bool) string
}

type spinnerRenderer struct {
	noColor   bool
	showStats bool
	frame     int
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (r *spinnerRenderer) render(status Status, message string, stats Statistics, failed bool) string {
	r.frame = (r.frame + 1) % len(spinnerFrames)
	spinner := spinnerFrames[r.frame]

	if !r.noColor {
		if failed {
			spinner = fmt.Sprintf("\033[31m%s\033[0m", spinner) // Red on failure
		} else {
			spinner = fmt.Sprintf("\033[36m%s\033[0m", spinner) // Cyan
		}
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("\r%s %s", spinner, message))

	if status.Phase != "" {
		output.WriteString(fmt.Sprintf(" [%s]", status.Phase))
	}

	output.WriteString(fmt.Sprintf("  %d files, %s",
		status.FilesProcessed, humanize.Bytes(uint64(status.BytesRead))))

	if status.MatchedFiles > 0 {
		output.WriteString(fmt.Sprintf(", %d matched", status.MatchedFiles))
	}
	if status.FailedFiles > 0 {
		output.WriteString(fmt.Sprintf(", %d failed", status.FailedFiles))
	}

	if r.showStats {
		output.WriteString(fmt.Sprintf("\nSpeed: %.1f files/s | Elapsed: %s",
			stats.FilesPerSecond,
			formatDuration(stats.ElapsedTime)))
	}

	return output.String()
}

type simpleRenderer struct {
	noColor   bool
	showStats bool
}

func (r *simpleRenderer) render(status Status, message string, stats Statistics, failed bool) string {
	if !r.noColor {
		switch {
		case failed:
			message = fmt.Sprintf("\033[31m%s\033[0m", message) // Red for errors
		case strings.Contains(message, "Complete"):
			message = fmt.Sprintf("\033[32m%s\033[0m", message) // Green for completion
		}
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("\r%s: %d files, %s read",
		message, status.FilesProcessed, humanize.Bytes(uint64(status.BytesRead))))

	if r.showStats {
		output.WriteString(fmt.Sprintf("\nMatched: %d | Failed: %d | Speed: %.1f files/s",
			status.MatchedFiles, status.FailedFiles, stats.FilesPerSecond))
	}

	return output.String()
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds",
			int(d.Minutes()),
			int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm%ds",
		int(d.Hours()),
		int(d.Minutes())%60,
		int(d.Seconds())%60)
}
