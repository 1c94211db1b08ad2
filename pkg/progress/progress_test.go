package progress

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pesc/wordfence-cli/pkg/logger"
)

func TestSpinnerRenderer(t *testing.T) {
	r := &spinnerRenderer{noColor: true, showStats: true}

	out := r.render(Status{
		Phase:          "processing",
		FilesProcessed: 42,
		BytesRead:      2048,
		MatchedFiles:   3,
		FailedFiles:    1,
	}, "Scanning", Statistics{FilesPerSecond: 12.5, ElapsedTime: 3 * time.Second}, false)

	assert.Contains(t, out, "Scanning")
	assert.Contains(t, out, "[processing]")
	assert.Contains(t, out, "42 files")
	assert.Contains(t, out, "3 matched")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "12.5 files/s")
	assert.NotContains(t, out, "\033[")
}

func TestSpinnerRendererAdvancesFrames(t *testing.T) {
	r := &spinnerRenderer{noColor: true}

	first := r.render(Status{}, "x", Statistics{}, false)
	second := r.render(Status{}, "x", Statistics{}, false)
	assert.NotEqual(t, first, second)
}

func TestSimpleRenderer(t *testing.T) {
	r := &simpleRenderer{noColor: true, showStats: true}

	out := r.render(Status{
		FilesProcessed: 10,
		BytesRead:      1024,
		MatchedFiles:   2,
	}, "Scanning", Statistics{FilesPerSecond: 5}, false)

	assert.Contains(t, out, "Scanning: 10 files")
	assert.Contains(t, out, "Matched: 2")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{0, "0s"},
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m30s"},
		{3750 * time.Second, "1h2m30s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatDuration(tt.duration))
	}
}

func TestProgressLifecycle(t *testing.T) {
	var buf bytes.Buffer
	p := New(Config{
		Style:       StyleSimple,
		NoColor:     true,
		RefreshRate: 10 * time.Millisecond,
		Writer:      &buf,
	}, logger.Nop())

	assert.False(t, p.IsSupportedTerminal())

	p.Start("Scanning")
	p.Update(Status{Phase: "processing", FilesProcessed: 7, BytesRead: 512})
	p.Complete("Scan complete")

	out := buf.String()
	assert.Contains(t, out, "Scan complete")
	assert.Contains(t, out, "7 files")
}

func TestProgressErrorRendersMessage(t *testing.T) {
	var buf bytes.Buffer
	p := New(Config{
		Style:   StyleSimple,
		NoColor: true,
		Writer:  &buf,
	}, logger.Nop())

	p.Start("Scanning")
	p.Error("Scan failed")

	assert.Contains(t, buf.String(), "Scan failed")
}

func TestProgressStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	p := New(Config{Style: StyleSimple, NoColor: true, Writer: &buf}, logger.Nop())

	p.Start("Scanning")
	p.Complete("Done")
	p.Stop()
	p.Stop()
}
