package scanner

import (
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/pesc/wordfence-cli/pkg/matcher"
	"github.com/pesc/wordfence-cli/pkg/report"
	"github.com/pesc/wordfence-cli/pkg/signatures"
)

// testSignatures returns a small validated set shared by the package tests.
func testSignatures(t *testing.T) *signatures.Set {
	t.Helper()

	set, err := signatures.NewSet([]signatures.Signature{
		{ID: 1, Name: "eval-base64", Pattern: `eval\s*\(\s*base64_decode`, Severity: "high"},
		{ID: 2, Name: "shell-exec", Pattern: `shell_exec\s*\(`, Severity: "medium"},
	})
	require.NoError(t, err)
	return set
}

func testMatcher(t *testing.T) matcher.Matcher {
	t.Helper()

	m, err := matcher.NewRegexMatcher(testSignatures(t))
	require.NoError(t, err)
	return m
}

// testFs builds an in-memory filesystem from a path -> content map.
func testFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

// failingFs fails Open for one specific path and delegates everything else.
// Opening a directory path breaks discovery; opening a file path breaks a
// single scan.
type failingFs struct {
	afero.Fs
	failPath string
}

func (f *failingFs) Open(name string) (afero.File, error) {
	if name == f.failPath {
		return nil, fmt.Errorf("simulated open failure: %s", name)
	}
	return f.Fs.Open(name)
}

// recordingReporter captures reporter invocations. The engine drives a
// Reporter from a single goroutine, so no locking is needed here.
type recordingReporter struct {
	workers    []int
	processed  []string
	matches    map[string]map[int]matcher.Match
	exceptions map[string]error
	summary    *report.Summary
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{
		matches:    make(map[string]map[int]matcher.Match),
		exceptions: make(map[string]error),
	}
}

func (r *recordingReporter) WorkerStarted(index int) {
	r.workers = append(r.workers, index)
}

func (r *recordingReporter) FileProcessed(path string, length int64, matches map[int]matcher.Match) {
	r.processed = append(r.processed, path)
	if len(matches) > 0 {
		r.matches[path] = matches
	}
}

func (r *recordingReporter) FileException(path string, err error) {
	r.exceptions[path] = err
}

func (r *recordingReporter) Summary(s report.Summary) {
	r.summary = &s
}
