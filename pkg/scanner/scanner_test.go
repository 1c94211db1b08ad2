package scanner

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesc/wordfence-cli/pkg/logger"
	"github.com/pesc/wordfence-cli/pkg/matcher"
	"github.com/pesc/wordfence-cli/pkg/signatures"
)

// slowReporter delays result handling so the result queue builds up
// backpressure while workers race ahead of the coordinator.
type slowReporter struct {
	*recordingReporter
	delay time.Duration
}

func (r *slowReporter) FileProcessed(path string, length int64, matches map[int]matcher.Match) {
	time.Sleep(r.delay)
	r.recordingReporter.FileProcessed(path, length, matches)
}

func siteFs(t *testing.T) (afero.Fs, int64) {
	t.Helper()

	files := map[string]string{
		"/site/index.php":             `<?php echo "hello"; ?>`,
		"/site/wp-content/plugin.php": `<?php eval ( base64_decode($p)); ?>`,
		"/site/wp-content/style.css":  "body { color: red; }",
		"/site/assets/logo.png":       "\x89PNG\r\n\x1a\nfakeimagedata",
	}

	var total int64
	for _, content := range files {
		total += int64(len(content))
	}
	return testFs(t, files), total
}

func TestScannerOptionsValidation(t *testing.T) {
	sigs := testSignatures(t)

	tests := []struct {
		name string
		opts Options
	}{
		{
			name: "no paths",
			opts: Options{Signatures: sigs, Workers: 1, ChunkSize: 64},
		},
		{
			name: "nil signatures",
			opts: Options{Paths: []string{"/site"}, Workers: 1, ChunkSize: 64},
		},
		{
			name: "empty signatures",
			opts: Options{Paths: []string{"/site"}, Signatures: &signatures.Set{}, Workers: 1, ChunkSize: 64},
		},
		{
			name: "zero workers",
			opts: Options{Paths: []string{"/site"}, Signatures: sigs, ChunkSize: 64},
		},
		{
			name: "zero chunk size",
			opts: Options{Paths: []string{"/site"}, Signatures: sigs, Workers: 1},
		},
		{
			name: "negative rate limit",
			opts: Options{Paths: []string{"/site"}, Signatures: sigs, Workers: 1, ChunkSize: 64, RateLimit: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := testFs(t, nil)
			s := NewScanner(tt.opts, fs, logger.Nop(), newRecordingReporter())

			_, err := s.Scan(context.Background())
			var confErr *ConfigurationError
			assert.ErrorAs(t, err, &confErr)
		})
	}
}

func TestScannerScansTree(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(map[int]string{1: "single worker", 4: "four workers"}[workers], func(t *testing.T) {
			fs, totalBytes := siteFs(t)
			reporter := newRecordingReporter()

			s := NewScanner(Options{
				Paths:      []string{"/site"},
				Signatures: testSignatures(t),
				Workers:    workers,
				ChunkSize:  64,
			}, fs, logger.Nop(), reporter)

			summary, err := s.Scan(context.Background())
			require.NoError(t, err)
			require.NotNil(t, summary)

			assert.Equal(t, int64(4), summary.TotalFiles)
			assert.Equal(t, totalBytes, summary.TotalBytes)
			assert.Equal(t, int64(1), summary.MatchedFiles)
			assert.Zero(t, summary.FailedFiles)

			require.NotNil(t, reporter.summary)
			assert.Equal(t, *summary, *reporter.summary)
			assert.Len(t, reporter.workers, workers)
			assert.Len(t, reporter.processed, 4)

			matches, ok := reporter.matches["/site/wp-content/plugin.php"]
			require.True(t, ok)
			assert.Contains(t, matches, 1)
		})
	}
}

func TestScannerMatchesAreChunkSizeIndependent(t *testing.T) {
	for _, chunkSize := range []int{7, 64, DefaultChunkSize} {
		fs, _ := siteFs(t)
		reporter := newRecordingReporter()

		s := NewScanner(Options{
			Paths:      []string{"/site"},
			Signatures: testSignatures(t),
			Workers:    2,
			ChunkSize:  chunkSize,
		}, fs, logger.Nop(), reporter)

		summary, err := s.Scan(context.Background())
		require.NoError(t, err, "chunk size %d", chunkSize)
		assert.Equal(t, int64(1), summary.MatchedFiles, "chunk size %d", chunkSize)

		matches := reporter.matches["/site/wp-content/plugin.php"]
		require.Contains(t, matches, 1, "chunk size %d", chunkSize)
		assert.Equal(t, int64(6), matches[1].Offset, "chunk size %d", chunkSize)
	}
}

func TestScannerUnreadableFileIsCounted(t *testing.T) {
	base, _ := siteFs(t)
	fs := &failingFs{Fs: base, failPath: "/site/index.php"}
	reporter := newRecordingReporter()

	s := NewScanner(Options{
		Paths:      []string{"/site"},
		Signatures: testSignatures(t),
		Workers:    2,
		ChunkSize:  64,
	}, fs, logger.Nop(), reporter)

	summary, err := s.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.TotalFiles)
	assert.Equal(t, int64(1), summary.FailedFiles)
	assert.Contains(t, reporter.exceptions, "/site/index.php")
}

func TestScannerDiscoveryFailureIsFatal(t *testing.T) {
	fs, _ := siteFs(t)
	reporter := newRecordingReporter()

	s := NewScanner(Options{
		Paths:      []string{"/site", "/nonexistent"},
		Signatures: testSignatures(t),
		Workers:    2,
		ChunkSize:  64,
	}, fs, logger.Nop(), reporter)

	summary, err := s.Scan(context.Background())
	require.Error(t, err)
	assert.Nil(t, summary)

	var discErr *DiscoveryError
	assert.ErrorAs(t, err, &discErr)
	assert.Nil(t, reporter.summary)
}

func TestScannerMultipleRoots(t *testing.T) {
	fs := testFs(t, map[string]string{
		"/a/one.txt":   "shell_exec ( $cmd )",
		"/b/two.txt":   "clean",
		"/c/three.txt": "also clean",
	})
	reporter := newRecordingReporter()

	s := NewScanner(Options{
		Paths:      []string{"/a", "/b", "/c"},
		Signatures: testSignatures(t),
		Workers:    2,
		ChunkSize:  64,
	}, fs, logger.Nop(), reporter)

	summary, err := s.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.TotalFiles)
	assert.Equal(t, int64(1), summary.MatchedFiles)
	assert.Contains(t, reporter.matches, "/a/one.txt")
}

func TestScannerCountsEveryResultUnderBackpressure(t *testing.T) {
	// Many small files plus one large file that sorts last: the workers on
	// small files finish well before the worker streaming the large file,
	// while the lagging reporter keeps results buffered. Every result must
	// still be counted once the scan reports completion.
	fs := afero.NewMemMapFs()
	var totalBytes int64
	for i := 0; i < 300; i++ {
		content := fmt.Sprintf("benign content %03d", i)
		require.NoError(t, afero.WriteFile(fs, fmt.Sprintf("/site/%03d.txt", i), []byte(content), 0o644))
		totalBytes += int64(len(content))
	}
	large := bytes.Repeat([]byte("z"), 2<<20)
	require.NoError(t, afero.WriteFile(fs, "/site/zzz-large.bin", large, 0o644))
	totalBytes += int64(len(large))

	reporter := &slowReporter{
		recordingReporter: newRecordingReporter(),
		delay:             200 * time.Microsecond,
	}

	s := NewScanner(Options{
		Paths:      []string{"/site"},
		Signatures: testSignatures(t),
		Workers:    8,
		ChunkSize:  64 * 1024,
	}, fs, logger.Nop(), reporter)

	summary, err := s.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(301), summary.TotalFiles)
	assert.Equal(t, totalBytes, summary.TotalBytes)
	assert.Len(t, reporter.processed, 301)
}

func TestScannerCancelledContextUnblocksScan(t *testing.T) {
	fs := afero.NewMemMapFs()
	for i := 0; i < 2000; i++ {
		require.NoError(t, afero.WriteFile(fs, fmt.Sprintf("/site/%04d.txt", i), []byte("content"), 0o644))
	}

	// The lagging reporter guarantees the scan is still running when the
	// context is cancelled.
	reporter := &slowReporter{
		recordingReporter: newRecordingReporter(),
		delay:             time.Millisecond,
	}

	s := NewScanner(Options{
		Paths:      []string{"/site"},
		Signatures: testSignatures(t),
		Workers:    2,
		ChunkSize:  4096,
	}, fs, logger.Nop(), reporter)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	done := make(chan error, 1)
	go func() {
		_, err := s.Scan(ctx)
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, reporter.summary)
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not return after context cancellation")
	}
}

func TestScannerRateLimitedScanCompletes(t *testing.T) {
	fs := testFs(t, map[string]string{
		"/a/one.txt": "clean",
		"/a/two.txt": "clean",
	})

	s := NewScanner(Options{
		Paths:      []string{"/a"},
		Signatures: testSignatures(t),
		Workers:    2,
		ChunkSize:  64,
		RateLimit:  1000,
	}, fs, logger.Nop(), newRecordingReporter())

	summary, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalFiles)
}
