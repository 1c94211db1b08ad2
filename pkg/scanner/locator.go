package scanner

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/pesc/wordfence-cli/pkg/logger"
)

// FileLocator discovers every regular file under a single root path,
// depth-first. Traversal uses an explicit directory stack so deep trees
// cannot exhaust the call stack.
type FileLocator struct {
	fs   afero.Fs
	path string

	// located counts paths emitted so far, including any emitted before a
	// traversal failure.
	located int
}

// NewFileLocator creates a locator for one root path.
func NewFileLocator(fs afero.Fs, path string) *FileLocator {
	return &FileLocator{fs: fs, path: path}
}

// Located returns the number of file paths emitted so far.
func (l *FileLocator) Located() int {
	return l.located
}

// Locate resolves the root and emits every regular file beneath it. If the
// resolved root is not a directory it is emitted as-is. Any traversal error
// aborts the whole call with a *DiscoveryError; paths already emitted stay
// valid. Symbolic links to directories are not followed.
func (l *FileLocator) Locate(ctx context.Context, emit func(path string) error) error {
	root, err := l.resolve(l.path)
	if err != nil {
		return &DiscoveryError{Path: l.path, Err: err}
	}

	info, err := l.fs.Stat(root)
	if err != nil {
		return &DiscoveryError{Path: root, Err: err}
	}

	if !info.IsDir() {
		l.located++
		return emit(root)
	}

	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := ctx.Err(); err != nil {
			return err
		}

		entries, err := afero.ReadDir(l.fs, dir)
		if err != nil {
			return &DiscoveryError{Path: dir, Err: err}
		}

		for _, entry := range entries {
			entryPath := filepath.Join(dir, entry.Name())
			switch {
			case entry.Mode()&os.ModeSymlink != 0:
				// Symlinks are skipped; no cycle tracking needed.
			case entry.IsDir():
				stack = append(stack, entryPath)
			case entry.Mode().IsRegular():
				l.located++
				if err := emit(entryPath); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// resolve canonicalizes the root path. Symlinks are resolved only on a real
// filesystem; in-memory filesystems have none.
func (l *FileLocator) resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	if _, ok := l.fs.(*afero.OsFs); ok {
		if real, err := filepath.EvalSymlinks(abs); err == nil {
			return real, nil
		}
	}

	return filepath.Clean(abs), nil
}

// FileLocatorProcess is the long-lived discovery service. It consumes root
// paths from a bounded input channel and produces work items on the bounded
// work queue, fully concurrently with the scan workers. The work queue is
// closed when discovery ends, after an end-of-stream marker (normal end) or
// a failure item (aborted discovery).
type FileLocatorProcess struct {
	fs  afero.Fs
	log logger.Logger

	input  chan string
	output chan workItem
}

// NewFileLocatorProcess creates an idle discovery service.
func NewFileLocatorProcess(fs afero.Fs, log logger.Logger) *FileLocatorProcess {
	return &FileLocatorProcess{
		fs:     fs,
		log:    log,
		input:  make(chan string, locatorInputSize),
		output: make(chan workItem, MaxPendingFiles),
	}
}

// Output returns the work queue fed by discovery.
func (p *FileLocatorProcess) Output() <-chan workItem {
	return p.output
}

// AddPath queues one root path for discovery. Blocks when the input queue
// is full.
func (p *FileLocatorProcess) AddPath(ctx context.Context, path string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.input <- path:
		return nil
	}
}

// FinalizePaths marks the end of root-path input. Must be called exactly
// once, after the last AddPath.
func (p *FileLocatorProcess) FinalizePaths() {
	close(p.input)
}

// Start launches the discovery goroutine.
func (p *FileLocatorProcess) Start(ctx context.Context) {
	go p.run(ctx)
}

func (p *FileLocatorProcess) run(ctx context.Context) {
	defer close(p.output)

	emit := func(path string) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p.output <- workItem{kind: workItemPath, path: path}:
			return nil
		}
	}

	for {
		var root string
		var ok bool
		select {
		case <-ctx.Done():
			return
		case root, ok = <-p.input:
			if !ok {
				// Input exhausted: discovery ended normally.
				select {
				case <-ctx.Done():
				case p.output <- workItem{kind: workItemEndOfStream}:
				}
				return
			}
		}

		locator := NewFileLocator(p.fs, root)
		err := locator.Locate(ctx, emit)

		p.log.WithFields(logger.Fields{
			"root":    root,
			"located": locator.Located(),
			"error":   err,
		}).Debug("Locate call finished")

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// Propagate the failure in place of a path; downstream treats
			// it as fatal.
			select {
			case <-ctx.Done():
			case p.output <- workItem{kind: workItemFailure, err: err}:
			}
			return
		}
	}
}
