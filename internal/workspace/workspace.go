package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gofrs/flock"

	"github.com/oshokin/course-submit/internal/logger"
)

// LockFilename is the lock file kept in the base directory.
const LockFilename = ".course-submit.lock"

var (
	// ErrLocked is returned when another process holds the workspace lock.
	ErrLocked = errors.New("another course-submit run is using this directory")
	// errNotDirectory is returned when the base directory is not a directory.
	errNotDirectory = errors.New("not a directory")
)

// Workspace is a base directory that every relative path is resolved against.
type Workspace struct {
	dir string
}

// New returns a workspace rooted at dir ("." when empty).
func New(dir string) *Workspace {
	if dir == "" {
		dir = "."
	}

	return &Workspace{dir: filepath.Clean(dir)}
}

// Dir returns the base directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Sub returns a workspace for a directory relative to this one.
func (w *Workspace) Sub(rel string) *Workspace {
	return New(filepath.Join(w.dir, rel))
}

// Path resolves name against the base directory.
func (w *Workspace) Path(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}

	return filepath.Join(w.dir, name)
}

// IsFile reports whether name is an existing regular file.
func (w *Workspace) IsFile(name string) bool {
	info, err := os.Stat(w.Path(name))

	return err == nil && info.Mode().IsRegular()
}

// Check verifies the base directory exists.
func (w *Workspace) Check() error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("workspace %s: %w", w.dir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("workspace %s: %w", w.dir, errNotDirectory)
	}

	return nil
}

// Candidates expands the glob patterns relative to the base directory and
// returns the matches relative to it, in pattern order then directory order.
// Hidden entries are skipped the way a shell glob skips them.
// Leading "." and ".." segments of a pattern are resolved literally, so
// metacharacters in directory names never take part in matching.
func (w *Workspace) Candidates(patterns []string) ([]string, error) {
	if err := w.Check(); err != nil {
		return nil, err
	}

	var (
		seen       = make(map[string]struct{})
		candidates = make([]string, 0, len(patterns))
	)

	for _, pattern := range patterns {
		prefix, rest := splitPattern(pattern)

		matches, err := w.glob(prefix, rest)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}

		for _, match := range matches {
			if strings.HasPrefix(path.Base(match), ".") {
				continue
			}

			rel := filepath.Join(prefix, filepath.FromSlash(match))
			if _, ok := seen[rel]; ok {
				continue
			}

			seen[rel] = struct{}{}
			candidates = append(candidates, rel)
		}
	}

	return candidates, nil
}

// glob matches rest inside the directory prefix, relative to the base directory.
// Matches are slash separated and relative to that directory.
func (w *Workspace) glob(prefix, rest string) ([]string, error) {
	return doublestar.Glob(os.DirFS(w.Path(prefix)), rest, doublestar.WithFailOnIOErrors())
}

// splitPattern separates the leading "." and ".." segments of pattern from
// the part that is matched.
func splitPattern(pattern string) (string, string) {
	segments := strings.Split(filepath.ToSlash(pattern), "/")

	i := 0
	for i < len(segments)-1 && (segments[i] == "." || segments[i] == "..") {
		i++
	}

	return filepath.Join(segments[:i]...), strings.Join(segments[i:], "/")
}

// Lock takes a non-blocking exclusive lock on the base directory.
// The returned function releases it; the lock file itself is never removed.
func (w *Workspace) Lock(ctx context.Context) (func(), error) {
	lockPath := w.Path(LockFilename)
	lock := flock.New(lockPath)

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	if !ok {
		return nil, ErrLocked
	}

	logger.DebugKV(ctx, "Workspace locked", "path", lockPath)

	return func() {
		if err := lock.Unlock(); err != nil {
			logger.WarnKV(ctx, "Unable to release workspace lock", "path", lockPath, "error", err)
		}
	}, nil
}

// Cleanup removes the named files, ignoring the ones that do not exist.
func (w *Workspace) Cleanup(ctx context.Context, names ...string) {
	for _, name := range names {
		target := w.Path(name)

		err := os.Remove(target)

		switch {
		case err == nil:
			logger.DebugKV(ctx, "Removed", "path", target)
		case errors.Is(err, os.ErrNotExist):
		default:
			logger.WarnKV(ctx, "Unable to remove file", "path", target, "error", err)
		}
	}
}
