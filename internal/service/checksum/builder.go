package checksum

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/oshokin/course-submit/internal/domain/manifest"
	"github.com/oshokin/course-submit/internal/logger"
)

// Builder turns candidate paths into a checksum manifest.
// Paths are resolved against the base directory; manifest keys keep the
// candidate spelling.
type Builder struct {
	baseDir   string
	chunkSize int
	maxSize   int64
}

// Option configures a Builder.
type Option func(*Builder)

// WithChunkSize sets the read buffer size. The digest does not depend on it.
func WithChunkSize(size int) Option {
	return func(b *Builder) {
		if size > 0 {
			b.chunkSize = size
		}
	}
}

// NewBuilder returns a Builder resolving relative candidates against baseDir.
func NewBuilder(baseDir string, opts ...Option) *Builder {
	if baseDir == "" {
		baseDir = "."
	}

	b := &Builder{
		baseDir:   baseDir,
		chunkSize: DefaultChunkSize,
		maxSize:   manifest.MaxFileSize,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Evaluate classifies one candidate path and hashes it when it qualifies.
func (b *Builder) Evaluate(path string) manifest.Outcome {
	outcome := manifest.Outcome{Path: path}

	info, err := os.Stat(b.resolve(path))
	if err != nil {
		outcome.Status = manifest.StatusSkippedUnreadable
		outcome.Err = err

		return outcome
	}

	outcome.Size = info.Size()

	switch {
	case info.IsDir():
		outcome.Status = manifest.StatusSkippedDirectory
		return outcome
	case !info.Mode().IsRegular():
		outcome.Status = manifest.StatusSkippedIrregular
		return outcome
	case info.Size() > b.maxSize:
		outcome.Status = manifest.StatusSkippedTooLarge
		return outcome
	}

	hash, size, err := b.hash(path)

	switch {
	case errors.Is(err, errLimitExceeded):
		outcome.Status = manifest.StatusSkippedTooLarge
		outcome.Size = size
	case err != nil:
		outcome.Status = manifest.StatusSkippedUnreadable
		outcome.Err = err
	default:
		outcome.Status = manifest.StatusIncluded
		outcome.Hash = hash
		outcome.Size = size
	}

	return outcome
}

// Report evaluates every path in input order.
func (b *Builder) Report(ctx context.Context, paths []string) []manifest.Outcome {
	outcomes := make([]manifest.Outcome, 0, len(paths))

	for _, path := range paths {
		outcome := b.Evaluate(path)
		if !outcome.Included() {
			logger.DebugKV(ctx, "Candidate skipped", "path", path, "status", outcome.Status, "error", outcome.Err)
		}

		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// ComputeChecksums returns a manifest of the paths that passed every filter,
// in input order. Individual failures only shrink the result.
func (b *Builder) ComputeChecksums(ctx context.Context, paths []string) *manifest.Manifest {
	m := manifest.FromOutcomes(b.Report(ctx, paths))

	logger.DebugKV(ctx, "Checksums computed", "candidates", len(paths), "included", m.Len())

	return m
}

// hash reads the file at path, giving up once it grows past maxSize.
func (b *Builder) hash(path string) (string, int64, error) {
	f, err := os.Open(b.resolve(path))
	if err != nil {
		return "", 0, err
	}

	defer func() {
		_ = f.Close()
	}()

	return hashReader(f, b.chunkSize, b.maxSize)
}

func (b *Builder) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(b.baseDir, path)
}
