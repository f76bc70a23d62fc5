package inspect

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/oshokin/course-submit/internal/config"
	"github.com/oshokin/course-submit/internal/domain/manifest"
	"github.com/oshokin/course-submit/internal/logger"
	manifestrepo "github.com/oshokin/course-submit/internal/repository/manifest"
	"github.com/oshokin/course-submit/internal/service/checksum"
	"github.com/oshokin/course-submit/internal/workspace"
)

// ErrMismatch is returned by Verify when any entry no longer matches the disk.
var ErrMismatch = errors.New("manifest does not match the files on disk")

// VerifyOptions contains inputs for manifest verification.
type VerifyOptions struct {
	// ConfigPath is an optional path to the YAML settings.
	ConfigPath string
	// Dir is the base directory a relative Path is resolved against.
	Dir string
	// Path is the manifest file, the configured manifest name when empty.
	// Its entries are relative to its directory.
	Path string
	// LogLevel overrides the configured log level.
	LogLevel string
	// Out receives the rendered table, stdout when nil.
	Out io.Writer
}

// VerifyResult is the verdict for one manifest entry.
type VerifyResult struct {
	Path     string
	Expected string
	Actual   string
	Status   string
}

// OK reports whether the entry still matches.
func (r VerifyResult) OK() bool {
	return r.Status == statusOK
}

const (
	statusOK       = "ok"
	statusMismatch = "mismatch"
)

// Verify re-hashes every entry of a manifest file and renders the verdicts.
func Verify(ctx context.Context, opts *VerifyOptions) error {
	ctx = logger.WithName(ctx, "verify")

	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return err
	}

	if err = logger.SetLevelByName(cmp.Or(opts.LogLevel, cfg.LogLevel)); err != nil {
		return err
	}

	path := cmp.Or(opts.Path, cfg.ManifestFile)
	if !filepath.IsAbs(path) {
		path = workspace.New(opts.Dir).Path(path)
	}

	results, err := VerifyFile(ctx, path)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(results))
	failed := 0

	for _, r := range results {
		if !r.OK() {
			failed++
		}

		rows = append(rows, []string{r.Path, r.Status, shortDigest(r.Expected), shortDigest(r.Actual)})
	}

	footer := fmt.Sprintf("%d of %d entries match", len(results)-failed, len(results))
	if err = renderTable(output(opts.Out), []string{"Path", "Status", "Expected", "Actual"}, rows, nil, footer); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d entries differ", ErrMismatch, failed, len(results))
	}

	return nil
}

// VerifyFile loads the manifest at path and checks each entry against the disk.
func VerifyFile(ctx context.Context, path string) ([]VerifyResult, error) {
	m, err := manifestrepo.NewFileRepository(path).Load(ctx)
	if err != nil {
		return nil, err
	}

	return VerifyManifest(checksum.NewBuilder(filepath.Dir(path)), m), nil
}

// VerifyManifest evaluates every entry of m with b.
func VerifyManifest(b *checksum.Builder, m *manifest.Manifest) []VerifyResult {
	results := make([]VerifyResult, 0, m.Len())

	for _, e := range m.Entries() {
		outcome := b.Evaluate(e.Path)

		r := VerifyResult{
			Path:     e.Path,
			Expected: e.Hash,
			Actual:   outcome.Hash,
		}

		switch {
		case !outcome.Included():
			r.Status = outcome.Status.String()
		case outcome.Hash != e.Hash:
			r.Status = statusMismatch
		default:
			r.Status = statusOK
		}

		results = append(results, r)
	}

	return results
}
