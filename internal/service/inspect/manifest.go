package inspect

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/course-submit/internal/config"
	"github.com/oshokin/course-submit/internal/domain/manifest"
	"github.com/oshokin/course-submit/internal/domain/quiz"
	"github.com/oshokin/course-submit/internal/logger"
	manifestrepo "github.com/oshokin/course-submit/internal/repository/manifest"
	"github.com/oshokin/course-submit/internal/service/checksum"
	"github.com/oshokin/course-submit/internal/workspace"
)

// ManifestOptions contains inputs for the manifest inspection.
type ManifestOptions struct {
	// ConfigPath is an optional path to the YAML settings.
	ConfigPath string
	// Dir is the base directory.
	Dir string
	// Quiz selects the quiz directory and patterns; empty inspects Dir itself.
	Quiz string
	// Patterns overrides the candidate globs.
	Patterns []string
	// Write also writes the manifest file into the inspected directory.
	Write bool
	// LogLevel overrides the configured log level.
	LogLevel string
	// Out receives the rendered table, stdout when nil.
	Out io.Writer
}

// shortDigestLength is how much of a digest the table shows.
const shortDigestLength = 16

// Manifest renders the outcome of every checksum candidate, optionally
// writing the resulting manifest.
func Manifest(ctx context.Context, opts *ManifestOptions) error {
	ctx = logger.WithName(ctx, "manifest")

	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return err
	}

	if err = logger.SetLevelByName(cmp.Or(opts.LogLevel, cfg.LogLevel)); err != nil {
		return err
	}

	ws := workspace.New(opts.Dir)
	patterns := quiz.DefaultPatterns

	if opts.Quiz != "" {
		q, lookupErr := cfg.Quizzes.Lookup(opts.Quiz)
		if lookupErr != nil {
			return lookupErr
		}

		ws = ws.Sub(q.WorkDir())
		patterns = q.CandidatePatterns()
	}

	if len(opts.Patterns) > 0 {
		patterns = opts.Patterns
	}

	repo := manifestrepo.NewFileRepository(ws.Path(cfg.ManifestFile))

	// A previous manifest must not end up hashed into the new one.
	if opts.Write {
		if err = repo.Remove(ctx); err != nil {
			return err
		}
	}

	candidates, err := ws.Candidates(patterns)
	if err != nil {
		return fmt.Errorf("enumerate candidates: %w", err)
	}

	outcomes := checksum.NewBuilder(ws.Dir()).Report(ctx, candidates)

	if err = renderOutcomes(output(opts.Out), outcomes); err != nil {
		return err
	}

	if !opts.Write {
		return nil
	}

	if err = repo.Save(ctx, manifest.FromOutcomes(outcomes)); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Manifest written", "path", repo.Path())

	return nil
}

func renderOutcomes(out io.Writer, outcomes []manifest.Outcome) error {
	var (
		rows     = make([][]string, 0, len(outcomes))
		included int
	)

	for i, o := range outcomes {
		size := ""
		if o.Status != manifest.StatusSkippedUnreadable && o.Status != manifest.StatusSkippedDirectory {
			size = humanize.IBytes(uint64(max(o.Size, 0)))
		}

		if o.Included() {
			included++
		}

		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			o.Path,
			size,
			o.Status.String(),
			shortDigest(o.Hash),
		})
	}

	footer := fmt.Sprintf("%d of %d candidates included", included, len(outcomes))

	return renderTable(
		out,
		[]string{"#", "Path", "Size", "Status", "SHA-256"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
		footer,
	)
}

func shortDigest(hash string) string {
	if len(hash) <= shortDigestLength {
		return hash
	}

	return hash[:shortDigestLength] + "..."
}

func output(out io.Writer) io.Writer {
	if out == nil {
		return os.Stdout
	}

	return out
}
