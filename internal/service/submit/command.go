package submit

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/oshokin/course-submit/internal/config"
	"github.com/oshokin/course-submit/internal/domain/quiz"
	"github.com/oshokin/course-submit/internal/logger"
	manifestrepo "github.com/oshokin/course-submit/internal/repository/manifest"
	"github.com/oshokin/course-submit/internal/service/checksum"
	"github.com/oshokin/course-submit/internal/submission"
	"github.com/oshokin/course-submit/internal/version"
	"github.com/oshokin/course-submit/internal/workspace"
)

// Options contains inputs for the submit entry point.
type Options struct {
	// ConfigPath is an optional path to the YAML settings.
	ConfigPath string
	// Dir is the base directory quiz directories are relative to.
	Dir string
	// Quiz is the catalog name of the quiz to submit.
	Quiz string
	// OutboxDir overrides the configured outbox directory.
	OutboxDir string
	// LogLevel overrides the configured log level.
	LogLevel string
	// Sink overrides the outbox sink.
	Sink submission.Sink
}

var errQuizRequired = errors.New("quiz must be provided")

// submitter holds the state of a single submission.
type submitter struct {
	cfg       *config.Config
	quiz      *quiz.Quiz
	workspace *workspace.Workspace
	manifests *manifestrepo.FileRepository
	sink      submission.Sink
}

// Run submits the files of one quiz together with a best-effort checksum manifest.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "course-submit")

	s, err := newSubmitter(ctx, opts)
	if err != nil {
		return err
	}

	ctx = logger.WithKV(ctx, "quiz", s.quiz.Name)

	unlock, err := s.workspace.Lock(ctx)
	if err != nil {
		return err
	}

	defer unlock()

	if err = s.Run(ctx); err != nil {
		return fmt.Errorf("submit %s: %w", s.quiz.Name, err)
	}

	return nil
}

// newSubmitter loads settings and resolves the quiz and its directory.
func newSubmitter(ctx context.Context, opts *Options) (*submitter, error) {
	if opts.Quiz == "" {
		return nil, errQuizRequired
	}

	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if err = logger.SetLevelByName(cmp.Or(opts.LogLevel, cfg.LogLevel)); err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "Starting", version.Fields()...)

	q, err := cfg.Quizzes.Lookup(opts.Quiz)
	if err != nil {
		return nil, err
	}

	root := workspace.New(opts.Dir)

	ws := root.Sub(q.WorkDir())
	if err = ws.Check(); err != nil {
		return nil, err
	}

	sink := opts.Sink
	if sink == nil {
		outbox := cmp.Or(opts.OutboxDir, cfg.OutboxDir)
		if !filepath.IsAbs(outbox) {
			outbox = root.Path(outbox)
		}

		sink = submission.NewOutbox(outbox)
	}

	return &submitter{
		cfg:       cfg,
		quiz:      q,
		workspace: ws,
		manifests: manifestrepo.NewFileRepository(ws.Path(cfg.ManifestFile)),
		sink:      sink,
	}, nil
}

// Run resolves the file list, attaches the manifest and hands everything to the sink.
// The manifest and the staging archive are removed whatever the outcome.
func (s *submitter) Run(ctx context.Context) error {
	files, err := s.quiz.ResolveFiles(s.workspace.IsFile)
	if err != nil {
		return err
	}

	if err = s.manifests.Remove(ctx); err != nil {
		logger.WarnKV(ctx, "Unable to remove stale manifest", "error", err)
	}

	defer s.workspace.Cleanup(ctx, s.cfg.ManifestFile, submission.ArchiveFilename)

	if err = s.writeManifest(ctx); err != nil {
		logger.WarnKV(ctx, "Submitting without checksum manifest", "error", err)
	}

	if s.manifests.Exists() {
		files = append(files, s.cfg.ManifestFile)
	}

	logger.InfoKV(ctx, "Submitting", "course", s.cfg.Course, "assignment", s.quiz.Assignment, "files", len(files))

	receipt, err := s.sink.Submit(ctx, &submission.Request{
		Course:     s.cfg.Course,
		Assignment: s.quiz.Assignment,
		BaseDir:    s.workspace.Dir(),
		Files:      files,
	})
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Submission accepted", "id", receipt.ID)

	return nil
}

// writeManifest enumerates the quiz candidates, hashes them and writes the manifest file.
func (s *submitter) writeManifest(ctx context.Context) error {
	candidates, err := s.workspace.Candidates(s.quiz.CandidatePatterns())
	if err != nil {
		return fmt.Errorf("enumerate candidates: %w", err)
	}

	m := checksum.NewBuilder(s.workspace.Dir()).ComputeChecksums(ctx, candidates)

	if err = s.manifests.Save(ctx, m); err != nil {
		return err
	}

	logger.DebugKV(ctx, "Checksum manifest written", "path", s.manifests.Path(), "entries", m.Len())

	return nil
}
