package submit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/course-submit/internal/config"
	"github.com/oshokin/course-submit/internal/domain/manifest"
	"github.com/oshokin/course-submit/internal/domain/quiz"
	"github.com/oshokin/course-submit/internal/submission"
	"github.com/oshokin/course-submit/internal/workspace"
)

const helloDigest = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

// recordingSink captures the request and a snapshot of the manifest at submit time.
type recordingSink struct {
	request  *submission.Request
	manifest *manifest.Manifest
	err      error
}

func (r *recordingSink) Submit(_ context.Context, req *submission.Request) (*submission.Receipt, error) {
	r.request = req

	if f, err := os.Open(filepath.Join(req.BaseDir, config.DefaultManifestFilename)); err == nil {
		r.manifest, _ = manifest.Parse(f)
		_ = f.Close()
	}

	if r.err != nil {
		return nil, r.err
	}

	return &submission.Receipt{ID: "recorded"}, nil
}

// setupProject lays out a part1 quiz directory with its parent proto file.
func setupProject(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	part1 := filepath.Join(root, "part1")
	require.NoError(t, os.Mkdir(part1, 0o755))

	q, err := quiz.DefaultCatalog().Lookup("part1")
	require.NoError(t, err)

	for _, name := range q.Files {
		require.NoError(t, os.WriteFile(filepath.Join(part1, name), []byte("// "+name), 0o600))
	}

	require.NoError(t, os.WriteFile(filepath.Join(part1, "notes.txt"), []byte("hello"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "dfs-service.proto"), []byte("syntax"), 0o600))

	return root
}

// TestRun_SubmitsFilesWithManifest appends the manifest and removes it afterwards.
func TestRun_SubmitsFilesWithManifest(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	sink := new(recordingSink)

	err := Run(context.Background(), &Options{
		ConfigPath: filepath.Join(root, "missing.yaml"),
		Dir:        root,
		Quiz:       "part1",
		Sink:       sink,
	})
	require.NoError(t, err)

	req := sink.request
	require.NotNil(t, req)
	require.Equal(t, quiz.DefaultCourse, req.Course)
	require.Equal(t, "pr4_grpc", req.Assignment)
	require.Equal(t, filepath.Join(root, "part1"), req.BaseDir)
	require.Len(t, req.Files, 8)
	require.Equal(t, config.DefaultManifestFilename, req.Files[7])

	require.NotNil(t, sink.manifest)

	hash, ok := sink.manifest.Get("notes.txt")
	require.True(t, ok)
	require.Equal(t, helloDigest, hash)

	_, ok = sink.manifest.Get("../dfs-service.proto")
	require.True(t, ok)

	for _, path := range sink.manifest.Paths() {
		require.NotEqual(t, "../part1", path)
		require.False(t, strings.HasSuffix(path, workspace.LockFilename))
	}

	// Manifest is gone, the lock file is never submitted.
	_, err = os.Stat(filepath.Join(root, "part1", config.DefaultManifestFilename))
	require.ErrorIs(t, err, os.ErrNotExist)
	require.NotContains(t, req.Files, workspace.LockFilename)
}

// TestRun_ProceedsWithoutManifest submits the fixed files when the manifest cannot be written.
func TestRun_ProceedsWithoutManifest(t *testing.T) {
	t.Parallel()

	root := setupProject(t)

	// A non-empty directory squatting on the manifest name blocks both removal and writing.
	blocker := filepath.Join(root, "part1", config.DefaultManifestFilename)
	require.NoError(t, os.MkdirAll(filepath.Join(blocker, "keep"), 0o755))

	sink := new(recordingSink)

	err := Run(context.Background(), &Options{
		ConfigPath: filepath.Join(root, "missing.yaml"),
		Dir:        root,
		Quiz:       "part1",
		Sink:       sink,
	})
	require.NoError(t, err)
	require.Len(t, sink.request.Files, 7)
	require.NotContains(t, sink.request.Files, config.DefaultManifestFilename)
}

// TestRun_SinkFailure returns the sink error and still cleans up.
func TestRun_SinkFailure(t *testing.T) {
	t.Parallel()

	root := setupProject(t)
	errRejected := errors.New("rejected")
	sink := &recordingSink{err: errRejected}

	err := Run(context.Background(), &Options{
		ConfigPath: filepath.Join(root, "missing.yaml"),
		Dir:        root,
		Quiz:       "part1",
		Sink:       sink,
	})
	require.ErrorIs(t, err, errRejected)

	_, statErr := os.Stat(filepath.Join(root, "part1", config.DefaultManifestFilename))
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

// TestRun_Outbox goes through the real outbox sink and removes the staging archive.
func TestRun_Outbox(t *testing.T) {
	t.Parallel()

	root := setupProject(t)

	err := Run(context.Background(), &Options{
		ConfigPath: filepath.Join(root, "missing.yaml"),
		Dir:        root,
		Quiz:       "part1",
		OutboxDir:  "out",
	})
	require.NoError(t, err)

	receipts, err := filepath.Glob(filepath.Join(root, "out", "cs6200-pr4_grpc-*.json"))
	require.NoError(t, err)
	require.Len(t, receipts, 1)

	receipt, err := submission.ReadReceipt(receipts[0])
	require.NoError(t, err)
	require.Len(t, receipt.Files, 8)
	require.Equal(t, config.DefaultManifestFilename, receipt.Files[7].Path)

	_, err = os.Stat(filepath.Join(root, "part1", submission.ArchiveFilename))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestRun_Readme discovers readme files in the base directory.
func TestRun_Readme(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sink := new(recordingSink)
	opts := &Options{
		ConfigPath: filepath.Join(root, "missing.yaml"),
		Dir:        root,
		Quiz:       "readme",
		Sink:       sink,
	}

	err := Run(context.Background(), opts)
	require.ErrorIs(t, err, quiz.ErrNoReadme)
	require.Nil(t, sink.request)

	require.NoError(t, os.WriteFile(filepath.Join(root, "readme-student.md"), []byte("# notes"), 0o600))

	require.NoError(t, Run(context.Background(), opts))
	require.Equal(t, "pr4_readme", sink.request.Assignment)
	require.Equal(t, []string{"readme-student.md", config.DefaultManifestFilename}, sink.request.Files)
}

// TestRun_Errors covers missing quiz names, unknown quizzes and missing directories.
func TestRun_Errors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	configPath := filepath.Join(root, "missing.yaml")

	err := Run(context.Background(), &Options{ConfigPath: configPath, Dir: root})
	require.ErrorIs(t, err, errQuizRequired)

	err = Run(context.Background(), &Options{ConfigPath: configPath, Dir: root, Quiz: "part9"})
	require.ErrorIs(t, err, quiz.ErrUnknownQuiz)

	err = Run(context.Background(), &Options{ConfigPath: configPath, Dir: root, Quiz: "part2"})
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestRun_Locked refuses to run while another submission holds the directory.
func TestRun_Locked(t *testing.T) {
	t.Parallel()

	root := setupProject(t)

	unlock, err := workspace.New(filepath.Join(root, "part1")).Lock(context.Background())
	require.NoError(t, err)

	defer unlock()

	err = Run(context.Background(), &Options{
		ConfigPath: filepath.Join(root, "missing.yaml"),
		Dir:        root,
		Quiz:       "part1",
		Sink:       new(recordingSink),
	})
	require.ErrorIs(t, err, workspace.ErrLocked)
}
