package submission

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const helloDigest = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

func newTestOutbox(t *testing.T) *Outbox {
	t.Helper()

	return NewOutbox(
		filepath.Join(t.TempDir(), "outbox"),
		WithClock(func() time.Time { return time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC) }),
		WithIDGenerator(func() string { return "fixed-id" }),
	)
}

// TestOutbox_Submit stores an archive and a receipt describing the files.
func TestOutbox_Submit(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "a.txt"), []byte("hello"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(base, "b.h"), []byte("#pragma once\n"), 0o600))

	outbox := newTestOutbox(t)

	receipt, err := outbox.Submit(context.Background(), &Request{
		Course:     "cs6200",
		Assignment: "pr4_grpc",
		BaseDir:    base,
		Files:      []string{"b.h", "./a.txt"},
	})
	require.NoError(t, err)
	require.Equal(t, "fixed-id", receipt.ID)
	require.Equal(t, filepath.Join(outbox.Dir(), "cs6200-pr4_grpc-fixed-id.zip"), receipt.Archive)
	require.Equal(t, []FileInfo{
		{Path: "b.h", Size: 13, SHA256: receipt.Files[0].SHA256},
		{Path: "a.txt", Size: 5, SHA256: helloDigest},
	}, receipt.Files)
	require.Equal(t, int64(18), receipt.TotalSize())

	// Staging archive sits next to the sources.
	_, err = os.Stat(filepath.Join(base, ArchiveFilename))
	require.NoError(t, err)

	zr, err := zip.OpenReader(receipt.Archive)
	require.NoError(t, err)

	defer func() {
		_ = zr.Close()
	}()

	require.Len(t, zr.File, 2)
	require.Equal(t, "b.h", zr.File[0].Name)
	require.Equal(t, "a.txt", zr.File[1].Name)

	rc, err := zr.File[1].Open()
	require.NoError(t, err)

	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "hello", string(content))

	loaded, err := ReadReceipt(filepath.Join(outbox.Dir(), "cs6200-pr4_grpc-fixed-id.json"))
	require.NoError(t, err)
	require.True(t, receipt.CreatedAt.Equal(loaded.CreatedAt))

	loaded.CreatedAt = receipt.CreatedAt
	require.Equal(t, receipt, loaded)
}

// TestOutbox_DeterministicArchive produces identical archives for identical input.
func TestOutbox_DeterministicArchive(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "a.txt"), []byte("hello"), 0o600))

	outbox := newTestOutbox(t)
	req := func() *Request {
		return &Request{Course: "c", Assignment: "a", BaseDir: base, Files: []string{"a.txt"}}
	}

	first, err := outbox.Submit(context.Background(), req())
	require.NoError(t, err)

	firstBytes, err := os.ReadFile(first.Archive)
	require.NoError(t, err)

	second, err := outbox.Submit(context.Background(), req())
	require.NoError(t, err)

	secondBytes, err := os.ReadFile(second.Archive)
	require.NoError(t, err)
	require.Equal(t, firstBytes, secondBytes)
}

// TestOutbox_MissingFile fails the submission and files nothing in the outbox.
func TestOutbox_MissingFile(t *testing.T) {
	t.Parallel()

	outbox := newTestOutbox(t)

	_, err := outbox.Submit(context.Background(), &Request{
		Course:     "cs6200",
		Assignment: "pr4_grpc",
		BaseDir:    t.TempDir(),
		Files:      []string{"dfslib-shared-p1.cpp"},
	})
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = os.Stat(outbox.Dir())
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestRequest_Validate rejects incomplete requests and paths escaping the base directory.
func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	cases := map[string]*Request{
		"nil":           nil,
		"no course":     {Assignment: "a", Files: []string{"x"}},
		"no assignment": {Course: "c", Files: []string{"x"}},
		"no files":      {Course: "c", Assignment: "a"},
	}
	for name, req := range cases {
		require.ErrorIs(t, req.Validate(), ErrInvalidRequest, name)
	}

	for _, name := range []string{"../secret", "/etc/passwd", "a/../../b"} {
		req := &Request{Course: "c", Assignment: "a", Files: []string{name}}
		require.ErrorIs(t, req.Validate(), ErrUnsafePath, name)
	}

	req := &Request{Course: "c", Assignment: "a", Files: []string{"./dir/../x.c"}}
	require.NoError(t, req.Validate())
	require.Equal(t, []string{"x.c"}, req.Files)
	require.Equal(t, ".", req.BaseDir)
}
