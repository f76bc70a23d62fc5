package manifest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/course-submit/internal/domain/manifest"
)

const helloDigest = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

// TestFileRepository_NotFound verifies Load returns ErrNotFound for a missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.txt"))

	m, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, m)
	require.False(t, repo.Exists())

	// Removing a missing manifest is fine.
	require.NoError(t, repo.Remove(context.Background()))
}

// TestFileRepository_SaveLoad_Roundtrip ensures Save followed by Load returns the same entries.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sum19-cksum.txt")
	repo := NewFileRepository(path)

	want := domain.New(2)
	want.Set("a.txt", helloDigest)
	want.Set("../dfs-service.proto", strings.Repeat("0", 64))

	require.NoError(t, repo.Save(context.Background(), want))
	require.True(t, repo.Exists())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(raw), strings.Repeat(" ", 59)+"a.txt  "+helloDigest+"\n"))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want.Entries(), got.Entries())

	require.NoError(t, repo.Remove(context.Background()))

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestFileRepository_SaveOverwrites replaces an existing, longer file.
func TestFileRepository_SaveOverwrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sum19-cksum.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale\n", 100)), 0o600))

	repo := NewFileRepository(path)
	m := domain.New(1)
	m.Set("a.txt", helloDigest)

	require.NoError(t, repo.Save(context.Background(), m))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
}

// TestFileRepository_SaveFailure surfaces an unwritable destination.
func TestFileRepository_SaveFailure(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "no-such-dir", "sum.txt"))
	require.Error(t, repo.Save(context.Background(), domain.New(0)))
}
