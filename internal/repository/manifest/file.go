package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	domain "github.com/oshokin/course-submit/internal/domain/manifest"
)

// Repository defines persistence operations for a checksum manifest.
type Repository interface {
	Save(ctx context.Context, m *domain.Manifest) error
	Load(ctx context.Context) (*domain.Manifest, error)
	Remove(ctx context.Context) error
	Path() string
}

// FileRepository persists a manifest as a text file of fixed-width records.
type FileRepository struct {
	// path is the filesystem location of the manifest file.
	path string
}

// FilePermissions is the mode of a newly created manifest file.
const FilePermissions = 0o644

// ErrNotFound is returned when the manifest file does not exist.
var ErrNotFound = errors.New("manifest not found")

// NewFileRepository creates a repository that reads and writes the manifest at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the manifest file location.
func (r *FileRepository) Path() string {
	return r.path
}

// Save writes every record of m, replacing any previous file.
func (r *FileRepository) Save(_ context.Context, m *domain.Manifest) error {
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err := os.WriteFile(r.path, buf.Bytes(), FilePermissions); err != nil {
		return fmt.Errorf("write manifest file: %w", err)
	}

	return nil
}

// Load reads and parses the manifest file.
func (r *FileRepository) Load(_ context.Context) (*domain.Manifest, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("open manifest file: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	m, err := domain.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("decode manifest file: %w", err)
	}

	return m, nil
}

// Remove deletes the manifest file. A missing file is not an error.
func (r *FileRepository) Remove(_ context.Context) error {
	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove manifest file: %w", err)
	}

	return nil
}

// Exists reports whether the manifest file is present.
func (r *FileRepository) Exists() bool {
	info, err := os.Stat(r.path)

	return err == nil && info.Mode().IsRegular()
}
