package submission

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrInvalidRequest is returned for requests missing a course, assignment or files.
	ErrInvalidRequest = errors.New("invalid submission request")
	// ErrUnsafePath is returned for files outside the submission directory.
	ErrUnsafePath = errors.New("file is outside the submission directory")
)

// Sink accepts a submission: a course, an assignment and the files to send.
type Sink interface {
	Submit(ctx context.Context, req *Request) (*Receipt, error)
}

// Request is one submission.
type Request struct {
	// Course identifies the course.
	Course string
	// Assignment identifies the assignment within the course.
	Assignment string
	// BaseDir is the directory Files are relative to.
	BaseDir string
	// Files is the ordered list of files to transmit.
	Files []string
}

// FileInfo describes one transmitted file.
type FileInfo struct {
	Path   string
	Size   int64
	SHA256 string
}

// Receipt records an accepted submission.
type Receipt struct {
	ID         string
	Course     string
	Assignment string
	CreatedAt  time.Time
	Archive    string
	Files      []FileInfo
}

// TotalSize returns the sum of the submitted file sizes.
func (r *Receipt) TotalSize() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Size
	}

	return total
}

// Validate checks the request and normalizes its file names.
func (r *Request) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}

	if strings.TrimSpace(r.Course) == "" {
		return fmt.Errorf("%w: course is required", ErrInvalidRequest)
	}

	if strings.TrimSpace(r.Assignment) == "" {
		return fmt.Errorf("%w: assignment is required", ErrInvalidRequest)
	}

	if len(r.Files) == 0 {
		return fmt.Errorf("%w: no files", ErrInvalidRequest)
	}

	if r.BaseDir == "" {
		r.BaseDir = "."
	}

	for i, name := range r.Files {
		cleaned := filepath.Clean(name)
		if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, name)
		}

		r.Files[i] = cleaned
	}

	return nil
}
