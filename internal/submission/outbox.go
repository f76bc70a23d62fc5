package submission

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/oshokin/course-submit/internal/logger"
	"github.com/oshokin/course-submit/internal/service/checksum"
)

const (
	// ArchiveFilename is the staging archive written next to the submitted files.
	ArchiveFilename = "student.zip"

	outboxDirPermissions  = 0o755
	outboxFilePermissions = 0o644
)

// archiveTime is stamped on every archive entry so equal inputs give equal archives.
//
//nolint:gochecknoglobals // Constant value, time.Time cannot be a const.
var archiveTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Outbox is a Sink that stores submissions in a local directory: a zip
// archive of the files and a protobuf JSON receipt per submission.
type Outbox struct {
	dir   string
	now   func() time.Time
	newID func() string
}

// OutboxOption configures an Outbox.
type OutboxOption func(*Outbox)

// WithClock overrides the receipt timestamp source.
func WithClock(now func() time.Time) OutboxOption {
	return func(o *Outbox) {
		o.now = now
	}
}

// WithIDGenerator overrides the submission id source.
func WithIDGenerator(newID func() string) OutboxOption {
	return func(o *Outbox) {
		o.newID = newID
	}
}

// NewOutbox returns an outbox sink writing into dir.
func NewOutbox(dir string, opts ...OutboxOption) *Outbox {
	o := &Outbox{
		dir:   filepath.Clean(dir),
		now:   time.Now,
		newID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Dir returns the outbox directory.
func (o *Outbox) Dir() string {
	return o.dir
}

// Submit packs the request files into ArchiveFilename inside the base
// directory, then stores a copy and a receipt in the outbox.
func (o *Outbox) Submit(ctx context.Context, req *Request) (*Receipt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	receipt := &Receipt{
		ID:         o.newID(),
		Course:     req.Course,
		Assignment: req.Assignment,
		CreatedAt:  o.now().UTC(),
		Files:      make([]FileInfo, 0, len(req.Files)),
	}

	archive, err := buildArchive(req, receipt)
	if err != nil {
		return nil, err
	}

	staging := filepath.Join(req.BaseDir, ArchiveFilename)
	if err = os.WriteFile(staging, archive, outboxFilePermissions); err != nil {
		return nil, fmt.Errorf("write %s: %w", ArchiveFilename, err)
	}

	if err = os.MkdirAll(o.dir, outboxDirPermissions); err != nil {
		return nil, fmt.Errorf("create outbox: %w", err)
	}

	stem := fmt.Sprintf("%s-%s-%s", req.Course, req.Assignment, receipt.ID)
	receipt.Archive = filepath.Join(o.dir, stem+".zip")

	if err = os.WriteFile(receipt.Archive, archive, outboxFilePermissions); err != nil {
		return nil, fmt.Errorf("store archive: %w", err)
	}

	if err = writeReceipt(filepath.Join(o.dir, stem+".json"), receipt); err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Submission stored",
		"course", receipt.Course,
		"assignment", receipt.Assignment,
		"files", len(receipt.Files),
		"size", humanize.IBytes(uint64(receipt.TotalSize())), //nolint:gosec // Sizes are never negative.
		"archive", receipt.Archive,
	)

	return receipt, nil
}

// buildArchive zips the request files in order and records them on the receipt.
func buildArchive(req *Request, receipt *Receipt) ([]byte, error) {
	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)

	for _, name := range req.Files {
		info, err := addToArchive(zw, req.BaseDir, name)
		if err != nil {
			return nil, err
		}

		receipt.Files = append(receipt.Files, info)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finish archive: %w", err)
	}

	return buf.Bytes(), nil
}

func addToArchive(zw *zip.Writer, baseDir, name string) (FileInfo, error) {
	contents, err := os.ReadFile(filepath.Join(baseDir, name))
	if err != nil {
		return FileInfo{}, fmt.Errorf("read %s: %w", name, err)
	}

	header := &zip.FileHeader{
		Name:     filepath.ToSlash(name),
		Method:   zip.Deflate,
		Modified: archiveTime,
	}
	header.SetMode(outboxFilePermissions)

	w, err := zw.CreateHeader(header)
	if err != nil {
		return FileInfo{}, fmt.Errorf("add %s: %w", name, err)
	}

	if _, err = io.Copy(w, bytes.NewReader(contents)); err != nil {
		return FileInfo{}, fmt.Errorf("compress %s: %w", name, err)
	}

	digest, err := checksum.HashReader(bytes.NewReader(contents), checksum.DefaultChunkSize)
	if err != nil {
		return FileInfo{}, fmt.Errorf("hash %s: %w", name, err)
	}

	return FileInfo{
		Path:   header.Name,
		Size:   int64(len(contents)),
		SHA256: digest,
	}, nil
}
