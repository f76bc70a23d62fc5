package checksum

import (
	"crypto"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	// Register SHA-256 for DefaultChecksumFunction.
	_ "crypto/sha256"
)

const (
	// DefaultChecksumFunction is the manifest hash. It is fixed for every entry.
	DefaultChecksumFunction crypto.Hash = crypto.SHA256

	// DefaultChunkSize is the read buffer used while hashing a file.
	DefaultChunkSize = 64 << 10
)

var (
	errHashUnavailable = errors.New("hash function unavailable")
	// errLimitExceeded is returned by hashReader when more than limit bytes were read.
	errLimitExceeded = errors.New("content exceeds size limit")
)

// HashReader returns the lowercase hex digest of everything r yields,
// reading chunkSize bytes at a time.
func HashReader(r io.Reader, chunkSize int) (string, error) {
	digest, _, err := hashReader(r, chunkSize, -1)

	return digest, err
}

// HashFile returns the lowercase hex digest of the file at path.
func HashFile(path string, chunkSize int) (string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	return HashReader(f, chunkSize)
}

// hashReader drains r in chunks until an empty read or EOF.
// A non-negative limit stops with errLimitExceeded once more than limit bytes were seen.
func hashReader(r io.Reader, chunkSize int, limit int64) (string, int64, error) {
	if !DefaultChecksumFunction.Available() {
		return "", 0, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	var (
		hasher = DefaultChecksumFunction.New()
		chunk  = make([]byte, chunkSize)
		total  int64
	)

	for {
		n, err := r.Read(chunk)
		if n > 0 {
			total += int64(n)
			if limit >= 0 && total > limit {
				return "", total, errLimitExceeded
			}

			// hash.Hash.Write never returns an error.
			_, _ = hasher.Write(chunk[:n])
		}

		if errors.Is(err, io.EOF) || (n == 0 && err == nil) {
			break
		}

		if err != nil {
			return "", total, fmt.Errorf("read: %w", err)
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), total, nil
}
