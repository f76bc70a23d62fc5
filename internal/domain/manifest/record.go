package manifest

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// PathFieldWidth is the minimum width of the right-justified path column.
	PathFieldWidth = 64

	// recordSeparator sits between the path column and the hash.
	recordSeparator = "  "

	// hashLength is the length of a hex encoded SHA-256 digest.
	hashLength = 64
)

// ErrMalformedRecord is returned by Parse for lines that are not manifest records.
var ErrMalformedRecord = errors.New("malformed manifest record")

// FormatRecord renders one manifest line without the terminator.
// Paths shorter than PathFieldWidth are padded with leading spaces; longer
// paths are written in full.
func FormatRecord(e Entry) string {
	return fmt.Sprintf("%*s%s%s", PathFieldWidth, e.Path, recordSeparator, e.Hash)
}

// WriteTo writes every entry as a record line in insertion order.
func (m *Manifest) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)

	var total int64

	for _, e := range m.Entries() {
		n, err := bw.WriteString(FormatRecord(e) + "\n")
		total += int64(n)

		if err != nil {
			return total, err
		}
	}

	return total, bw.Flush()
}

// ParseRecord splits a record line into its entry.
func ParseRecord(line string) (Entry, error) {
	line = strings.TrimRight(line, "\r\n")

	sep := strings.LastIndex(line, recordSeparator)
	if sep < 0 {
		return Entry{}, fmt.Errorf("%w: no separator in %q", ErrMalformedRecord, line)
	}

	path := strings.TrimLeft(line[:sep], " ")
	hash := line[sep+len(recordSeparator):]

	if path == "" {
		return Entry{}, fmt.Errorf("%w: empty path in %q", ErrMalformedRecord, line)
	}

	if !isDigest(hash) {
		return Entry{}, fmt.Errorf("%w: bad digest %q", ErrMalformedRecord, hash)
	}

	return Entry{Path: path, Hash: hash}, nil
}

// Parse reads records written by WriteTo. Blank lines are ignored.
func Parse(r io.Reader) (*Manifest, error) {
	m := New(0)
	scanner := bufio.NewScanner(r)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		e, err := ParseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		m.Set(e.Path, e.Hash)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan manifest: %w", err)
	}

	return m, nil
}

func isDigest(s string) bool {
	if len(s) != hashLength || strings.ToLower(s) != s {
		return false
	}

	_, err := hex.DecodeString(s)

	return err == nil
}
