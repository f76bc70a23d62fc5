package manifest

// Status classifies what happened to one candidate path.
type Status int

const (
	// StatusIncluded means the file was hashed and belongs in the manifest.
	StatusIncluded Status = iota
	// StatusSkippedDirectory means the path is a directory.
	StatusSkippedDirectory
	// StatusSkippedUnreadable means the path could not be stat'ed, opened or read.
	StatusSkippedUnreadable
	// StatusSkippedTooLarge means the file is larger than MaxFileSize.
	StatusSkippedTooLarge
	// StatusSkippedIrregular means the path is neither a file nor a directory
	// (fifo, socket, device).
	StatusSkippedIrregular
)

// MaxFileSize is the largest file, in bytes, that is hashed into a manifest.
const MaxFileSize int64 = 1 << 20

// String returns a short human-readable status.
func (s Status) String() string {
	switch s {
	case StatusIncluded:
		return "included"
	case StatusSkippedDirectory:
		return "skipped: directory"
	case StatusSkippedUnreadable:
		return "skipped: unreadable"
	case StatusSkippedTooLarge:
		return "skipped: too large"
	case StatusSkippedIrregular:
		return "skipped: not a regular file"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of evaluating one candidate path.
// Hash is set only for StatusIncluded; Err records why a path was unreadable.
type Outcome struct {
	Path   string
	Status Status
	Size   int64
	Hash   string
	Err    error
}

// Included reports whether the outcome contributes a manifest entry.
func (o Outcome) Included() bool {
	return o.Status == StatusIncluded
}

// FromOutcomes builds a manifest from the included outcomes, keeping their order.
func FromOutcomes(outcomes []Outcome) *Manifest {
	m := New(len(outcomes))

	for _, o := range outcomes {
		if o.Included() {
			m.Set(o.Path, o.Hash)
		}
	}

	return m
}
