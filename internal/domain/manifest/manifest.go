package manifest

import "slices"

// Entry is one (path, hash) pair of a manifest.
type Entry struct {
	// Path is the file path relative to the directory the manifest describes.
	Path string
	// Hash is the lowercase hexadecimal SHA-256 digest of the file content.
	Hash string
}

// Manifest is an ordered mapping from file path to content hash.
// Iteration order is insertion order. The zero value is ready to use.
type Manifest struct {
	entries []Entry
	index   map[string]int
}

// New returns an empty manifest with room for n entries.
func New(n int) *Manifest {
	return &Manifest{
		entries: make([]Entry, 0, n),
		index:   make(map[string]int, n),
	}
}

// Set binds path to hash. An existing path keeps its position.
func (m *Manifest) Set(path, hash string) {
	if m.index == nil {
		m.index = make(map[string]int)
	}

	if i, ok := m.index[path]; ok {
		m.entries[i].Hash = hash
		return
	}

	m.index[path] = len(m.entries)
	m.entries = append(m.entries, Entry{Path: path, Hash: hash})
}

// Get returns the hash bound to path.
func (m *Manifest) Get(path string) (string, bool) {
	if m == nil {
		return "", false
	}

	i, ok := m.index[path]
	if !ok {
		return "", false
	}

	return m.entries[i].Hash, true
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}

	return len(m.entries)
}

// Entries returns a copy of the entries in insertion order.
func (m *Manifest) Entries() []Entry {
	if m == nil {
		return nil
	}

	return slices.Clone(m.entries)
}

// Paths returns the manifest keys in insertion order.
func (m *Manifest) Paths() []string {
	paths := make([]string, 0, m.Len())
	for _, e := range m.Entries() {
		paths = append(paths, e.Path)
	}

	return paths
}
