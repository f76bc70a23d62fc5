package quiz

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"sort"
	"strings"
)

var (
	// ErrUnknownQuiz is returned by Lookup for names missing from the catalog.
	ErrUnknownQuiz = errors.New("unknown quiz")
	// ErrNoReadme is returned when none of the readme candidates exists.
	ErrNoReadme = errors.New("there is no valid student readme file to submit")
	// ErrInvalidQuiz is returned by Validate for incomplete definitions.
	ErrInvalidQuiz = errors.New("invalid quiz definition")
)

// DefaultPatterns lists the candidate globs used for the checksum manifest
// when a quiz does not declare its own: the quiz directory and its parent.
//
//nolint:gochecknoglobals // Read-only default, copied before use.
var DefaultPatterns = []string{"*", "../*"}

// Quiz describes one submission target.
type Quiz struct {
	// Name is the catalog key, filled in by Lookup.
	Name string `yaml:"-"`
	// Assignment is the identifier passed to the submission sink.
	Assignment string `yaml:"assignment"`
	// Dir is the working directory of the quiz, relative to the base directory.
	Dir string `yaml:"dir"`
	// Files is the fixed list of files to submit, relative to Dir.
	Files []string `yaml:"files,omitempty"`
	// Readme lists candidate readme files; those that exist are submitted
	// instead of Files.
	Readme []string `yaml:"readme,omitempty"`
	// Patterns are the globs enumerating checksum candidates, relative to Dir.
	Patterns []string `yaml:"patterns,omitempty"`
}

// Validate checks the quiz has an assignment and something to submit.
func (q *Quiz) Validate() error {
	if q == nil {
		return fmt.Errorf("%w: nil quiz", ErrInvalidQuiz)
	}

	if strings.TrimSpace(q.Assignment) == "" {
		return fmt.Errorf("%w: %q has no assignment", ErrInvalidQuiz, q.Name)
	}

	if len(q.Files) == 0 && len(q.Readme) == 0 {
		return fmt.Errorf("%w: %q has neither files nor readme candidates", ErrInvalidQuiz, q.Name)
	}

	if path.IsAbs(q.Dir) {
		return fmt.Errorf("%w: %q dir must be relative", ErrInvalidQuiz, q.Name)
	}

	return nil
}

// WorkDir returns the quiz directory, "." when unset.
func (q *Quiz) WorkDir() string {
	if q.Dir == "" {
		return "."
	}

	return q.Dir
}

// CandidatePatterns returns the manifest globs of the quiz.
func (q *Quiz) CandidatePatterns() []string {
	if len(q.Patterns) == 0 {
		return slices.Clone(DefaultPatterns)
	}

	return slices.Clone(q.Patterns)
}

// ResolveFiles returns the files to submit. Readme quizzes submit the
// candidates for which isFile reports true, in declaration order.
func (q *Quiz) ResolveFiles(isFile func(name string) bool) ([]string, error) {
	if len(q.Readme) == 0 {
		return slices.Clone(q.Files), nil
	}

	files := make([]string, 0, len(q.Readme))

	for _, candidate := range q.Readme {
		if isFile(candidate) {
			files = append(files, candidate)
		}
	}

	if len(files) == 0 {
		return nil, ErrNoReadme
	}

	return files, nil
}

// Catalog maps quiz names to their definitions.
type Catalog map[string]*Quiz

// Lookup returns a copy of the named quiz.
func (c Catalog) Lookup(name string) (*Quiz, error) {
	q, ok := c[name]
	if !ok || q == nil {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownQuiz, name, strings.Join(c.Names(), ", "))
	}

	cloned := *q
	cloned.Name = name
	cloned.Files = slices.Clone(q.Files)
	cloned.Readme = slices.Clone(q.Readme)
	cloned.Patterns = slices.Clone(q.Patterns)

	return &cloned, nil
}

// Names returns the sorted quiz names.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Validate checks every quiz of the catalog.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: empty catalog", ErrInvalidQuiz)
	}

	for _, name := range c.Names() {
		q, err := c.Lookup(name)
		if err != nil {
			return err
		}

		if err = q.Validate(); err != nil {
			return err
		}
	}

	return nil
}
