// Package marker records pipeline outcomes as git tags. Tags are the only
// persisted state in the workflow; they are append-only and never rewritten,
// which makes them double as the audit trail.
package marker

import (
	"fmt"
)

// Kind classifies what happened to a tree description.
type Kind string

const (
	// Tested marks that the test framework was triggered for a description.
	Tested Kind = "test"
	// Blamed marks that at least one build error was attributed to a topic.
	// A blamed description must not be re-tested until fixed.
	Blamed Kind = "blame"
	// Reported marks that the build report was fetched and processed.
	Reported Kind = "report"
)

// ErrExists reports an attempt to write a marker that is already present.
var ErrExists = fmt.Errorf("marker already exists")

// ErrAlreadyHandled distinguishes a deliberate redundant-run no-op from a
// failure; callers map it to a distinct exit status.
var ErrAlreadyHandled = fmt.Errorf("already handled")

// Tagger is the slice of the git backend the store needs.
type Tagger interface {
	TagExists(name string) bool
	CreateTag(name string) error
}

// Store reads and writes run markers for tree descriptions.
type Store struct {
	git Tagger
}

// NewStore creates a marker store over the given tag backend.
func NewStore(git Tagger) *Store {
	return &Store{git: git}
}

// TagName returns the tag encoding a (kind, description) marker.
func TagName(kind Kind, description string) string {
	return string(kind) + "-" + description
}

// TagPrefixes returns the tag-name prefixes the store writes. Version
// queries (latest tag, describe) must exclude them: marker tags sit on
// integration tips and would otherwise shadow the release tags.
func TagPrefixes() []string {
	return []string{
		string(Tested) + "-",
		string(Blamed) + "-",
		string(Reported) + "-",
	}
}

// Has reports whether the marker is present.
func (s *Store) Has(kind Kind, description string) bool {
	return s.git.TagExists(TagName(kind, description))
}

// Mark writes a marker. Writing an existing marker returns ErrExists;
// markers are permanent once written.
func (s *Store) Mark(kind Kind, description string) error {
	name := TagName(kind, description)
	if s.git.TagExists(name) {
		return fmt.Errorf("%w: %s", ErrExists, name)
	}
	if err := s.git.CreateTag(name); err != nil {
		return fmt.Errorf("marking %s: %w", name, err)
	}
	return nil
}

// CheckTestGate decides whether a test run may start for a description.
// All three conditions must hold at once: a report exists, nothing was
// blamed, and the description has not been tested before. Violations are
// reported as ErrAlreadyHandled with the blocking condition named.
func (s *Store) CheckTestGate(description string) error {
	if !s.Has(Reported, description) {
		return fmt.Errorf("%w: no report processed for %s yet", ErrAlreadyHandled, description)
	}
	if s.Has(Blamed, description) {
		return fmt.Errorf("%w: %s has attributed build errors", ErrAlreadyHandled, description)
	}
	if s.Has(Tested, description) {
		return fmt.Errorf("%w: %s was already tested", ErrAlreadyHandled, description)
	}
	return nil
}
