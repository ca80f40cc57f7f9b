package decisions

import (
	"fmt"
	"strings"
)

// Set is an ordered collection of decisions enforcing title uniqueness
// within a single source document. Uniqueness is checked on the trimmed
// title; the whitespace-collapsing normalization used for cross-source
// matching is the reconciler's concern.
type Set struct {
	decisions []Decision
	byTitle   map[string]int
}

// NewSet creates an empty decision set.
func NewSet() *Set {
	return &Set{byTitle: make(map[string]int)}
}

// Add appends a decision to the set. Adding a decision whose trimmed
// title duplicates an earlier one is an error, not an overwrite: a
// duplicate within one source means the author wrote two decisions
// with the same name.
func (s *Set) Add(d Decision) error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return fmt.Errorf("empty title")
	}
	if prior, ok := s.byTitle[title]; ok {
		return fmt.Errorf("title %q duplicates decision %d", title, prior+1)
	}
	d.Title = title
	s.byTitle[title] = len(s.decisions)
	s.decisions = append(s.decisions, d)
	return nil
}

// List returns the decisions in insertion order.
func (s *Set) List() []Decision {
	return s.decisions
}

// Len returns the number of decisions in the set.
func (s *Set) Len() int {
	return len(s.decisions)
}

// Get returns the decision with the given trimmed title, if present.
func (s *Set) Get(title string) (Decision, bool) {
	index, ok := s.byTitle[strings.TrimSpace(title)]
	if !ok {
		return Decision{}, false
	}
	return s.decisions[index], true
}
