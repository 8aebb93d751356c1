// Package changes computes the set of files touched between two revisions,
// classified by change kind and restricted to a configured glob.
package changes

import (
	"context"

	"github.com/bmatcuk/doublestar/v4"
)

// Kind classifies how a file changed between the base and head revisions.
type Kind int

const (
	Added Kind = iota
	Modified
	Renamed
	Deleted
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Renamed:
		return "renamed"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change is a single classified file difference. Path is relative to the
// repository root. For renames, Path is the new location and From the old one.
type Change struct {
	Path string
	Kind Kind
	From string
}

// ChangeSet is an ordered collection of changes with dedupe-by-path
// semantics. Order is whatever the underlying detector listed; callers must
// not assume it is sorted.
type ChangeSet struct {
	changes []Change
	seen    map[string]struct{}
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{seen: make(map[string]struct{})}
}

// Add appends a change unless its path was already recorded. It reports
// whether the change was kept. A renamed-and-edited file arrives as a single
// rename entry from the detectors, but Add also guards against upstream
// double listing.
func (cs *ChangeSet) Add(c Change) bool {
	if _, dup := cs.seen[c.Path]; dup {
		return false
	}
	cs.seen[c.Path] = struct{}{}
	cs.changes = append(cs.changes, c)
	return true
}

// Changes returns all recorded changes in listing order.
func (cs *ChangeSet) Changes() []Change {
	return cs.changes
}

// Len returns the number of recorded changes.
func (cs *ChangeSet) Len() int {
	return len(cs.changes)
}

// Detector computes the ChangeSet between two revisions. Implementations
// restrict the result to their configured glob before returning it.
type Detector interface {
	Changes(ctx context.Context, base, head string) (*ChangeSet, error)
}

// matchGlob reports whether a repo-relative path matches the pattern.
// Patterns use doublestar syntax, e.g. "views/ddls/**/*.sql".
func matchGlob(pattern, path string) bool {
	if pattern == "" {
		return true
	}
	ok, err := doublestar.Match(pattern, path)
	if err != nil {
		return false
	}
	return ok
}
