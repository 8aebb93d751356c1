package deploy

import (
	"github.com/ddlrun/ddlrun/internal/changes"
)

// Candidate is a changed file eligible for execution.
type Candidate struct {
	Path string
	Kind changes.Kind
}

// BuildCandidates flattens a ChangeSet into the ordered candidate list:
// added, modified and renamed files in listing order, deduplicated by path,
// deletions excluded. Filters may be nil.
//
// The order is whatever the change detector listed. It is deterministic for
// a fixed revision range but not guaranteed lexical, and the executor runs
// files in exactly this order.
func BuildCandidates(cs *changes.ChangeSet, filters *FilterSet) ([]Candidate, error) {
	var candidates []Candidate
	seen := make(map[string]struct{})

	for _, change := range cs.Changes() {
		switch change.Kind {
		case changes.Added, changes.Modified, changes.Renamed:
		default:
			continue
		}

		// ChangeSet already dedupes by path, but the builder must not
		// rely on that.
		if _, dup := seen[change.Path]; dup {
			continue
		}

		match, err := filters.Matches(change)
		if err != nil {
			return nil, err
		}
		if !match {
			continue
		}

		seen[change.Path] = struct{}{}
		candidates = append(candidates, Candidate{Path: change.Path, Kind: change.Kind})
	}

	return candidates, nil
}
