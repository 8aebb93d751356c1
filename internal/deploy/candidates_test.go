package deploy

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ddlrun/ddlrun/internal/changes"
)

func changeSetOf(t *testing.T, items ...changes.Change) *changes.ChangeSet {
	t.Helper()
	cs := changes.NewChangeSet()
	for _, item := range items {
		cs.Add(item)
	}
	return cs
}

func TestBuildCandidatesExcludesDeletions(t *testing.T) {
	cs := changeSetOf(t,
		changes.Change{Path: "views/ddls/a.sql", Kind: changes.Modified},
		changes.Change{Path: "views/ddls/b.sql", Kind: changes.Added},
		changes.Change{Path: "views/ddls/c.sql", Kind: changes.Deleted},
	)

	candidates, err := BuildCandidates(cs, nil)
	if err != nil {
		t.Fatalf("failed to build candidates: %v", err)
	}

	want := []Candidate{
		{Path: "views/ddls/a.sql", Kind: changes.Modified},
		{Path: "views/ddls/b.sql", Kind: changes.Added},
	}
	if diff := cmp.Diff(want, candidates); diff != "" {
		t.Errorf("unexpected candidates (-want +got):\n%s", diff)
	}
}

func TestBuildCandidatesIncludesRenames(t *testing.T) {
	cs := changeSetOf(t,
		changes.Change{Path: "views/ddls/new.sql", Kind: changes.Renamed, From: "views/ddls/old.sql"},
	)

	candidates, err := BuildCandidates(cs, nil)
	if err != nil {
		t.Fatalf("failed to build candidates: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Path != "views/ddls/new.sql" {
		t.Errorf("expected the rename target as candidate, got %+v", candidates)
	}
}

func TestBuildCandidatesPreservesListingOrder(t *testing.T) {
	// Not sorted: the detector's listing order is the execution order.
	cs := changeSetOf(t,
		changes.Change{Path: "views/ddls/z.sql", Kind: changes.Added},
		changes.Change{Path: "views/ddls/a.sql", Kind: changes.Modified},
		changes.Change{Path: "views/ddls/m.sql", Kind: changes.Added},
	)

	candidates, err := BuildCandidates(cs, nil)
	if err != nil {
		t.Fatalf("failed to build candidates: %v", err)
	}

	var paths []string
	for _, c := range candidates {
		paths = append(paths, c.Path)
	}
	want := []string{"views/ddls/z.sql", "views/ddls/a.sql", "views/ddls/m.sql"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestBuildCandidatesEmptyChangeSet(t *testing.T) {
	candidates, err := BuildCandidates(changes.NewChangeSet(), nil)
	if err != nil {
		t.Fatalf("failed to build candidates: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates, got %+v", candidates)
	}
}

func TestBuildCandidatesAppliesFilters(t *testing.T) {
	cs := changeSetOf(t,
		changes.Change{Path: "views/ddls/a.sql", Kind: changes.Modified},
		changes.Change{Path: "views/ddls/b.sql", Kind: changes.Added},
	)

	filters, err := NewFilterSet([]string{`kind == "added"`})
	if err != nil {
		t.Fatalf("failed to compile filters: %v", err)
	}

	candidates, err := BuildCandidates(cs, filters)
	if err != nil {
		t.Fatalf("failed to build candidates: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Path != "views/ddls/b.sql" {
		t.Errorf("expected only the added file, got %+v", candidates)
	}
}
