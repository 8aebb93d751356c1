package deploy

import (
	"testing"

	"github.com/ddlrun/ddlrun/internal/changes"
)

func TestFilterSetMatches(t *testing.T) {
	filters, err := NewFilterSet([]string{
		`path.startsWith("views/")`,
		`kind != "renamed"`,
	})
	if err != nil {
		t.Fatalf("failed to compile filters: %v", err)
	}

	tests := []struct {
		name   string
		change changes.Change
		want   bool
	}{
		{"matches all filters", changes.Change{Path: "views/ddls/a.sql", Kind: changes.Modified}, true},
		{"wrong prefix", changes.Change{Path: "scripts/a.sql", Kind: changes.Modified}, false},
		{"excluded kind", changes.Change{Path: "views/ddls/a.sql", Kind: changes.Renamed}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := filters.Matches(tt.change)
			if err != nil {
				t.Fatalf("failed to evaluate filters: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNilFilterSetMatchesEverything(t *testing.T) {
	var filters *FilterSet
	got, err := filters.Matches(changes.Change{Path: "anything.sql", Kind: changes.Added})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("nil filter set should match everything")
	}
}

func TestNewFilterSetCompilationError(t *testing.T) {
	if _, err := NewFilterSet([]string{`path.`}); err == nil {
		t.Error("expected compilation error, got nil")
	}
}

func TestFilterSetNonBooleanExpression(t *testing.T) {
	filters, err := NewFilterSet([]string{`path`})
	if err != nil {
		t.Fatalf("failed to compile filters: %v", err)
	}
	if _, err := filters.Matches(changes.Change{Path: "a.sql", Kind: changes.Added}); err == nil {
		t.Error("expected error for non-boolean expression, got nil")
	}
}
