package deploy

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/ddlrun/ddlrun/internal/changes"
)

// FilterSet evaluates configured CEL filter expressions against candidate
// files. Expressions see the repo-relative `path` and the change `kind`
// ("added", "modified", "renamed"). A candidate survives only if every
// filter returns true.
type FilterSet struct {
	programs []cel.Program
}

// NewFilterSet compiles the filter expressions. Compilation errors are
// configuration errors and abort before any file is touched.
func NewFilterSet(expressions []string) (*FilterSet, error) {
	env, err := cel.NewEnv(
		cel.Variable("path", cel.StringType),
		cel.Variable("kind", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %v", err)
	}

	programs := make([]cel.Program, 0, len(expressions))
	for i, expr := range expressions {
		ast, issues := env.Compile(expr)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("filter %d: CEL compilation error: %v", i, issues.Err())
		}
		program, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("filter %d: CEL program creation error: %v", i, err)
		}
		programs = append(programs, program)
	}

	return &FilterSet{programs: programs}, nil
}

// Matches reports whether the change passes every filter.
func (fs *FilterSet) Matches(c changes.Change) (bool, error) {
	if fs == nil {
		return true, nil
	}

	evalCtx := map[string]interface{}{
		"path": c.Path,
		"kind": c.Kind.String(),
	}

	for i, program := range fs.programs {
		result, _, err := program.Eval(evalCtx)
		if err != nil {
			return false, fmt.Errorf("filter %d evaluation failed: %v", i, err)
		}
		if result.Type() != types.BoolType {
			return false, fmt.Errorf("filter %d: CEL expression must return boolean, got %v", i, result.Type())
		}
		if !result.Value().(bool) {
			return false, nil
		}
	}

	return true, nil
}
