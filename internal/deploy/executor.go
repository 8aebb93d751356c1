package deploy

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ddlrun/ddlrun/internal/errors"
)

// RunStatus is the terminal state of a run.
type RunStatus int

const (
	StatusSkipped RunStatus = iota
	StatusAllSucceeded
	StatusHaltedOnFailure
	StatusCancelled
)

func (s RunStatus) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusAllSucceeded:
		return "all_succeeded"
	case StatusHaltedOnFailure:
		return "halted_on_failure"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome is the result of invoking the query command on a single file.
type Outcome struct {
	Path      string
	Success   bool
	ExitCode  int
	Error     error
	StartTime time.Time
	EndTime   time.Time
}

// RunResult aggregates a whole run. On failure, FailedPath and ExitCode
// identify the offending file; files after it were never attempted.
type RunResult struct {
	Status     RunStatus
	Outcomes   []Outcome
	FailedPath string
	ExitCode   int
	StartTime  time.Time
	EndTime    time.Time
}

// ExecutorOptions configures the executor.
type ExecutorOptions struct {
	DryRun bool
	Output io.Writer // defaults to os.Stdout
}

// Executor runs candidate files through a QueryRunner one at a time, in
// list order, halting on the first failure. SQL files frequently depend on
// earlier files in the same batch, so sequential fail-fast execution is a
// correctness requirement here, not a simplification.
type Executor struct {
	runner QueryRunner
	target Target
	dryRun bool
	out    io.Writer
}

func NewExecutor(runner QueryRunner, target Target, opts ExecutorOptions) *Executor {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	return &Executor{
		runner: runner,
		target: target,
		dryRun: opts.DryRun,
		out:    out,
	}
}

// Run executes the candidate list. The returned error is non-nil exactly
// when the result status is HaltedOnFailure (or the context was cancelled);
// the partial result is still returned alongside it.
func (e *Executor) Run(ctx context.Context, candidates []Candidate) (*RunResult, error) {
	result := &RunResult{StartTime: time.Now()}

	if len(candidates) == 0 {
		fmt.Fprintln(e.out, "No matching files changed, skipping run")
		result.Status = StatusSkipped
		result.EndTime = time.Now()
		return result, nil
	}

	fmt.Fprintf(e.out, "Executing %d file(s) against project '%s':\n", len(candidates), e.target.Project)
	for _, candidate := range candidates {
		fmt.Fprintf(e.out, "  %s (%s)\n", candidate.Path, candidate.Kind)
	}

	for _, candidate := range candidates {
		select {
		case <-ctx.Done():
			// Not a file failure: FailedPath stays empty, no file is
			// blamed for the hosting job tearing the run down.
			result.Status = StatusCancelled
			result.ExitCode = 1
			result.EndTime = time.Now()
			return result, ctx.Err()
		default:
		}

		fmt.Fprintf(e.out, "Executing %s\n", candidate.Path)

		if e.dryRun {
			fmt.Fprintf(e.out, "[dry-run] would execute %s\n", candidate.Path)
			now := time.Now()
			result.Outcomes = append(result.Outcomes, Outcome{
				Path:      candidate.Path,
				Success:   true,
				StartTime: now,
				EndTime:   now,
			})
			continue
		}

		startTime := time.Now()
		exitCode, err := e.runner.RunQuery(ctx, e.target, candidate.Path)
		endTime := time.Now()

		outcome := Outcome{
			Path:      candidate.Path,
			Success:   err == nil,
			ExitCode:  exitCode,
			Error:     err,
			StartTime: startTime,
			EndTime:   endTime,
		}
		result.Outcomes = append(result.Outcomes, outcome)

		if err != nil {
			fmt.Fprintf(e.out, "Failed %s (exit code %d): %v\n", candidate.Path, exitCode, err)
			result.Status = StatusHaltedOnFailure
			result.FailedPath = candidate.Path
			result.ExitCode = exitCode
			result.EndTime = time.Now()
			return result, errors.Wrap(err, errors.CodeExecution,
				fmt.Sprintf("execution of '%s' failed with exit code %d", candidate.Path, exitCode))
		}

		fmt.Fprintf(e.out, "Succeeded %s (%v)\n", candidate.Path, endTime.Sub(startTime))
	}

	result.Status = StatusAllSucceeded
	result.EndTime = time.Now()
	return result, nil
}
