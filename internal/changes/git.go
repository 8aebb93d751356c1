package changes

import (
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ddlrun/ddlrun/internal/errors"
)

// GitDetector computes changes by diffing two revisions in a local working
// tree. The clone must carry enough history to resolve both revisions; a
// shallow clone missing the base is a fatal error.
type GitDetector struct {
	repoRoot string
	pattern  string
}

func NewGitDetector(repoRoot, pattern string) *GitDetector {
	return &GitDetector{repoRoot: repoRoot, pattern: pattern}
}

func (d *GitDetector) Changes(ctx context.Context, base, head string) (*ChangeSet, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", d.repoRoot, "diff", "--name-status", "-M", base, head)
	// Parse stdout only; git warnings on stderr must not corrupt the
	// name-status stream.
	output, err := cmd.Output()
	if err != nil {
		return nil, errors.Wrap(
			fmt.Errorf("git diff %s..%s: %s", base, head, gitErrorDetail(err)),
			errors.CodeHistoryResolution,
			"failed to resolve revision range (is the clone deep enough?)",
		)
	}
	return parseNameStatus(string(output), d.pattern)
}

// CurrentBranch reports the branch checked out in the working tree.
func CurrentBranch(ctx context.Context, repoRoot string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", repoRoot, "rev-parse", "--abbrev-ref", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to resolve current branch: %s", gitErrorDetail(err))
	}
	return strings.TrimSpace(string(output)), nil
}

// gitErrorDetail prefers git's stderr over the bare exit status.
func gitErrorDetail(err error) string {
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		if detail := strings.TrimSpace(string(exitErr.Stderr)); detail != "" {
			return detail
		}
	}
	return err.Error()
}

// parseNameStatus parses `git diff --name-status -M` output. Each line is a
// status letter (with a similarity score for renames and copies), then
// tab-separated paths. Copies execute their destination, so they count as
// additions.
func parseNameStatus(output, pattern string) (*ChangeSet, error) {
	cs := NewChangeSet()
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 || fields[0] == "" {
			return nil, fmt.Errorf("malformed name-status line: %q", line)
		}
		status := fields[0]
		switch status[0] {
		case 'A':
			addMatch(cs, Change{Path: fields[1], Kind: Added}, pattern)
		case 'M', 'T':
			addMatch(cs, Change{Path: fields[1], Kind: Modified}, pattern)
		case 'D':
			addMatch(cs, Change{Path: fields[1], Kind: Deleted}, pattern)
		case 'R':
			if len(fields) < 3 {
				return nil, fmt.Errorf("malformed rename line: %q", line)
			}
			addMatch(cs, Change{Path: fields[2], Kind: Renamed, From: fields[1]}, pattern)
		case 'C':
			if len(fields) < 3 {
				return nil, fmt.Errorf("malformed copy line: %q", line)
			}
			addMatch(cs, Change{Path: fields[2], Kind: Added}, pattern)
		default:
			return nil, fmt.Errorf("unknown change status %q in line: %q", status, line)
		}
	}
	return cs, nil
}

// addMatch records the change if its destination path matches the glob.
// Renames are matched on the new path; a file renamed out of the glob's
// reach is no longer a candidate.
func addMatch(cs *ChangeSet, c Change, pattern string) {
	if !matchGlob(pattern, c.Path) {
		return
	}
	cs.Add(c)
}
