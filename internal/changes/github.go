package changes

import (
	"context"
	"fmt"

	"github.com/google/go-github/v63/github"

	"github.com/ddlrun/ddlrun/internal/errors"
)

// GitHubDetector computes changes through the GitHub Compare API, for runs
// that have no full-history clone to diff locally.
type GitHubDetector struct {
	client  *github.Client
	owner   string
	repo    string
	pattern string
}

func NewGitHubDetector(client *github.Client, owner, repo, pattern string) *GitHubDetector {
	return &GitHubDetector{client: client, owner: owner, repo: repo, pattern: pattern}
}

// NewGitHubClient builds an API client, authenticated when token is
// non-empty.
func NewGitHubClient(token string) *github.Client {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return client
}

func (d *GitHubDetector) Changes(ctx context.Context, base, head string) (*ChangeSet, error) {
	cs := NewChangeSet()
	opts := &github.ListOptions{PerPage: 100}
	for {
		comparison, resp, err := d.client.Repositories.CompareCommits(ctx, d.owner, d.repo, base, head, opts)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeHistoryResolution,
				fmt.Sprintf("failed to compare %s...%s for %s/%s", base, head, d.owner, d.repo))
		}
		for _, file := range comparison.Files {
			change, ok := classifyFile(file)
			if !ok {
				continue
			}
			addMatch(cs, change, d.pattern)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return cs, nil
}

func classifyFile(file *github.CommitFile) (Change, bool) {
	path := file.GetFilename()
	switch file.GetStatus() {
	case "added", "copied":
		return Change{Path: path, Kind: Added}, true
	case "modified", "changed":
		return Change{Path: path, Kind: Modified}, true
	case "renamed":
		return Change{Path: path, Kind: Renamed, From: file.GetPreviousFilename()}, true
	case "removed":
		return Change{Path: path, Kind: Deleted}, true
	default:
		return Change{}, false
	}
}
