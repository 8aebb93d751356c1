package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ddlrun/ddlrun/internal/changes"
	"github.com/ddlrun/ddlrun/internal/config"
	"github.com/ddlrun/ddlrun/internal/deploy"
	"github.com/ddlrun/ddlrun/internal/errors"
)

func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Execute SQL files changed between two revisions",
		Long: `Computes which SQL files matching the configured glob were added, modified
or renamed between --base and --head, and executes each one as a batch query
against the configured project, halting on the first failure.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, _ := cmd.Flags().GetString("base")
			head, _ := cmd.Flags().GetString("head")
			repo, _ := cmd.Flags().GetString("repo")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			reportPath, _ := cmd.Flags().GetString("report")

			root, err := determineRepositoryRoot(cmd)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}

			if err := verifyBranch(cmd.Context(), cfg, root, repo); err != nil {
				return err
			}

			detector, err := buildDetector(cfg, root, repo)
			if err != nil {
				return err
			}

			changeSet, err := detector.Changes(cmd.Context(), base, head)
			if err != nil {
				return err
			}

			filters, err := deploy.NewFilterSet(cfg.Filters)
			if err != nil {
				return errors.Wrap(err, errors.CodeConfiguration, "invalid candidate filters")
			}

			candidates, err := deploy.BuildCandidates(changeSet, filters)
			if err != nil {
				return err
			}

			target := deploy.Target{
				Project:         cfg.Project,
				Dialect:         cfg.Dialect,
				Location:        cfg.Runner.Location,
				CredentialsFile: cfg.Runner.CredentialsFile,
			}

			runner := deploy.NewCLIRunner(cfg.Runner.Command, root, os.Environ())
			executor := deploy.NewExecutor(runner, target, deploy.ExecutorOptions{
				DryRun: dryRun,
				Output: cmd.OutOrStdout(),
			})

			result, runErr := executor.Run(cmd.Context(), candidates)

			if reportPath != "" && result != nil {
				if err := deploy.WriteReport(reportPath, result, target, base, head); err != nil {
					if runErr == nil {
						return err
					}
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				}
			}

			if runErr != nil {
				return errors.ExitWrap(result.ExitCode, "run halted on failure", runErr)
			}
			return nil
		},
	}

	cmd.Flags().String("base", "", "The base revision of the change range (e.g. the pre-push commit)")
	cmd.Flags().String("head", "", "The head revision of the change range (e.g. the pushed commit)")
	cmd.Flags().String("repo", "", "Detect changes via the GitHub API instead of a local clone (e.g. my-org/my-repo)")
	cmd.Flags().String("root", "", "Root directory of the repository clone (default: current directory)")
	cmd.Flags().String("config", "", "Path to the configuration file (default: <root>/ddlrun.yml)")
	cmd.Flags().Bool("dry-run", false, "List and report candidate files without executing anything")
	cmd.Flags().String("report", "", "Write a JSON run report to the given path")
	cmd.MarkFlagRequired("base")
	cmd.MarkFlagRequired("head")

	return cmd
}

// determineRepositoryRoot resolves the working tree the run operates on.
func determineRepositoryRoot(cmd *cobra.Command) (string, error) {
	rootPath, _ := cmd.Flags().GetString("root")
	if rootPath != "" {
		return rootPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}

	return cwd, nil
}

func loadConfig(cmd *cobra.Command, root string) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = filepath.Join(root, config.DefaultFileName)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, fmt.Sprintf("failed to load %s", configPath))
	}
	return cfg, nil
}

// verifyBranch refuses to run against a working tree that is not on the
// configured branch. Runs driven through the GitHub API have no working
// tree to check; there the revision range is authoritative.
func verifyBranch(ctx context.Context, cfg *config.Config, root, repo string) error {
	if cfg.Branch == "" || repo != "" {
		return nil
	}

	branch, err := changes.CurrentBranch(ctx, root)
	if err != nil {
		return errors.Wrap(err, errors.CodeConfiguration, "failed to verify the configured branch")
	}
	if branch != cfg.Branch {
		return errors.New(errors.CodeConfiguration,
			fmt.Sprintf("working tree is on branch '%s', but the configuration designates branch '%s'", branch, cfg.Branch))
	}
	return nil
}

// buildDetector picks the change detector: the GitHub Compare API when a
// remote repo is named, a local git diff otherwise.
func buildDetector(cfg *config.Config, root, repo string) (changes.Detector, error) {
	if repo == "" {
		return changes.NewGitDetector(root, cfg.Glob), nil
	}

	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, errors.New(errors.CodeConfiguration, fmt.Sprintf("invalid repo format: %s", repo))
	}

	client := changes.NewGitHubClient(os.Getenv("GITHUB_TOKEN"))
	return changes.NewGitHubDetector(client, parts[0], parts[1], cfg.Glob), nil
}
