package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ddlrun/ddlrun/internal/deploy"
	"github.com/ddlrun/ddlrun/internal/errors"
)

func NewPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "List the SQL files a deploy would execute, without executing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, _ := cmd.Flags().GetString("base")
			head, _ := cmd.Flags().GetString("head")
			repo, _ := cmd.Flags().GetString("repo")

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

			if len(candidates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching files changed, a deploy would be skipped")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "A deploy would execute %d file(s) against project '%s':\n", len(candidates), cfg.Project)
			for _, candidate := range candidates {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s (%s)\n", candidate.Path, candidate.Kind)
			}
			return nil
		},
	}

	cmd.Flags().String("base", "", "The base revision of the change range")
	cmd.Flags().String("head", "", "The head revision of the change range")
	cmd.Flags().String("repo", "", "Detect changes via the GitHub API instead of a local clone (e.g. my-org/my-repo)")
	cmd.Flags().String("root", "", "Root directory of the repository clone (default: current directory)")
	cmd.Flags().String("config", "", "Path to the configuration file (default: <root>/ddlrun.yml)")
	cmd.MarkFlagRequired("base")
	cmd.MarkFlagRequired("head")

	return cmd
}
