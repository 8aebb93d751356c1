package internal

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ddlrun/ddlrun/internal/errors"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ddlrun",
		Short: "ddlrun executes changed SQL files against a data warehouse.",
		Long: `ddlrun is a CI tool that looks at which SQL files changed between two
revisions, and executes each changed file as a batch query against a configured
warehouse project, in change order, stopping at the first failure.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewDeployCmd())
	cmd.AddCommand(NewPlanCmd())
	cmd.AddCommand(validateCmd)
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the CLI. The process exit code carries the failing query
// command's exit status so the hosting CI job is marked accordingly.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errors.ExitCodeOf(err))
	}
}
