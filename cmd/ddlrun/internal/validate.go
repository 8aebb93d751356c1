package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a ddlrun.yml file",
		Long:  `Validate a ddlrun.yml file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := determineRepositoryRoot(cmd)
			if err != nil {
				return err
			}

			if _, err := loadConfig(cmd, root); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Validation successful!")
			return nil
		},
	}
	cmd.Flags().String("root", "", "Root directory of the repository clone (default: current directory)")
	cmd.Flags().String("config", "", "Path to the configuration file (default: <root>/ddlrun.yml)")
	return cmd
}

var validateCmd = NewValidateCmd()
