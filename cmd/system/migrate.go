package system

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func NewMigrateCommand() *cobra.Command {
	var dropColumns, dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		Long: `Diff the live database against the vitum schema and apply the changes.

--dry-run prints the statements without executing them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			var plan io.Writer
			if dryRun {
				plan = cmd.OutOrStdout()
			} else {
				fmt.Fprintln(cmd.ErrOrStderr(), "Running migrations...")
			}
			if err := runMigrations(cmd.Context(), cfg, dropColumns, plan); err != nil {
				return err
			}
			if !dryRun {
				fmt.Fprintln(cmd.ErrOrStderr(), "Migrations executed successfully.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dropColumns, "drop-columns", false, "Drop columns no longer present in the schema")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the migration statements instead of applying them")

	return cmd
}
