package system

import "github.com/spf13/cobra"

func NewSystemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Database setup, key generation and docs",
	}

	cmd.AddCommand(
		NewInitCommand(),
		NewMigrateCommand(),
		NewGenKeyCommand(),
		NewGenDocsCommand(),
	)

	return cmd
}
