package calendar

import "github.com/spf13/cobra"

func NewCalendarCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Calendar tooling",
	}

	cmd.AddCommand(NewExportCommand())

	return cmd
}
