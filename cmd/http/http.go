package http

import "github.com/spf13/cobra"

func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Run the REST API",
		Long: `Run the REST API that serves the clinic calendar, appointments, patients,
packages and financials under /api/v1.`,
	}

	cmd.AddCommand(NewStartCommand())

	return cmd
}
