package user

import "github.com/spf13/cobra"

func NewUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage staff sign-in accounts",
	}

	cmd.AddCommand(NewCreateCommand())

	return cmd
}
