package system

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/vitum_backend/pkg/database"
)

func NewInitCommand() *cobra.Command {
	var withMigrations bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the application database if it does not exist",
		Long: `Create the configured database through the postgres maintenance database.

With --migrate the schema is applied right after, which is all a fresh
install needs before "vitum user create".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.ErrOrStderr()
			fmt.Fprintf(out, "Initializing database %q...\n", cfg.Database.DBName)
			if err := database.InitializeDatabase(cfg.Database); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}

			if withMigrations {
				fmt.Fprintln(out, "Running migrations...")
				if err := runMigrations(cmd.Context(), cfg, false, nil); err != nil {
					return err
				}
			}
			fmt.Fprintln(out, "Database initialized successfully.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&withMigrations, "migrate", false, "Apply the schema after creating the database")

	return cmd
}
