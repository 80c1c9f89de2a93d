package user

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/vitum_backend/config"
	"github.com/Alijeyrad/vitum_backend/internal/service/auth"
	"github.com/Alijeyrad/vitum_backend/internal/store"
	"github.com/Alijeyrad/vitum_backend/pkg/database"
	"github.com/Alijeyrad/vitum_backend/pkg/password"
)

func NewCreateCommand() *cobra.Command {
	var email, name, pass string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a sign-in account",
		Long: `Create a sign-in account for the web app.

Without --password a random one is generated and printed once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			generated := pass == ""
			if generated {
				if pass, err = password.Generate(16); err != nil {
					return err
				}
			}

			drv, err := database.NewDriver(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer drv.Close()

			hasher := password.NewHasher(password.FromCentralConfig(cfg.Auth.Password))
			// Account creation never touches tokens.
			svc := auth.New(store.New(drv), hasher, nil, time.Now)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			u, err := svc.CreateUser(ctx, auth.CreateUserRequest{Email: email, FullName: name, Password: pass})
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.Email, u.ID)
			if generated {
				fmt.Fprintf(cmd.OutOrStdout(), "password: %s\n", pass)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Sign-in email")
	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&pass, "password", "", "Password (generated when empty)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
