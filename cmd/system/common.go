package system

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/spf13/cobra"

	"github.com/Alijeyrad/vitum_backend/config"
	"github.com/Alijeyrad/vitum_backend/internal/store/migrate"
	"github.com/Alijeyrad/vitum_backend/pkg/database"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return cfg, nil
}

// runMigrations applies the schema, or only prints the statements when
// dryRun is non-nil.
func runMigrations(ctx context.Context, cfg *config.Config, dropColumns bool, dryRun io.Writer) error {
	drv, err := database.NewDriver(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer drv.Close()

	ctx, cancel := cfg.Server.WithTimeout(ctx)
	defer cancel()

	var target dialect.Driver = drv
	if dryRun != nil {
		target = &schema.WriteDriver{Driver: drv, Writer: dryRun}
	}

	opts := migrate.Options{DropColumns: dropColumns || cfg.Database.Migrations.DropColumns}
	if err := migrate.Create(ctx, target, opts); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
