package http

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/vitum_backend/config"
	"github.com/Alijeyrad/vitum_backend/internal/api/http"
	"github.com/Alijeyrad/vitum_backend/pkg/logs"
)

func NewStartCommand() *cobra.Command {
	var (
		shutdownTimeout time.Duration
		port            int
	)

	cmd := &cobra.Command{
		Use:     "start",
		Aliases: []string{"serve"},
		Short:   "Start the HTTP API server",
		Long: `Start the HTTP API server along with the background jobs.

Schema migrations run first when database.migrations.auto_migrate is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			logger, closeLogs := logs.New(cfg)
			defer closeLogs()
			slog.SetDefault(logger)

			slog.Info("starting vitum",
				"env", cfg.Server.Environment,
				"port", cfg.Server.Port,
				"timezone", cfg.Scheduling.Timezone,
				"auth", cfg.Auth.Enabled,
			)
			return http.Start(cfg, shutdownTimeout)
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Maximum time to wait for graceful shutdown")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides server.port)")

	return cmd
}
