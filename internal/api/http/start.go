package http

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Alijeyrad/vitum_backend/config"
	"github.com/Alijeyrad/vitum_backend/internal/api/http/router"
	"github.com/Alijeyrad/vitum_backend/internal/app"
)

// Start runs the API and background jobs until the process is signalled,
// then stops every component within timeout. Graph construction errors are
// returned instead of exiting.
func Start(cfg *config.Config, timeout time.Duration) error {
	a := fx.New(
		fx.Supply(cfg),
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.SlogLogger{Logger: slog.Default()}
			l.UseLogLevel(slog.LevelDebug)
			return l
		}),
		app.InfraModule,
		app.ServiceModule,
		app.JobModule,
		router.Module,
		Module,

		// The server's start hook only exists once something depends on it.
		fx.Invoke(func(*fiber.App) {}),

		fx.StopTimeout(timeout),
	)
	if err := a.Err(); err != nil {
		return fmt.Errorf("build application: %w", err)
	}
	a.Run()
	return nil
}
