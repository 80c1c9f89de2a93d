package calendar

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/vitum_backend/config"
	"github.com/Alijeyrad/vitum_backend/internal/service/calendar"
	"github.com/Alijeyrad/vitum_backend/internal/store"
	"github.com/Alijeyrad/vitum_backend/pkg/database"
)

const dateLayout = "2006-01-02"

func NewExportCommand() *cobra.Command {
	var (
		from, to string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the calendar for a date range as an iCalendar file",
		Long: `Write every class occurrence and appointment in [from, to) as iCalendar.

Without --from/--to the default rolling window is exported. Without --out the
feed goes to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (from == "") != (to == "") {
				return fmt.Errorf("--from and --to must be given together")
			}

			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			drv, err := database.NewDriver(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer drv.Close()

			loc := cfg.Scheduling.Location()
			svc := calendar.New(store.New(drv), calendar.NopCache{}, calendar.Config{
				Location:           loc,
				WindowWeeks:        cfg.Scheduling.WindowWeeks,
				DedupeMaterialized: cfg.Scheduling.DedupeMaterialized,
			}, time.Now)

			w := svc.DefaultWindow()
			if from != "" {
				start, err := time.ParseInLocation(dateLayout, from, loc)
				if err != nil {
					return fmt.Errorf("invalid --from: %w", err)
				}
				end, err := time.ParseInLocation(dateLayout, to, loc)
				if err != nil {
					return fmt.Errorf("invalid --to: %w", err)
				}
				if w, err = svc.Window(start, end); err != nil {
					return err
				}
			}

			ctx, cancel := cfg.Server.WithTimeout(cmd.Context())
			defer cancel()

			events, err := svc.Events(ctx, w, calendar.Filter{})
			if err != nil {
				return fmt.Errorf("failed to build calendar: %w", err)
			}

			var dst io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %q: %w", out, err)
				}
				defer f.Close()
				dst = f
			}

			if err := calendar.WriteICS(dst, events, time.Now()); err != nil {
				return fmt.Errorf("failed to write calendar: %w", err)
			}
			if out != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d events to %s\n", len(events), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day to export (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Day after the last one to export (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (defaults to stdout)")

	return cmd
}
