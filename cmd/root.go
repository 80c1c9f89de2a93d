package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	calendarcmd "github.com/Alijeyrad/vitum_backend/cmd/calendar"
	httpcmd "github.com/Alijeyrad/vitum_backend/cmd/http"
	systemcmd "github.com/Alijeyrad/vitum_backend/cmd/system"
	usercmd "github.com/Alijeyrad/vitum_backend/cmd/user"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "vitum",
	Short: "Vitum clinic backend for physiotherapy and Pilates studios.",
	Long: `Vitum runs the front desk of a physiotherapy and Pilates clinic: the
weekly class schedule, individual appointments, session packages and the
clinic's receivables and payables.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
	rootCmd.AddCommand(calendarcmd.NewCalendarCommand())
	rootCmd.AddCommand(usercmd.NewUserCommand())
}
