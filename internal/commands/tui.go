package commands

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/klabast/wb-services/holiday-planner/internal/logging"
	"github.com/klabast/wb-services/holiday-planner/internal/planner"
	"github.com/klabast/wb-services/holiday-planner/internal/tui"
)

func newTUICommand(opts *rootOptions) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			period, err := cfg.HolidayPeriod()
			if err != nil {
				return err
			}

			// Logging to the terminal would corrupt the dashboard
			log, err := logging.ToFile(cfg.LogLevel, logFile)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			defer log.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			store := planner.NewStore(cfg.DataFile, planner.WithLogger(log))
			return tui.Run(ctx, store, period, log)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "holiday-planner.log", "File receiving dashboard logs")
	return cmd
}
