package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/klabast/wb-services/holiday-planner/internal/app"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start an HTTP server exposing the planner document to the mobile page and
other front-ends. Write routes require basic auth when an auth file exists.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, store, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			period, err := cfg.HolidayPeriod()
			if err != nil {
				return err
			}
			auth, err := app.LoadAuthenticator(cfg.AuthFile, log)
			if err != nil {
				return fmt.Errorf("failed to load auth credentials: %w", err)
			}

			srv, err := app.NewServer(app.Options{
				Store:  store,
				Period: period,
				Auth:   auth,
				Logger: log,
				Addr:   fmt.Sprintf(":%d", cfg.Port),
			})
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (default 5000)")
	return cmd
}
