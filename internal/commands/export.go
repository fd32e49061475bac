package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/klabast/wb-services/holiday-planner/internal/app"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		format   string
		output   string
		reminder string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the planner as ICS, CSV or JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, store, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			format = strings.ToLower(format)
			if format != app.FormatICS && format != app.FormatCSV && format != app.FormatJSON {
				return fmt.Errorf("unknown format %q (want ics, csv or json)", format)
			}

			period, err := cfg.HolidayPeriod()
			if err != nil {
				return err
			}
			doc, err := store.Load()
			if err != nil {
				return err
			}

			write := func(w io.Writer) error {
				switch format {
				case app.FormatICS:
					return app.WriteICS(w, doc, reminder)
				case app.FormatCSV:
					return app.WriteCSV(w, doc)
				default:
					return app.WriteJSON(w, doc, period)
				}
			}

			if output == "" || output == "-" {
				if err := write(cmd.OutOrStdout()); err != nil {
					return fmt.Errorf("writing %s export: %w", format, err)
				}
				return nil
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			if err := writeAndClose(f, write); err != nil {
				return fmt.Errorf("writing %s export to %s: %w", format, output, err)
			}
			log.Info("export written", zap.String("format", format), zap.String("file", output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", app.FormatJSON, "Export format: ics, csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&reminder, "reminder", "", "ICS reminder time HH:MM for open plans")
	return cmd
}

// writeAndClose runs write against wc and closes it, reporting the first
// error of the two
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	if err := write(wc); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}
