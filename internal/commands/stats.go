package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klabast/wb-services/holiday-planner/internal/tui"
)

func newStatsCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print totals and the per-day overview",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, store, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			period, err := cfg.HolidayPeriod()
			if err != nil {
				return err
			}
			doc, err := store.Load()
			if err != nil {
				return err
			}
			st := doc.Stats()
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}

			fmt.Fprintf(out, "Total plans:        %d\n", st.TotalPlans)
			fmt.Fprintf(out, "Completed plans:    %d\n", st.CompletedPlans)
			fmt.Fprintf(out, "Completion rate:    %.1f%%\n", st.CompletionRate)
			fmt.Fprintf(out, "Total achievements: %d\n", st.TotalAchievements)
			fmt.Fprintf(out, "Average rating:     %.1f\n\n", st.AverageRating)
			fmt.Fprintln(out, tui.OverviewTable(doc.Overview(period)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print totals as JSON")
	return cmd
}
