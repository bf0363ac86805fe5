package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/tmc/axe"
)

func newHistoryCommand(a *app) *cobra.Command {
	var (
		limit int
		runID string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently processed items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := a.openLedger()
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer ledger.Close()

			var recs []axe.JobRecord
			if runID != "" {
				recs, err = ledger.RunJobs(cmd.Context(), runID)
			} else {
				recs, err = ledger.History(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			if len(recs) == 0 {
				fmt.Fprintln(p.w, "No history")
				return nil
			}
			for _, r := range recs {
				name := r.Locator
				if r.Title != "" {
					name = r.Title
				}
				p.outcome(name, axe.Outcome{
					Status: axe.Status(r.Status),
					Detail: r.Detail,
				})
				fmt.Fprintln(p.w, p.muted.Render(fmt.Sprintf("    %s  %s  run %s", humanize.Time(r.CreatedAt), r.Format, shortID(r.RunID))))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of items to show")
	cmd.Flags().StringVar(&runID, "run", "", "show every item of one run")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
