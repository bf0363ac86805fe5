package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCommand(a *app) *cobra.Command {
	var (
		limit     int
		fuzzyMode bool
	)

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search converted outputs",
		Long: `Search the text and markdown files produced by earlier runs.

With --fuzzy, single-word queries also match the closest spelling
found in each document.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := a.openLedger()
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer ledger.Close()

			results, err := ledger.SearchOutputs(cmd.Context(), strings.Join(args, " "), limit, fuzzyMode)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			if len(results) == 0 {
				fmt.Fprintln(p.w, "No results found")
				return nil
			}
			for _, r := range results {
				name := r.Title
				if name == "" {
					name = r.Path
				}
				fmt.Fprintf(p.w, "%s %s\n", p.title.Render(name), p.muted.Render(fmt.Sprintf("(%.2f)", r.Score)))
				fmt.Fprintln(p.w, p.muted.Render("  "+r.Path))
				fmt.Fprintln(p.w, "  "+r.Context)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of results")
	cmd.Flags().BoolVar(&fuzzyMode, "fuzzy", false, "typo-tolerant matching")
	return cmd
}
