package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tmc/axe"
)

func newChopCommand(a *app) *cobra.Command {
	var (
		format    string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "chop TARGET",
		Short: "Fetch and convert papers",
		Long: `Fetch and convert arXiv papers to text and/or markdown.

TARGET can be:
  a PDF file            converted directly
  a directory           every PDF in it, one at a time
  an arXiv URL or ID    metadata looked up, PDF downloaded and converted
  .                     the current directory
  path                  the configured input directory

Examples:
  axe chop 2103.15538 -f both
  axe chop https://arxiv.org/abs/1706.03762
  axe chop ~/papers -o ~/notes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChop(cmd, args[0], format, outputDir)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text, markdown or both (default from config)")
	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "output directory for this run (default from config)")
	return cmd
}

func (a *app) runChop(cmd *cobra.Command, target, formatFlag, outputFlag string) error {
	ctx := cmd.Context()
	p := newPrinter(cmd.OutOrStdout())

	format := a.cfg.DefaultFormat
	if formatFlag != "" {
		f, err := axe.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		format = f
	}
	outDir := a.cfg.Output
	if outputFlag != "" {
		outDir = a.abs(outputFlag)
	}

	a.stats.BeginRun()
	item, err := axe.Classify(target, a.cfg.Input, a.cwd)
	if err != nil {
		a.stats.IncrementFailed()
		p.outcome(target, axe.FailedErr(err))
		a.finishRun(p)
		return errFailures
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p.panel("axe chop",
		[2]string{"Input", item.Locator},
		[2]string{"Output", outDir},
		[2]string{"Format", string(format)},
	)

	fetcher := a.newFetcher()
	opts := []axe.Option{
		axe.WithDelay(a.cfg.Delay),
		axe.WithEvents(p.event),
	}
	if ledger, err := a.openLedger(); err != nil {
		log.Printf("warning: job ledger unavailable: %v", err)
	} else {
		defer ledger.Close()
		fetcher = axe.NewCachingFetcher(fetcher, ledger)
		opts = append(opts, axe.WithRecorder(ledger.ForRun(a.stats.Run().RunID)))
	}

	orch := axe.NewOrchestrator(fetcher, a.newConverter(), a.stats, opts...)
	if _, err := orch.Process(ctx, item, outDir, format); err != nil {
		if errors.Is(err, axe.ErrInterrupted) {
			// Completed items stay counted for this run but the run is not
			// merged into the persistent totals.
			fmt.Fprintln(p.w, p.skipped.Render("\nOperation cancelled"))
			p.tally(a.stats.Run())
		}
		return err
	}

	a.finishRun(p)
	if a.stats.Run().Failed > 0 {
		return errFailures
	}
	return nil
}

// finishRun merges the run into the persistent statistics and prints the
// tally. A failed save is reported but does not fail the command.
func (a *app) finishRun(p *printer) {
	if err := a.stats.MergeAndPersist(); err != nil {
		log.Printf("warning: save statistics: %v", err)
	}
	p.tally(a.stats.Run())
}

func (a *app) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.cwd, path)
}
