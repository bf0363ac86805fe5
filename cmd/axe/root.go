package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/tmc/axe"
	"github.com/tmc/axe/internal/config"
)

// errFailures makes the process exit non-zero after a batch with failures.
var errFailures = errors.New("one or more items failed")

// app is the per-invocation context shared by every command. It is built
// once in PersistentPreRunE; nothing in it is global.
type app struct {
	configDir string
	cwd       string

	cfg   config.Config
	store *axe.Store
	stats *axe.Aggregator

	// Set by tests to avoid the network and pdftotext.
	fetcher   axe.Fetcher
	converter axe.Converter
}

// NewRootCommand creates the axe command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{})
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "axe",
		Short: "axe - arXiv extraction",
		Long: `axe fetches arXiv papers and converts them to text or markdown.

Targets can be a PDF, a directory of PDFs, an arXiv URL or identifier,
"." for the current directory, or "path" for the configured input
directory. Outcomes are tallied per run and accumulated across runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	cmd.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default $AXE_HOME or the user config dir)")

	cmd.AddCommand(newChopCommand(a))
	cmd.AddCommand(newPathCommand(a))
	cmd.AddCommand(newStatsCommand(a))
	cmd.AddCommand(newHistoryCommand(a))
	cmd.AddCommand(newSearchCommand(a))
	cmd.AddCommand(newIDCommand())

	return cmd
}

func (a *app) init() error {
	if a.cwd == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("working directory: %w", err)
		}
		a.cwd = cwd
	}
	if a.configDir == "" {
		dir, err := config.Dir()
		if err != nil {
			return fmt.Errorf("config directory: %w", err)
		}
		a.configDir = dir
	}

	a.cfg = config.Load(a.configDir, a.cwd)
	a.store = axe.NewStore(a.cfg.StatsFile)
	a.stats = axe.NewAggregator(a.store)
	return nil
}

func (a *app) newFetcher() axe.Fetcher {
	if a.fetcher != nil {
		return a.fetcher
	}
	return axe.NewClient(
		axe.WithTimeout(a.cfg.Timeout),
		axe.WithUserAgent(a.cfg.UserAgent),
	)
}

func (a *app) newConverter() axe.Converter {
	if a.converter != nil {
		return a.converter
	}
	return axe.NewPDFToText(a.cfg.PDFToText, &http.Client{Timeout: a.cfg.Timeout})
}

// openLedger opens the job ledger. Callers treat failure as non-fatal.
func (a *app) openLedger() (*axe.Ledger, error) {
	return axe.OpenLedger(a.cfg.LedgerFile)
}
