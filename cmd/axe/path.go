package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tmc/axe"
	"github.com/tmc/axe/internal/config"
)

func newPathCommand(a *app) *cobra.Command {
	var (
		in, out, format string
		show            bool
	)

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Show or set the default input and output directories",
		Long: `Show or set the default input and output directories.

Without flags, or with --show, the current configuration is shown.

Examples:
  axe path --in ~/papers
  axe path --out ~/notes --format both`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPath(cmd, in, out, format, show)
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "default input directory (must exist)")
	cmd.Flags().StringVar(&out, "out", "", "default output directory (created if missing)")
	cmd.Flags().StringVar(&format, "format", "", "default format: text, markdown or both")
	cmd.Flags().BoolVar(&show, "show", false, "show the configuration after saving")
	return cmd
}

func (a *app) runPath(cmd *cobra.Command, in, out, format string, show bool) error {
	p := newPrinter(cmd.OutOrStdout())

	cfg := a.cfg
	if in != "" {
		path := a.abs(in)
		info, err := os.Stat(path)
		if err != nil {
			return &axe.ValidationError{Field: "in", Message: "input path does not exist: " + path}
		}
		if !info.IsDir() {
			return &axe.ValidationError{Field: "in", Message: "input path must be a directory: " + path}
		}
		cfg = cfg.WithInputPath(path)
	}
	if out != "" {
		path := a.abs(out)
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		cfg = cfg.WithOutputPath(path)
	}
	if format != "" {
		f, err := axe.ParseFormat(format)
		if err != nil {
			return err
		}
		cfg = cfg.WithDefaultFormat(f)
	}

	if cfg != a.cfg {
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		a.cfg = cfg
		fmt.Fprintln(p.w, p.success.Render("✓ saved "+cfg.Path()))
		if !show {
			return nil
		}
	}

	p.panel("Path configuration",
		[2]string{"Input", cfg.Input},
		[2]string{"Output", cfg.Output},
		[2]string{"Format", string(cfg.DefaultFormat)},
	)
	return nil
}
