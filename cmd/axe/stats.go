package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tmc/axe"
	"gopkg.in/yaml.v3"
)

func newStatsCommand(a *app) *cobra.Command {
	var (
		show   bool
		reset  bool
		yes    bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show or reset the accumulated statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case reset:
				return a.runStatsReset(cmd, yes)
			case show:
				return a.runStatsShow(cmd, output)
			}
			return cmd.Usage()
		},
	}

	cmd.Flags().BoolVar(&show, "show", true, "show statistics")
	cmd.Flags().BoolVar(&reset, "reset", false, "reset all statistics")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().StringVar(&output, "output", "text", "output format: text, json or yaml")
	return cmd
}

func (a *app) runStatsShow(cmd *cobra.Command, output string) error {
	st := a.stats.Persistent()
	w := cmd.OutOrStdout()

	switch output {
	case "text":
		newPrinter(w).stats(st)
	case "json":
		data, err := axe.MarshalStats(st)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "yaml":
		data, err := yaml.Marshal(st)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return &axe.ValidationError{Field: "output", Message: fmt.Sprintf("invalid output %q: must be one of text, json, yaml", output)}
	}
	return nil
}

func (a *app) runStatsReset(cmd *cobra.Command, yes bool) error {
	p := newPrinter(cmd.OutOrStdout())
	if !yes {
		fmt.Fprint(p.w, "Reset all statistics? [y/N] ")
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
		default:
			fmt.Fprintln(p.w, "Aborted")
			return nil
		}
	}
	if err := a.stats.Reset(); err != nil {
		return fmt.Errorf("reset statistics: %w", err)
	}
	fmt.Fprintln(p.w, p.success.Render("✓ statistics reset"))
	return nil
}
