package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tmc/axe"
)

func newIDCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "id TEXT",
		Short: "Print the arXiv identifier found in TEXT",
		Long: `Print the arXiv identifier found in a URL, file name or free text.
Exits non-zero when none is found.`,
		Args: cobra.MinimumNArgs(1),
		// No config needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			id, ok := axe.ExtractIdentifier(text)
			if !ok {
				return &axe.ValidationError{Field: "id", Message: fmt.Sprintf("could not parse identifier from %q", text)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}
