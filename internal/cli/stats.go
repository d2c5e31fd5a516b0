package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deckardcli/deckard/internal/parser"
	"github.com/deckardcli/deckard/internal/render"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "stats <deck.md>",
		Short:         "Show deck statistics",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, args[0], cmd)
		},
	}

	return cmd
}

func runStats(opts *StatsOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	d, loadErrs := LoadDeck(path, parser.ParseModeFailFast)
	if len(loadErrs) > 0 {
		return outputDeckErrors(formatter, loadErrs)
	}

	stats := render.ComputeStats(d)

	if formatter.Format == "json" {
		return formatter.Success(stats)
	}

	fmt.Fprintf(formatter.Writer, "%s\n", d.Title)
	fmt.Fprintf(formatter.Writer, "  slides:        %d\n", stats.Slides)
	fmt.Fprintf(formatter.Writer, "  exhibits:      %d (%d code, %d diff)\n",
		stats.Exhibits, stats.CodeExhibits, stats.DiffExhibits)
	fmt.Fprintf(formatter.Writer, "  speaker notes: %d\n", stats.Notes)
	fmt.Fprintf(formatter.Writer, "  body words:    %d\n", stats.BodyWords)

	return nil
}
