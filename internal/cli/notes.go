package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deckardcli/deckard/internal/parser"
	"github.com/deckardcli/deckard/internal/render"
)

// NotesOptions holds flags for the notes command.
type NotesOptions struct {
	*RootOptions
}

// SlideNotes is one slide's speaker note in the JSON payload.
type SlideNotes struct {
	Slide int    `json:"slide"` // 1-based
	Text  string `json:"text"`
}

// NewNotesCommand creates the notes command.
func NewNotesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NotesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "notes <deck.md>",
		Short: "Export the speaker notes of a deck",
		Long: `Export speaker notes, numbered by slide.

Notes are hidden from the primary rendering path; this command is the
way to get at them.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotes(opts, args[0], cmd)
		},
	}

	return cmd
}

func runNotes(opts *NotesOptions, path string, cmd *cobra.Command) error {
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

	if formatter.Format == "json" {
		var notes []SlideNotes
		for i := range d.Slides {
			if n := d.Slides[i].Note; n != nil {
				notes = append(notes, SlideNotes{Slide: i + 1, Text: n.Text})
			}
		}
		return formatter.Success(notes)
	}

	if !d.HasNotes() {
		fmt.Fprintf(formatter.Writer, "%s has no speaker notes\n", path)
		return nil
	}

	fmt.Fprint(formatter.Writer, render.Notes(d))
	return nil
}
