package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deckardcli/deckard/internal/parser"
	"github.com/deckardcli/deckard/internal/store"
)

// LibraryOptions holds flags shared by the library commands.
type LibraryOptions struct {
	*RootOptions
	Library string // path to the library database
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LibraryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <deck.md>",
		Short: "Import a deck into the library",
		Long: `Import a deck into the SQLite library.

Decks are content-addressed: importing the same deck twice is a no-op
and reports the same deck ID.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Library, "library", "deckard.db", "path to the deck library database")

	return cmd
}

func runImport(opts *LibraryOptions, path string, cmd *cobra.Command) error {
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

	st, err := store.Open(opts.Library)
	if err != nil {
		return outputCommandError(formatter, ErrCodeLibrary, err.Error())
	}
	defer st.Close()

	id, err := st.PutDeck(cmd.Context(), d)
	if err != nil {
		return outputCommandError(formatter, ErrCodeLibrary, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{
			"deck_id": id,
			"title":   d.Title,
			"slides":  len(d.Slides),
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Imported %q: %d slide(s)\n", d.Title, len(d.Slides))
	fmt.Fprintf(formatter.Writer, "deck_id: %s\n", id)
	return nil
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LibraryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List decks in the library",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Library, "library", "deckard.db", "path to the deck library database")

	return cmd
}

func runList(opts *LibraryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Library)
	if err != nil {
		return outputCommandError(formatter, ErrCodeLibrary, err.Error())
	}
	defer st.Close()

	records, err := st.ListDecks(context.Background())
	if err != nil {
		return outputCommandError(formatter, ErrCodeLibrary, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(formatter.Writer, "library is empty")
		return nil
	}

	for _, r := range records {
		fmt.Fprintf(formatter.Writer, "%s  %-30q %3d slide(s)  %s\n",
			r.ID[:12], r.Title, r.SlideCount, r.ImportedAt)
	}
	return nil
}
