package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/deckardcli/deckard/internal/parser"
	"github.com/deckardcli/deckard/internal/server"
	"github.com/deckardcli/deckard/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr     string
	ThemeDir string
	Library  string // optional; sessions persist only with a library
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve <deck.md>",
		Short: "Present a deck over HTTP",
		Long: `Serve a deck in presenter mode.

Viewers at / follow the presenter's slide over WebSocket. With a
--library, the session's current slide is persisted so a restarted
presenter resumes in place.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.ThemeDir, "theme", "", "directory of CUE theme definitions")
	cmd.Flags().StringVar(&opts.Library, "library", "", "deck library database (enables session persistence)")

	return cmd
}

func runServe(opts *ServeOptions, path string, cmd *cobra.Command) error {
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

	t, err := resolveTheme(opts.ThemeDir, d.Theme)
	if err != nil {
		return outputCommandError(formatter, ErrCodeTheme, err.Error())
	}

	var st *store.Store
	if opts.Library != "" {
		st, err = store.Open(opts.Library)
		if err != nil {
			return outputCommandError(formatter, ErrCodeLibrary, err.Error())
		}
		defer st.Close()
	}

	srv, err := server.New(cmd.Context(), d, t, st)
	if err != nil {
		return outputCommandError(formatter, ErrCodeLibrary, err.Error())
	}
	defer srv.Close(cmd.Context())

	fmt.Fprintf(formatter.Writer, "Presenting %q (%d slides) on %s\n", d.Title, len(d.Slides), opts.Addr)
	fmt.Fprintf(formatter.Writer, "Presenter: ws://%s/ws?role=presenter\n", displayAddr(opts.Addr))

	if err := http.ListenAndServe(opts.Addr, srv.Router()); err != nil {
		return WrapExitError(ExitCommandError, "server stopped", err)
	}
	return nil
}

// displayAddr makes a bare ":8080" printable as "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
