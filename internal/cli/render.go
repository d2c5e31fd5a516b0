package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deckardcli/deckard/internal/parser"
	"github.com/deckardcli/deckard/internal/render"
	"github.com/deckardcli/deckard/internal/theme"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	To       string // "html" | "text"
	ThemeDir string
	Notes    bool
	Output   string
}

// ValidRenderTargets defines the allowed render targets.
var ValidRenderTargets = []string{"html", "text"}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "render <deck.md>",
		Short:         "Render a deck to HTML or terminal text",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", "text", "render target (html|text)")
	cmd.Flags().StringVar(&opts.ThemeDir, "theme", "", "directory of CUE theme definitions")
	cmd.Flags().BoolVar(&opts.Notes, "notes", false, "include speaker notes")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")

	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if !isValidRenderTarget(opts.To) {
		return outputCommandError(formatter, ErrCodeGeneric,
			fmt.Sprintf("invalid render target %q: must be one of %v", opts.To, ValidRenderTargets))
	}

	d, loadErrs := LoadDeck(path, parser.ParseModeFailFast)
	if len(loadErrs) > 0 {
		return outputDeckErrors(formatter, loadErrs)
	}

	t, err := resolveTheme(opts.ThemeDir, d.Theme)
	if err != nil {
		return outputCommandError(formatter, ErrCodeTheme, err.Error())
	}
	formatter.VerboseLog("Rendering %d slide(s) with theme %q", len(d.Slides), t.Name)

	var out string
	switch opts.To {
	case "html":
		out = render.HTML(d, t, render.HTMLOptions{Notes: opts.Notes})
	case "text":
		out = render.Text(d, render.TextOptions{Notes: opts.Notes})
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(out), 0644); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
		fmt.Fprintf(formatter.Writer, "Wrote %s rendering to %s\n", opts.To, opts.Output)
		return nil
	}

	fmt.Fprint(formatter.Writer, out)
	return nil
}

// resolveTheme loads the theme directory (when given) and picks the deck's
// theme from it, falling back to the built-in default.
func resolveTheme(themeDir, name string) (*theme.ThemeSpec, error) {
	if themeDir == "" {
		if name != "" && name != "default" {
			return nil, fmt.Errorf("deck names theme %q but no --theme directory was given", name)
		}
		return theme.Default(), nil
	}

	themes, err := theme.LoadDir(themeDir)
	if err != nil {
		return nil, err
	}
	return theme.Select(themes, name)
}

func isValidRenderTarget(target string) bool {
	for _, t := range ValidRenderTargets {
		if t == target {
			return true
		}
	}
	return false
}
