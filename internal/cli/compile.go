package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deckardcli/deckard/internal/deck"
	"github.com/deckardcli/deckard/internal/parser"
	"github.com/deckardcli/deckard/internal/render"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationResult holds the compiled deck and its content-addressed ID.
type CompilationResult struct {
	DeckID string     `json:"deck_id"`
	Deck   *deck.Deck `json:"deck"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <deck.md>",
		Short: "Compile a deck to canonical JSON",
		Long: `Compile a markdown deck to its canonical JSON form.

The compiler parses the deck source, checks the structural invariants,
and outputs RFC 8785 canonical JSON together with the deck's
content-addressed ID.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	d, loadErrs := LoadDeck(path, parser.ParseModeCollectAll)
	if len(loadErrs) > 0 {
		return outputDeckErrors(formatter, loadErrs)
	}

	formatter.VerboseLog("Parsed %d slide(s) from %s", len(d.Slides), path)

	if valErrs := deck.Validate(d); len(valErrs) > 0 {
		errs := make([]error, len(valErrs))
		for i, e := range valErrs {
			errs[i] = e
		}
		return outputDeckErrors(formatter, errs)
	}

	id, err := deck.DeckID(d)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, fmt.Sprintf("computing deck ID: %v", err))
	}
	result := &CompilationResult{DeckID: id, Deck: d}

	if opts.Output != "" {
		if err := writeCanonicalToFile(d, opts.Output); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	// Human-readable text output
	stats := render.ComputeStats(result.Deck)
	fmt.Fprintf(formatter.Writer, "✓ Compiled %q: %d slide(s), %d exhibit(s), %d note(s)\n",
		result.Deck.Title, stats.Slides, stats.Exhibits, stats.Notes)
	fmt.Fprintf(formatter.Writer, "deck_id: %s\n", result.DeckID)

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote canonical JSON to %s\n", outputFile)
	}

	return nil
}

// outputCommandError reports an environment-level failure (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputDeckErrors reports problems with the deck content itself (exit code 1),
// except pure file-access failures which are command errors (exit code 2).
func outputDeckErrors(formatter *OutputFormatter, errs []error) error {
	exitCode := ExitFailure
	if len(errs) == 1 {
		if code, _ := errorCodeAndMessage(errs[0]); code == ErrCodeNotFound || code == ErrCodeReadFailed {
			exitCode = ExitCommandError
		}
	}

	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := errorCodeAndMessage(err)
			cliErrors[i] = CLIError{Code: code, Message: message}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(exitCode, fmt.Sprintf("deck has %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		printPositioned(formatter, err)
	}

	return NewExitError(exitCode, fmt.Sprintf("deck has %d error(s)", len(errs)))
}

// writeCanonicalToFile writes the deck's canonical JSON to a file.
func writeCanonicalToFile(d *deck.Deck, filename string) error {
	data, err := deck.MarshalCanonical(d)
	if err != nil {
		return fmt.Errorf("marshaling deck: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
