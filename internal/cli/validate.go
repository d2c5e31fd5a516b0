package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deckardcli/deckard/internal/deck"
	"github.com/deckardcli/deckard/internal/parser"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidationReport holds the outcome of validating one deck file.
type ValidationReport struct {
	File   string     `json:"file"`
	Valid  bool       `json:"valid"`
	Slides int        `json:"slides"`
	Errors []CLIError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <deck.md>",
		Short: "Validate a deck against the format invariants",
		Long: `Validate a markdown deck.

Reports every parse error and structural invariant violation it can
find, not just the first one.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	d, errs := LoadDeck(path, parser.ParseModeCollectAll)

	// File-access failures are command errors, not deck problems.
	if d == nil && len(errs) == 1 {
		if code, msg := errorCodeAndMessage(errs[0]); code == ErrCodeNotFound || code == ErrCodeReadFailed {
			return outputCommandError(formatter, code, msg)
		}
	}

	if d != nil {
		for _, e := range deck.Validate(d) {
			errs = append(errs, e)
		}
	}

	report := &ValidationReport{
		File:  path,
		Valid: len(errs) == 0,
	}
	if d != nil {
		report.Slides = len(d.Slides)
	}
	for _, err := range errs {
		code, message := errorCodeAndMessage(err)
		report.Errors = append(report.Errors, CLIError{Code: code, Message: message})
	}

	if formatter.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
		if !report.Valid {
			return NewExitError(ExitFailure, fmt.Sprintf("deck has %d error(s)", len(errs)))
		}
		return nil
	}

	// Text format
	if report.Valid {
		fmt.Fprintf(formatter.Writer, "✓ %s is valid: %d slide(s)\n", path, report.Slides)
		return nil
	}

	fmt.Fprintf(formatter.Writer, "✗ %s is invalid\n\n", path)
	for _, err := range errs {
		printPositioned(formatter, err)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("deck has %d error(s)", len(errs)))
}
