package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/deckardcli/deckard/internal/deck"
	"github.com/deckardcli/deckard/internal/parser"
)

// Error code constants - unified across all CLI commands.
// Parse codes (E14x) and validation codes (E12x) come from the
// parser and deck packages respectively.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeReadFailed  = "E002" // Deck file read error
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeLibrary     = "E008" // Deck library (store) error
	ErrCodeTheme       = "E009" // Theme load/compile error
)

// LoadError represents a file-level error that occurred before parsing.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadDeck reads and parses a deck file.
// If mode is ParseModeFailFast, returns on the first error.
// If mode is ParseModeCollectAll, collects all parse errors; the deck
// may be partial when errors are present.
func LoadDeck(path string, mode parser.ParseMode) (*deck.Deck, []error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("deck file not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing deck file: %v", err)}}
	}
	if info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("is a directory, not a deck file: %s", path)}}
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading deck file: %v", err)}}
	}

	if mode == parser.ParseModeFailFast {
		d, err := parser.Parse(path, src)
		if err != nil {
			return nil, []error{err}
		}
		return d, nil
	}
	return parser.ParseAll(path, src)
}

// errorCodeAndMessage extracts a code and message from any loader,
// parser, or validation error.
func errorCodeAndMessage(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Code, parseErr.Message
	}
	var valErr deck.ValidationError
	if errors.As(err, &valErr) {
		return valErr.Code, valErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// printPositioned writes one error in file:line form when a position is
// available, matching compiler-style diagnostics.
func printPositioned(f *OutputFormatter, err error) {
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) && parseErr.Pos.IsValid() {
		if parseErr.Pos.File != "" {
			fmt.Fprintf(f.Writer, "%s:%d\n", parseErr.Pos.File, parseErr.Pos.Line)
		} else {
			fmt.Fprintf(f.Writer, "line %d\n", parseErr.Pos.Line)
		}
	}
	code, message := errorCodeAndMessage(err)
	fmt.Fprintf(f.Writer, "  %s: %s\n\n", code, message)
}
