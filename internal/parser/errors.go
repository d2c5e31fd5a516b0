package parser

import "fmt"

// Parse error codes (E140-E159)
const (
	ErrCodeEmptyDeck         = "E140" // no content at all
	ErrCodeBadFrontmatter    = "E141" // frontmatter is not valid YAML
	ErrCodeOpenFrontmatter   = "E142" // frontmatter never closed
	ErrCodeUnterminatedFence = "E143" // fence opened but never closed
	ErrCodeDuplicateNote     = "E144" // second ??? marker in one slide
	ErrCodeEmptySlideBlock   = "E145" // delimiter produced an empty slide block
)

// Position locates a parse error in the deck source.
type Position struct {
	File string `json:"file,omitempty"`
	Line int    `json:"line"` // 1-based, 0 if unknown
}

// IsValid reports whether the position carries a usable line number.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// ParseError represents an error in the deck source.
type ParseError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Pos     Position `json:"pos"`
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Pos.IsValid() {
		if e.Pos.File != "" {
			return fmt.Sprintf("%s:%d: %s: %s", e.Pos.File, e.Pos.Line, e.Code, e.Message)
		}
		return fmt.Sprintf("line %d: %s: %s", e.Pos.Line, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code, file string, line int, format string, args ...any) *ParseError {
	return &ParseError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Pos:     Position{File: file, Line: line},
	}
}
