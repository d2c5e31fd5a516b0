package deck

import (
	"fmt"
	"strings"
)

// Validation error codes (E120-E139)
const (
	ErrDeckEmpty         = "E120" // deck has no slides
	ErrDeckUntitled      = "E121" // deck has no title and slide 1 has no heading
	ErrSlideEmpty        = "E122" // slide has no body, exhibits, or note
	ErrSlideIndexBroken  = "E123" // slide Index does not match position
	ErrExhibitEmpty      = "E124" // exhibit has no text
	ErrExhibitBadFormat  = "E125" // exhibit format hint is not code/diff
	ErrNoteEmpty         = "E126" // speaker note has no text
	ErrSlideNoteOnly     = "E127" // slide is only a speaker note (nothing to show)
)

// ValidationError represents a structural validation error.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Slide   int    `json:"slide,omitempty"` // 1-based slide number, 0 for deck-level
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Slide > 0 {
		return fmt.Sprintf("[%s] slide %d: %s", e.Code, e.Slide, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validate checks a deck against the structural invariants.
// Returns all errors found (does not fail-fast).
//
// The parser enforces the grammar-level invariants (at most one note per
// slide, terminated fences); Validate covers what survives a syntactically
// well-formed parse: non-empty deck, consistent slide indices, non-empty
// exhibits and notes.
func Validate(d *Deck) []ValidationError {
	var errs []ValidationError

	if len(d.Slides) == 0 {
		errs = append(errs, ValidationError{
			Code:    ErrDeckEmpty,
			Message: "deck has no slides",
		})
		return errs
	}

	if d.Title == "" {
		errs = append(errs, ValidationError{
			Code:    ErrDeckUntitled,
			Message: "deck has no title: set frontmatter title or give slide 1 a heading",
		})
	}

	for i := range d.Slides {
		errs = append(errs, validateSlide(&d.Slides[i], i)...)
	}

	return errs
}

func validateSlide(s *Slide, pos int) []ValidationError {
	var errs []ValidationError
	num := pos + 1 // 1-based for reporting

	if s.Index != pos {
		errs = append(errs, ValidationError{
			Code:    ErrSlideIndexBroken,
			Message: fmt.Sprintf("slide index %d does not match position %d", s.Index, pos),
			Slide:   num,
		})
	}

	hasBody := strings.TrimSpace(s.Body) != "" || s.Heading != ""
	if !hasBody && len(s.Exhibits) == 0 && s.Note == nil {
		errs = append(errs, ValidationError{
			Code:    ErrSlideEmpty,
			Message: "slide is empty",
			Slide:   num,
		})
	}
	if !hasBody && len(s.Exhibits) == 0 && s.Note != nil {
		errs = append(errs, ValidationError{
			Code:    ErrSlideNoteOnly,
			Message: "slide has only a speaker note and renders blank",
			Slide:   num,
		})
	}

	for j, e := range s.Exhibits {
		if !ValidExhibitFormats[e.Format] {
			errs = append(errs, ValidationError{
				Code:    ErrExhibitBadFormat,
				Message: fmt.Sprintf("exhibit %d has invalid format %q", j+1, e.Format),
				Slide:   num,
			})
		}
		if strings.TrimSpace(e.Text) == "" {
			errs = append(errs, ValidationError{
				Code:    ErrExhibitEmpty,
				Message: fmt.Sprintf("exhibit %d is empty", j+1),
				Slide:   num,
			})
		}
	}

	if s.Note != nil && strings.TrimSpace(s.Note.Text) == "" {
		errs = append(errs, ValidationError{
			Code:    ErrNoteEmpty,
			Message: "speaker note is empty",
			Slide:   num,
		})
	}

	return errs
}
