// Package render turns a parsed deck into presentable output.
//
// Two renderers exist: HTML for the browser and Text for the terminal.
// Both walk slides in order and treat exhibit bodies as verbatim text.
// Output is deterministic and golden-tested.
package render

import (
	"fmt"
	"strings"

	"github.com/deckardcli/deckard/internal/deck"
)

// TextOptions controls terminal rendering.
type TextOptions struct {
	Notes bool // include speaker notes
}

// Text renders the deck as plain text for the terminal.
//
// Layout per slide: a "-- slide i/n --" rule, the heading as "# ...",
// the body verbatim, exhibits indented with "  | " prefixes, and (when
// requested) the speaker note with "  ? " prefixes.
func Text(d *deck.Deck, opts TextOptions) string {
	var b strings.Builder

	if d.Title != "" {
		fmt.Fprintf(&b, "= %s =\n", d.Title)
		if byline := textByline(d); byline != "" {
			b.WriteString(byline)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	total := len(d.Slides)
	for i := range d.Slides {
		s := &d.Slides[i]
		fmt.Fprintf(&b, "-- slide %d/%d --\n", i+1, total)

		if s.Heading != "" {
			fmt.Fprintf(&b, "# %s\n", s.Heading)
		}
		if s.Body != "" {
			b.WriteString(s.Body)
			b.WriteByte('\n')
		}

		for _, e := range s.Exhibits {
			b.WriteByte('\n')
			writePrefixed(&b, "  | ", exhibitLabel(&e))
			writePrefixed(&b, "  | ", e.Text)
		}

		if opts.Notes && s.Note != nil {
			b.WriteByte('\n')
			writePrefixed(&b, "  ? ", s.Note.Text)
		}

		if i < total-1 {
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// Notes renders only the speaker notes, numbered by slide.
// Slides without a note are skipped.
func Notes(d *deck.Deck) string {
	var b strings.Builder
	total := len(d.Slides)

	for i := range d.Slides {
		s := &d.Slides[i]
		if s.Note == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "slide %d/%d:\n", i+1, total)
		writePrefixed(&b, "  ", s.Note.Text)
	}

	return b.String()
}

// textByline formats the author/date line under the title, empty when
// the deck carries neither.
func textByline(d *deck.Deck) string {
	switch {
	case d.Author != "" && d.Date != "":
		return fmt.Sprintf("%s, %s", d.Author, d.Date)
	case d.Author != "":
		return d.Author
	case d.Date != "":
		return d.Date
	}
	return ""
}

// exhibitLabel is the banner line above an exhibit body.
func exhibitLabel(e *deck.Exhibit) string {
	if e.Format == deck.FormatDiff {
		return "[diff]"
	}
	if e.Lang != "" {
		return fmt.Sprintf("[code %s]", e.Lang)
	}
	return "[code]"
}

// writePrefixed writes text line by line with a fixed prefix.
func writePrefixed(b *strings.Builder, prefix, text string) {
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteByte('\n')
	}
}
