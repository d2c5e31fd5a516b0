package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/deckardcli/deckard/internal/deck"
)

// frontmatter holds the parsed YAML header of a deck source.
type frontmatter struct {
	title  string
	author string
	date   string
	theme  string
	meta   map[string]string
}

// splitFrontmatter extracts an optional YAML frontmatter block from the
// top of the source. Returns the parsed header (nil if absent), the
// remaining lines, and the 1-based line number the body starts at.
//
// The opening --- must be the very first line. The block runs to the next
// --- line; a file whose first line is --- but that never closes the block
// is malformed rather than a deck starting with a slide delimiter.
func splitFrontmatter(file string, lines []string) (*frontmatter, []string, int, error) {
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != "---" {
		return nil, lines, 1, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return nil, nil, 0, newError(ErrCodeOpenFrontmatter, file, 1, "frontmatter opened but never closed")
	}

	raw := strings.Join(lines[1:end], "\n")
	var fields map[string]any
	if err := yaml.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, nil, 0, newError(ErrCodeBadFrontmatter, file, 2, "invalid YAML frontmatter: %v", err)
	}

	fm := &frontmatter{}
	for k, v := range fields {
		val := scalarString(v)
		switch k {
		case "title":
			fm.title = val
		case "author":
			fm.author = val
		case "date":
			fm.date = val
		case "theme":
			fm.theme = val
		default:
			if fm.meta == nil {
				fm.meta = make(map[string]string)
			}
			fm.meta[k] = val
		}
	}

	return fm, lines[end+1:], end + 2, nil
}

// scalarString renders a frontmatter value as a string. YAML scalars come
// back as string/int/bool/float depending on their spelling; the deck model
// keeps them all as strings.
func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

// apply copies frontmatter fields onto the deck.
func (fm *frontmatter) apply(d *deck.Deck) {
	if fm == nil {
		return
	}
	d.Title = fm.title
	d.Author = fm.author
	d.Date = fm.date
	d.Theme = fm.theme
	if len(fm.meta) > 0 {
		d.Meta = fm.meta
	}
}
