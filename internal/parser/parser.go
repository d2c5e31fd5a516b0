// Package parser turns deck source text into the deck model.
//
// The grammar is deliberately small: optional YAML frontmatter, slides
// separated by horizontal-rule lines, fenced exhibits, and an optional
// trailing ??? speaker-note section per slide. Everything inside a fence
// or a note is verbatim; delimiters there do not split slides.
package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/deckardcli/deckard/internal/deck"
)

// ParseMode controls how errors are handled during parsing.
type ParseMode int

const (
	// ParseModeFailFast stops on the first error encountered.
	ParseModeFailFast ParseMode = iota
	// ParseModeCollectAll collects all errors before returning.
	ParseModeCollectAll
)

// Parse parses deck source, stopping at the first error.
// The file name is used for error positions only; it may be empty.
func Parse(file string, src []byte) (*deck.Deck, error) {
	d, errs := parse(file, src, ParseModeFailFast)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return d, nil
}

// ParseAll parses deck source, collecting every error it can find.
// The returned deck holds whatever parsed cleanly and may be partial
// when errors are present.
func ParseAll(file string, src []byte) (*deck.Deck, []error) {
	return parse(file, src, ParseModeCollectAll)
}

// ParseFile reads and parses a deck from disk.
func ParseFile(path string) (*deck.Deck, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck: %w", err)
	}
	return Parse(path, src)
}

func parse(file string, src []byte, mode ParseMode) (*deck.Deck, []error) {
	var errs []error

	text := normalizeNewlines(string(src))
	if strings.TrimSpace(text) == "" {
		return nil, []error{newError(ErrCodeEmptyDeck, file, 0, "deck source is empty")}
	}
	lines := strings.Split(text, "\n")

	fm, body, bodyStart, err := splitFrontmatter(file, lines)
	if err != nil {
		return nil, []error{err}
	}

	blocks, splitErrs := splitSlides(file, body, bodyStart)
	for _, e := range splitErrs {
		errs = append(errs, e)
		if mode == ParseModeFailFast {
			return nil, errs
		}
	}
	if len(blocks) == 0 && len(errs) == 0 {
		return nil, []error{newError(ErrCodeEmptyDeck, file, bodyStart, "deck has no slides")}
	}

	d := &deck.Deck{SourceName: file}
	fm.apply(d)

	for i, b := range blocks {
		slide, slideErrs := parseSlide(file, b, i)
		for _, e := range slideErrs {
			errs = append(errs, e)
			if mode == ParseModeFailFast {
				return nil, errs
			}
		}
		d.Slides = append(d.Slides, *slide)
	}

	// Title falls back to the first slide's heading (hugo-style).
	if d.Title == "" && len(d.Slides) > 0 {
		d.Title = d.Slides[0].Heading
	}

	return d, errs
}

// normalizeNewlines converts CRLF and bare CR line endings to LF.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// block is a run of source lines belonging to one slide.
type block struct {
	lines     []string
	startLine int // 1-based line number of lines[0] in the source
}

// isDelimiter reports whether a line is a slide delimiter: a horizontal
// rule written as ---, ***, or ___ alone on the line.
func isDelimiter(line string) bool {
	switch strings.TrimRight(line, " \t") {
	case "---", "***", "___":
		return true
	}
	return false
}

// fenceMarker returns the fence rune and marker length if the line opens
// (or closes) a fenced code block, or 0 otherwise.
func fenceMarker(line string) (rune, int, string) {
	trimmed := strings.TrimLeft(line, " \t")
	for _, ch := range []byte{'`', '~'} {
		n := 0
		for n < len(trimmed) && trimmed[n] == ch {
			n++
		}
		if n >= 3 {
			return rune(ch), n, strings.TrimSpace(trimmed[n:])
		}
	}
	return 0, 0, ""
}

// splitSlides divides body lines into slide blocks. Delimiters inside
// fenced code blocks are content, not separators.
func splitSlides(file string, lines []string, startLine int) ([]block, []error) {
	var blocks []block
	var errs []error

	cur := block{startLine: startLine}
	var fenceCh rune
	fenceLen := 0
	inFence := false

	flush := func(delimLine int) {
		if blockEmpty(cur.lines) {
			errs = append(errs, newError(ErrCodeEmptySlideBlock, file, delimLine,
				"slide delimiter produces an empty slide"))
		} else {
			blocks = append(blocks, cur)
		}
	}

	for i, line := range lines {
		abs := startLine + i

		if inFence {
			cur.lines = append(cur.lines, line)
			if ch, n, info := fenceMarker(line); ch == fenceCh && n >= fenceLen && info == "" {
				inFence = false
			}
			continue
		}

		if ch, n, _ := fenceMarker(line); ch != 0 {
			fenceCh, fenceLen = ch, n
			inFence = true
			cur.lines = append(cur.lines, line)
			continue
		}

		if isDelimiter(line) {
			flush(abs)
			cur = block{startLine: abs + 1}
			continue
		}

		cur.lines = append(cur.lines, line)
	}

	// Trailing block. An unterminated fence is reported by parseSlide,
	// which knows the opening line; here we only split.
	lastLine := startLine + len(lines)
	flush(lastLine)

	return blocks, errs
}

func blockEmpty(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// noteMarker is the line that starts the speaker-note section of a slide.
const noteMarker = "???"

// parseSlide scans one slide block for exhibits, the speaker note, and
// the heading. Body keeps everything that is neither.
func parseSlide(file string, b block, index int) (*deck.Slide, []error) {
	var errs []error
	slide := &deck.Slide{Index: index}

	var bodyLines []string
	i := 0
	for i < len(b.lines) {
		line := b.lines[i]
		abs := b.startLine + i

		// Speaker note: runs to the end of the slide, verbatim.
		if strings.TrimRight(line, " \t") == noteMarker {
			rest := b.lines[i+1:]
			// A second marker in the same slide violates the at-most-one
			// invariant. Keep the first note's text, report the second.
			for j, l := range rest {
				if strings.TrimRight(l, " \t") == noteMarker {
					errs = append(errs, newError(ErrCodeDuplicateNote, file, abs+1+j,
						"slide already has a speaker note (started at line %d)", abs))
					rest = rest[:j]
					break
				}
			}
			noteText := strings.TrimSpace(strings.Join(rest, "\n"))
			slide.Note = &deck.Note{Text: noteText, StartLine: abs}
			break
		}

		// Exhibit: fenced block, stored verbatim.
		if ch, n, info := fenceMarker(line); ch != 0 {
			exhibit, consumed, err := scanExhibit(file, b.lines[i:], abs, ch, n, info)
			if err != nil {
				errs = append(errs, err)
				i = len(b.lines)
				break
			}
			slide.Exhibits = append(slide.Exhibits, *exhibit)
			i += consumed
			continue
		}

		bodyLines = append(bodyLines, line)
		i++
	}

	slide.Heading, bodyLines = extractHeading(bodyLines)
	slide.Body = strings.TrimSpace(strings.Join(bodyLines, "\n"))

	return slide, errs
}

// scanExhibit consumes a fenced block starting at lines[0].
// Returns the exhibit and the number of lines consumed.
func scanExhibit(file string, lines []string, startLine int, ch rune, markerLen int, info string) (*deck.Exhibit, int, error) {
	for i := 1; i < len(lines); i++ {
		c, n, rest := fenceMarker(lines[i])
		if c == ch && n >= markerLen && rest == "" {
			text := strings.Join(lines[1:i], "\n")
			e := &deck.Exhibit{
				Format:    classifyExhibit(info, text),
				Lang:      langHint(info),
				Text:      text,
				StartLine: startLine,
				EndLine:   startLine + i,
			}
			return e, i + 1, nil
		}
	}
	return nil, 0, newError(ErrCodeUnterminatedFence, file, startLine,
		"code fence opened but never closed")
}

// classifyExhibit decides between a plain code exhibit and a diff exhibit.
// The info string wins; otherwise the body is sniffed for unified-diff
// markers. Classification is a rendering hint only, the text stays verbatim.
func classifyExhibit(info, text string) deck.ExhibitFormat {
	if info == "diff" {
		return deck.FormatDiff
	}
	if info != "" {
		return deck.FormatCode
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ ") || strings.HasPrefix(line, "@@") {
			return deck.FormatDiff
		}
		break
	}
	return deck.FormatCode
}

// langHint returns the language hint from a fence info string.
// The diff pseudo-language is a format, not a language.
func langHint(info string) string {
	if info == "diff" {
		return ""
	}
	// Only the first word of the info string is the language.
	if idx := strings.IndexAny(info, " \t"); idx >= 0 {
		return info[:idx]
	}
	return info
}

// extractHeading pulls the first ATX heading out of the body lines.
// Anything before the heading must be blank for it to count.
func extractHeading(lines []string) (string, []string) {
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		hashes := 0
		for hashes < len(trimmed) && trimmed[hashes] == '#' {
			hashes++
		}
		if hashes >= 1 && hashes <= 6 && hashes < len(trimmed) && trimmed[hashes] == ' ' {
			heading := strings.TrimSpace(trimmed[hashes:])
			rest := append(append([]string{}, lines[:i]...), lines[i+1:]...)
			return heading, rest
		}
		return "", lines
	}
	return "", lines
}
