package render

import "strings"

// DiffLineKind classifies one line of a diff exhibit.
// Classification drives styling only; the line text stays verbatim.
type DiffLineKind string

const (
	DiffContext DiffLineKind = "context"
	DiffAdd     DiffLineKind = "add"
	DiffDel     DiffLineKind = "del"
	DiffHunk    DiffLineKind = "hunk"
	DiffHeader  DiffLineKind = "header" // --- a/foo, +++ b/foo
)

// DiffLine is a classified line of a diff exhibit.
type DiffLine struct {
	Kind DiffLineKind `json:"kind"`
	Text string       `json:"text"` // verbatim, including the marker
}

// ClassifyDiff splits a diff exhibit body into classified lines.
//
// The --- / +++ file headers only appear before the first hunk; after a
// @@ line a leading --- is a deletion, not a header.
func ClassifyDiff(text string) []DiffLine {
	if text == "" {
		return nil
	}

	rawLines := strings.Split(text, "\n")
	lines := make([]DiffLine, len(rawLines))
	seenHunk := false

	for i, raw := range rawLines {
		kind := DiffContext
		switch {
		case strings.HasPrefix(raw, "@@"):
			kind = DiffHunk
			seenHunk = true
		case !seenHunk && (strings.HasPrefix(raw, "--- ") || strings.HasPrefix(raw, "+++ ")):
			kind = DiffHeader
		case strings.HasPrefix(raw, "+"):
			kind = DiffAdd
		case strings.HasPrefix(raw, "-"):
			kind = DiffDel
		}
		lines[i] = DiffLine{Kind: kind, Text: raw}
	}

	return lines
}
