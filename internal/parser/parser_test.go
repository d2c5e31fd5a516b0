package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckardcli/deckard/internal/deck"
)

const fixtureDeck = `---
title: Fixtures over setUp
author: Dana
theme: dark
track: testing
---
# Why fixtures

Setup methods scale poorly.

` + "```python" + `
def setUp(self):
    self.db = connect()
` + "```" + `

???
Open with the inheritance horror story.
---
# The same test, twice

` + "```diff" + `
--- a/test_cart.py
+++ b/test_cart.py
@@ -1,3 +1,3 @@
-class CartTest(BaseDBTest):
+def test_cart(db):
` + "```" + `
---
Questions?
`

func TestParseFullDeck(t *testing.T) {
	d, err := Parse("fixtures.md", []byte(fixtureDeck))
	require.NoError(t, err)

	assert.Equal(t, "Fixtures over setUp", d.Title)
	assert.Equal(t, "Dana", d.Author)
	assert.Equal(t, "dark", d.Theme)
	assert.Equal(t, map[string]string{"track": "testing"}, d.Meta)
	assert.Equal(t, "fixtures.md", d.SourceName)

	require.Len(t, d.Slides, 3)

	s0 := d.Slides[0]
	assert.Equal(t, 0, s0.Index)
	assert.Equal(t, "Why fixtures", s0.Heading)
	assert.Equal(t, "Setup methods scale poorly.", s0.Body)
	require.Len(t, s0.Exhibits, 1)
	assert.Equal(t, deck.FormatCode, s0.Exhibits[0].Format)
	assert.Equal(t, "python", s0.Exhibits[0].Lang)
	assert.Equal(t, "def setUp(self):\n    self.db = connect()", s0.Exhibits[0].Text)
	require.NotNil(t, s0.Note)
	assert.Equal(t, "Open with the inheritance horror story.", s0.Note.Text)

	s1 := d.Slides[1]
	assert.Equal(t, 1, s1.Index)
	require.Len(t, s1.Exhibits, 1)
	assert.Equal(t, deck.FormatDiff, s1.Exhibits[0].Format)
	assert.Empty(t, s1.Exhibits[0].Lang, "diff is a format, not a language")
	assert.Nil(t, s1.Note)

	s2 := d.Slides[2]
	assert.Equal(t, "Questions?", s2.Body)
	assert.Empty(t, s2.Heading)
}

func TestParseExhibitVerbatim(t *testing.T) {
	// Slide delimiters and note markers inside a fence are content.
	src := "# One\n```\n---\n???\n***\n```\n"
	d, err := Parse("", []byte(src))
	require.NoError(t, err)
	require.Len(t, d.Slides, 1)
	require.Len(t, d.Slides[0].Exhibits, 1)
	assert.Equal(t, "---\n???\n***", d.Slides[0].Exhibits[0].Text)
	assert.Nil(t, d.Slides[0].Note)
}

func TestParseDiffSniffing(t *testing.T) {
	tests := []struct {
		name string
		body string
		want deck.ExhibitFormat
	}{
		{"explicit diff info", "```diff\n+new\n```", deck.FormatDiff},
		{"bare fence with headers", "```\n--- a/f\n+++ b/f\n```", deck.FormatDiff},
		{"bare fence with hunk", "```\n@@ -1 +1 @@\n```", deck.FormatDiff},
		{"bare fence plain", "```\nprint(1)\n```", deck.FormatCode},
		{"lang wins over sniff", "```python\n--- not a diff\n```", deck.FormatCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse("", []byte("# s\n"+tt.body+"\n"))
			require.NoError(t, err)
			require.Len(t, d.Slides[0].Exhibits, 1)
			assert.Equal(t, tt.want, d.Slides[0].Exhibits[0].Format)
		})
	}
}

func TestParseDelimiterVariants(t *testing.T) {
	src := "one\n***\ntwo\n___\nthree\n"
	d, err := Parse("", []byte(src))
	require.NoError(t, err)
	require.Len(t, d.Slides, 3)
	assert.Equal(t, "one", d.Slides[0].Body)
	assert.Equal(t, "two", d.Slides[1].Body)
	assert.Equal(t, "three", d.Slides[2].Body)
}

func TestParseCRLF(t *testing.T) {
	src := "# One\r\nbody\r\n---\r\n# Two\r\n"
	d, err := Parse("", []byte(src))
	require.NoError(t, err)
	require.Len(t, d.Slides, 2)
	assert.Equal(t, "One", d.Slides[0].Heading)
	assert.Equal(t, "body", d.Slides[0].Body)
}

func TestParseTitleFallsBackToHeading(t *testing.T) {
	d, err := Parse("", []byte("# First Heading\ncontent\n"))
	require.NoError(t, err)
	assert.Equal(t, "First Heading", d.Title)
}

func TestParseHeadingMustLeadSlide(t *testing.T) {
	d, err := Parse("", []byte("text first\n# not a heading anymore\n"))
	require.NoError(t, err)
	assert.Empty(t, d.Slides[0].Heading)
	assert.Contains(t, d.Slides[0].Body, "# not a heading anymore")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantCode string
		wantLine int
	}{
		{"empty input", "", ErrCodeEmptyDeck, 0},
		{"whitespace only", "  \n\t\n", ErrCodeEmptyDeck, 0},
		{"unterminated fence", "# s\n```python\nno close\n", ErrCodeUnterminatedFence, 2},
		{"duplicate note", "# s\n???\nfirst\n???\nsecond\n", ErrCodeDuplicateNote, 0},
		{"leading delimiter", "***\n\n# s\nbody\n", ErrCodeEmptySlideBlock, 0},
		{"trailing delimiter", "# s\nbody\n---\n", ErrCodeEmptySlideBlock, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("deck.md", []byte(tt.src))
			require.Error(t, err)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.wantCode, parseErr.Code)
			if tt.wantLine > 0 {
				assert.Equal(t, tt.wantLine, parseErr.Pos.Line)
			}
		})
	}
}

func TestParseDuplicateNoteKeepsFirst(t *testing.T) {
	src := "# s\n???\nfirst note\n???\nauthored twice\n"
	d, errs := ParseAll("", []byte(src))
	require.Len(t, errs, 1)
	require.Len(t, d.Slides, 1)
	require.NotNil(t, d.Slides[0].Note)
	assert.Contains(t, d.Slides[0].Note.Text, "first note")
}

func TestParseAllCollectsErrors(t *testing.T) {
	// Two empty slide blocks: leading delimiter and a double delimiter.
	src := "***\n\nslide one\n***\n***\nslide two\n"
	_, errs := ParseAll("deck.md", []byte(src))
	assert.Len(t, errs, 2)
}

func TestParseErrorString(t *testing.T) {
	err := newError(ErrCodeUnterminatedFence, "deck.md", 12, "code fence opened but never closed")
	assert.Equal(t, "deck.md:12: E143: code fence opened but never closed", err.Error())
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.md")
	require.NoError(t, os.WriteFile(path, []byte(fixtureDeck), 0644))

	d, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, d.SourceName)
	assert.Len(t, d.Slides, 3)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.md"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading deck")
}
