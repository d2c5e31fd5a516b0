package render

import (
	"github.com/deckardcli/deckard/internal/deck"
)

// fixtureDeck covers the renderer surface: paragraphs, a code exhibit
// with a language hint, a diff exhibit, a speaker note, and a slide with
// no heading.
func fixtureDeck() *deck.Deck {
	return &deck.Deck{
		Title:  "Fixtures",
		Author: "Sam",
		Date:   "2024-03-01",
		Slides: []deck.Slide{
			{
				Index:   0,
				Heading: "Why fixtures",
				Body:    "Setup methods scale poorly.\n\nFixtures compose.",
			},
			{
				Index:   1,
				Heading: "A fixture",
				Body:    "Declare once, inject anywhere.",
				Exhibits: []deck.Exhibit{
					{
						Format: deck.FormatCode,
						Lang:   "python",
						Text:   "@pytest.fixture\ndef db():\n    return connect()",
					},
				},
				Note: &deck.Note{Text: "Mention scope here."},
			},
			{
				Index: 2,
				Exhibits: []deck.Exhibit{
					{
						Format: deck.FormatDiff,
						Text:   "--- a/test_db.py\n+++ b/test_db.py\n@@ -1,3 +1,2 @@\n-def setUp(self):\n+def db():",
					},
				},
			},
		},
	}
}
