package render

import (
	"strings"

	"github.com/deckardcli/deckard/internal/deck"
)

// Stats summarizes a deck's structure.
type Stats struct {
	Slides       int `json:"slides"`
	Exhibits     int `json:"exhibits"`
	CodeExhibits int `json:"code_exhibits"`
	DiffExhibits int `json:"diff_exhibits"`
	Notes        int `json:"notes"`
	BodyWords    int `json:"body_words"` // exhibit and note text excluded
}

// ComputeStats walks the deck and counts its parts.
func ComputeStats(d *deck.Deck) Stats {
	stats := Stats{Slides: len(d.Slides)}

	for i := range d.Slides {
		s := &d.Slides[i]
		stats.Exhibits += len(s.Exhibits)
		for _, e := range s.Exhibits {
			if e.Format == deck.FormatDiff {
				stats.DiffExhibits++
			} else {
				stats.CodeExhibits++
			}
		}
		if s.Note != nil {
			stats.Notes++
		}
		stats.BodyWords += len(strings.Fields(s.Heading)) + len(strings.Fields(s.Body))
	}

	return stats
}
