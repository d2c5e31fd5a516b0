package render

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/deckardcli/deckard/internal/deck"
)

func TestTextGolden(t *testing.T) {
	out := Text(fixtureDeck(), TextOptions{Notes: true})

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "deck_text", []byte(out))
}

func TestTextWithoutNotes(t *testing.T) {
	out := Text(fixtureDeck(), TextOptions{})

	assert.NotContains(t, out, "  ? ")
	assert.Contains(t, out, "-- slide 2/3 --")
}

func TestTextUntitled(t *testing.T) {
	d := &deck.Deck{Slides: []deck.Slide{{Body: "hello"}}}
	out := Text(d, TextOptions{})

	assert.Equal(t, "-- slide 1/1 --\nhello\n", out)
}

func TestTextByline(t *testing.T) {
	tests := []struct {
		name   string
		author string
		date   string
		want   string
	}{
		{"both", "Sam", "2024-03-01", "Sam, 2024-03-01"},
		{"author only", "Sam", "", "Sam"},
		{"date only", "", "2024-03-01", "2024-03-01"},
		{"neither", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &deck.Deck{Author: tt.author, Date: tt.date}
			assert.Equal(t, tt.want, textByline(d))
		})
	}
}

func TestNotes(t *testing.T) {
	out := Notes(fixtureDeck())
	assert.Equal(t, "slide 2/3:\n  Mention scope here.\n", out)
}

func TestNotesEmpty(t *testing.T) {
	d := &deck.Deck{Slides: []deck.Slide{{Body: "no note"}}}
	assert.Empty(t, Notes(d))
}
