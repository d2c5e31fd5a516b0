package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckardcli/deckard/internal/deck"
)

// newTestStore opens a fresh library in a temp directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// testDeck is a minimal two-slide deck for store tests.
func testDeck() *deck.Deck {
	return &deck.Deck{
		Title:      "Fixtures",
		SourceName: "fixtures.md",
		Slides: []deck.Slide{
			{
				Index:   0,
				Heading: "Why fixtures",
				Body:    "Setup methods scale poorly.",
			},
			{
				Index: 1,
				Body:  "Declare once, inject anywhere.",
				Exhibits: []deck.Exhibit{
					{Format: deck.FormatCode, Lang: "python", Text: "@pytest.fixture"},
				},
				Note: &deck.Note{Text: "Mention scope."},
			},
		},
	}
}

func TestOpenAppliesPragmas(t *testing.T) {
	s := newTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
}

func TestOpenSetsSchemaVersion(t *testing.T) {
	s := newTestStore(t)

	var version int
	require.NoError(t, s.DB().QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")

	s1, err := Open(path)
	require.NoError(t, err)

	id, err := s1.PutDeck(context.Background(), testDeck())
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Reopening re-applies schema and migrations without data loss.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.GetDeck(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Fixtures", got.Title)
}

func TestMigrationCreatesSessionIndex(t *testing.T) {
	s := newTestStore(t)

	var name string
	err := s.DB().QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type = 'index' AND name = 'idx_sessions_deck'
	`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "idx_sessions_deck", name)
}
