package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDeckRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d := testDeck()
	id, err := s.PutDeck(ctx, d)
	require.NoError(t, err)

	got, err := s.GetDeck(ctx, id)
	require.NoError(t, err)

	// The canonical form carries everything but the source name, which
	// is restored from its own column.
	assert.Equal(t, d, got)
	assert.Equal(t, "fixtures.md", got.SourceName)
}

func TestGetDeckNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetDeck(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListDecksEmpty(t *testing.T) {
	s := newTestStore(t)

	records, err := s.ListDecks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestListSlidesEmpty(t *testing.T) {
	s := newTestStore(t)

	slides, err := s.ListSlides(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.NotNil(t, slides)
	assert.Empty(t, slides)
}

func TestListSlidesOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.PutDeck(ctx, testDeck())
	require.NoError(t, err)

	slides, err := s.ListSlides(ctx, id)
	require.NoError(t, err)
	require.Len(t, slides, 2)

	for i, sl := range slides {
		assert.Equal(t, i, sl.Index)
		assert.Equal(t, id, sl.DeckID)
	}
}
