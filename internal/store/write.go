package store

import (
	"context"
	"fmt"
	"time"

	"github.com/deckardcli/deckard/internal/deck"
)

// PutDeck imports a deck into the library and returns its content-addressed
// ID. Uses ON CONFLICT(id) DO NOTHING for idempotency - re-importing a
// byte-identical deck is a no-op and returns the same ID.
//
// The deck is serialized to canonical JSON per RFC 8785, so the stored
// form round-trips deterministically.
func (s *Store) PutDeck(ctx context.Context, d *deck.Deck) (string, error) {
	canonical, err := deck.MarshalCanonical(d)
	if err != nil {
		return "", fmt.Errorf("put deck: %w", err)
	}

	id, err := deck.DeckID(d)
	if err != nil {
		return "", fmt.Errorf("put deck: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("put deck: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO decks (id, title, source_path, slide_count, canonical, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		id,
		d.Title,
		d.SourceName,
		len(d.Slides),
		canonical,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("put deck: %w", err)
	}

	for i := range d.Slides {
		sl := &d.Slides[i]
		slideID, err := deck.SlideID(id, sl)
		if err != nil {
			return "", fmt.Errorf("put deck: slide %d: %w", i, err)
		}

		hasNote := 0
		if sl.Note != nil {
			hasNote = 1
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO slides (deck_id, idx, id, heading, exhibit_count, has_note)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(deck_id, idx) DO NOTHING
		`,
			id,
			sl.Index,
			slideID,
			sl.Heading,
			len(sl.Exhibits),
			hasNote,
		)
		if err != nil {
			return "", fmt.Errorf("put deck: slide %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("put deck: commit: %w", err)
	}

	return id, nil
}
