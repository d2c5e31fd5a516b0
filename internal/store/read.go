package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/deckardcli/deckard/internal/deck"
)

// ErrNotFound is returned when a deck or session does not exist.
var ErrNotFound = errors.New("not found")

// DeckRecord summarizes a stored deck.
type DeckRecord struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	SourcePath string `json:"source_path,omitempty"`
	SlideCount int    `json:"slide_count"`
	ImportedAt string `json:"imported_at"`
}

// GetDeck loads a deck from the library by ID.
// The deck is reconstructed from its canonical JSON form.
func (s *Store) GetDeck(ctx context.Context, id string) (*deck.Deck, error) {
	var canonical []byte
	var sourcePath string
	err := s.db.QueryRowContext(ctx, `
		SELECT canonical, source_path FROM decks WHERE id = ?
	`, id).Scan(&canonical, &sourcePath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("deck %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get deck: %w", err)
	}

	var d deck.Deck
	if err := json.Unmarshal(canonical, &d); err != nil {
		return nil, fmt.Errorf("get deck: unmarshal canonical: %w", err)
	}
	d.SourceName = sourcePath

	return &d, nil
}

// ListDecks returns all stored decks, most recently imported first.
// Ties are broken by id for deterministic output.
//
// Returns an empty slice (not nil) when the library is empty.
func (s *Store) ListDecks(ctx context.Context) ([]DeckRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, source_path, slide_count, imported_at
		FROM decks
		ORDER BY imported_at DESC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	var records []DeckRecord
	for rows.Next() {
		var r DeckRecord
		if err := rows.Scan(&r.ID, &r.Title, &r.SourcePath, &r.SlideCount, &r.ImportedAt); err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decks: %w", err)
	}

	if records == nil {
		records = []DeckRecord{}
	}
	return records, nil
}

// SlideRecord summarizes one stored slide.
type SlideRecord struct {
	DeckID       string `json:"deck_id"`
	Index        int    `json:"index"`
	ID           string `json:"id"`
	Heading      string `json:"heading,omitempty"`
	ExhibitCount int    `json:"exhibit_count"`
	HasNote      bool   `json:"has_note"`
}

// ListSlides returns the slide records for a deck in presentation order.
func (s *Store) ListSlides(ctx context.Context, deckID string) ([]SlideRecord, error) {
	// Slide order is significant: always idx ASC.
	rows, err := s.db.QueryContext(ctx, `
		SELECT deck_id, idx, id, heading, exhibit_count, has_note
		FROM slides
		WHERE deck_id = ?
		ORDER BY idx ASC
	`, deckID)
	if err != nil {
		return nil, fmt.Errorf("list slides: %w", err)
	}
	defer rows.Close()

	var records []SlideRecord
	for rows.Next() {
		var r SlideRecord
		var hasNote int
		if err := rows.Scan(&r.DeckID, &r.Index, &r.ID, &r.Heading, &r.ExhibitCount, &hasNote); err != nil {
			return nil, fmt.Errorf("scan slide: %w", err)
		}
		r.HasNote = hasNote != 0
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slides: %w", err)
	}

	if records == nil {
		records = []SlideRecord{}
	}
	return records, nil
}
