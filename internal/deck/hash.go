package deck

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainDeck  = "deckard/deck/v1"
	DomainSlide = "deckard/slide/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DeckID computes the content-addressed ID for a deck.
// The ID is stable across loads of byte-identical deck sources and
// insensitive to the source file path.
func DeckID(d *Deck) (string, error) {
	canonical, err := MarshalCanonical(d)
	if err != nil {
		return "", fmt.Errorf("DeckID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDeck, canonical), nil
}

// SlideID computes the content-addressed ID for a slide within a deck.
// Includes the parent deck ID and the slide index: the same slide content
// at a different position is a different slide (order is significant).
func SlideID(deckID string, s *Slide) (string, error) {
	obj := map[string]any{
		"deck_id": deckID,
		"slide":   s.canonicalMap(),
	}
	canonical, err := marshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("SlideID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSlide, canonical), nil
}

// MustDeckID is like DeckID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustDeckID(d *Deck) string {
	id, err := DeckID(d)
	if err != nil {
		panic(err)
	}
	return id
}

// MustSlideID is like SlideID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustSlideID(deckID string, s *Slide) string {
	id, err := SlideID(deckID, s)
	if err != nil {
		panic(err)
	}
	return id
}
