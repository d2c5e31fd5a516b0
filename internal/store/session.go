package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Session is a presenter session over a stored deck.
type Session struct {
	Token        string `json:"token"`
	DeckID       string `json:"deck_id"`
	CurrentSlide int    `json:"current_slide"`
	StartedAt    string `json:"started_at"`
	EndedAt      string `json:"ended_at,omitempty"`
}

// CreateSession records a new presenter session starting at slide 0.
// The token is caller-supplied (uuid v7 from the server).
func (s *Store) CreateSession(ctx context.Context, token, deckID string) (*Session, error) {
	startedAt := time.Now().UTC().Format(time.RFC3339)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, deck_id, current_slide, started_at)
		VALUES (?, ?, 0, ?)
	`, token, deckID, startedAt)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &Session{
		Token:        token,
		DeckID:       deckID,
		CurrentSlide: 0,
		StartedAt:    startedAt,
	}, nil
}

// GetSession loads a session by token.
func (s *Store) GetSession(ctx context.Context, token string) (*Session, error) {
	var sess Session
	var endedAt sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT token, deck_id, current_slide, started_at, ended_at
		FROM sessions WHERE token = ?
	`, token).Scan(&sess.Token, &sess.DeckID, &sess.CurrentSlide, &sess.StartedAt, &endedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", token, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if endedAt.Valid {
		sess.EndedAt = endedAt.String
	}
	return &sess, nil
}

// LatestLiveSession returns the most recently started session over a
// deck that has not ended, or ErrNotFound.
func (s *Store) LatestLiveSession(ctx context.Context, deckID string) (*Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx, `
		SELECT token, deck_id, current_slide, started_at
		FROM sessions
		WHERE deck_id = ? AND ended_at IS NULL
		ORDER BY started_at DESC, token DESC
		LIMIT 1
	`, deckID).Scan(&sess.Token, &sess.DeckID, &sess.CurrentSlide, &sess.StartedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("deck %s: live session: %w", deckID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest live session: %w", err)
	}
	return &sess, nil
}

// AdvanceSession persists the presenter's current slide so a reconnect
// resumes in place. The index must already be clamped by the caller.
func (s *Store) AdvanceSession(ctx context.Context, token string, slide int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET current_slide = ? WHERE token = ? AND ended_at IS NULL
	`, slide, token)
	if err != nil {
		return fmt.Errorf("advance session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("advance session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", token, ErrNotFound)
	}
	return nil
}

// EndSession marks a session finished. Ending an already-ended or
// unknown session is an error.
func (s *Store) EndSession(ctx context.Context, token string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET ended_at = ? WHERE token = ? AND ended_at IS NULL
	`, time.Now().UTC().Format(time.RFC3339), token)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", token, ErrNotFound)
	}
	return nil
}
