// Package store provides the durable deck library.
//
// Decks are stored content-addressed: the primary key is deck.DeckID
// over the canonical JSON form, so importing the same deck twice is a
// no-op. Slides are stored alongside with their presentation order,
// which reads always preserve (ORDER BY idx ASC). Presenter sessions
// persist their current slide so a reconnecting presenter resumes.
package store
