// Package deck defines the slide deck model and its canonical form.
//
// A Deck is an ordered sequence of Slides. Slide order is presentation
// order and is significant everywhere the model is consumed: canonical
// serialization, hashing, storage, and rendering all preserve it.
//
// The canonical JSON form (MarshalCanonical) is the only serialization
// used for content-addressed identity. DeckID and SlideID are stable
// across loads of byte-identical deck sources.
package deck
