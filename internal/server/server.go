// Package server implements presenter mode: it serves the rendered deck
// over HTTP and keeps every connected viewer on the presenter's slide
// via WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/deckardcli/deckard/internal/deck"
	"github.com/deckardcli/deckard/internal/render"
	"github.com/deckardcli/deckard/internal/store"
	"github.com/deckardcli/deckard/internal/theme"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Presenter mode is a local tool; viewers join from other devices
	// on the same network, so origin is not restricted.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server serves one deck for one presenter session.
type Server struct {
	deck    *deck.Deck
	theme   *theme.ThemeSpec
	store   *store.Store // nil when no library is attached
	session *store.Session
	hub     *Hub
	html    string // pre-rendered; the deck is immutable after parse
}

// New creates a presenter server for a deck.
//
// When a library store is given, the deck is imported (idempotent) and a
// session with a uuid v7 token is created, so the current slide survives
// restarts: a new server over the same deck resumes the latest live
// session, if any.
func New(ctx context.Context, d *deck.Deck, t *theme.ThemeSpec, st *store.Store) (*Server, error) {
	s := &Server{
		deck:  d,
		theme: t,
		store: st,
		html:  render.HTML(d, t, render.HTMLOptions{}),
	}

	start := 0
	var persist func(int)

	if st != nil {
		deckID, err := st.PutDeck(ctx, d)
		if err != nil {
			return nil, err
		}

		sess, err := st.LatestLiveSession(ctx, deckID)
		if errors.Is(err, store.ErrNotFound) {
			token := uuid.Must(uuid.NewV7()).String()
			sess, err = st.CreateSession(ctx, token, deckID)
		}
		if err != nil {
			return nil, err
		}
		s.session = sess
		start = sess.CurrentSlide

		token := sess.Token
		persist = func(idx int) {
			if err := st.AdvanceSession(context.Background(), token, idx); err != nil {
				log.Printf("session %s: persist slide: %v", token, err)
			}
		}
	}

	s.hub = NewHub(len(d.Slides), start, persist)
	return s, nil
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/api/deck", s.handleDeck).Methods(http.MethodGet)
	r.HandleFunc("/api/session", s.handleSession).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS)
	return r
}

// Close ends the presenter session, if one was created.
func (s *Server) Close(ctx context.Context) error {
	if s.store == nil || s.session == nil {
		return nil
	}
	return s.store.EndSession(ctx, s.session.Token)
}

// Hub exposes the hub for tests and the serve command.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(s.html))
}

// handleDeck serves the canonical JSON form of the deck.
func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	canonical, err := deck.MarshalCanonical(s.deck)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(canonical)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"current_slide": s.hub.Current(),
		"total_slides":  len(s.deck.Slides),
		"viewers":       s.hub.Viewers(),
	}
	if s.session != nil {
		resp["token"] = s.session.Token
		resp["deck_id"] = s.session.DeckID
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleWS upgrades a connection and joins it to the hub. A connection
// with ?role=presenter may navigate; everyone else only follows.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}

	presenter := r.URL.Query().Get("role") == "presenter"
	s.hub.Add(conn)
	defer func() {
		s.hub.Remove(conn)
		conn.Close()
	}()

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws: read: %v", err)
			}
			return
		}
		if presenter {
			s.hub.Apply(cmd)
		}
	}
}
