package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckardcli/deckard/internal/deck"
	"github.com/deckardcli/deckard/internal/store"
	"github.com/deckardcli/deckard/internal/theme"
)

func testDeck() *deck.Deck {
	return &deck.Deck{
		Title: "Fixtures",
		Slides: []deck.Slide{
			{Index: 0, Heading: "Why fixtures", Body: "Setup methods scale poorly."},
			{Index: 1, Body: "Declare once."},
			{Index: 2, Body: "Inject anywhere."},
		},
	}
}

func newTestServer(t *testing.T, st *store.Store) (*Server, *httptest.Server) {
	t.Helper()
	s, err := New(context.Background(), testDeck(), theme.Default(), st)
	require.NoError(t, err)

	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, ts
}

func wsURL(ts *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
}

func TestHandleIndex(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
}

func TestHandleDeck(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/deck")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var d deck.Deck
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	assert.Equal(t, "Fixtures", d.Title)
	assert.Len(t, d.Slides, 3)
}

func TestHandleSession(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/session")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.EqualValues(t, 0, body["current_slide"])
	assert.EqualValues(t, 3, body["total_slides"])
	assert.NotContains(t, body, "token", "no token without a library")
}

func TestHandleHealth(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebSocketFollowsPresenter(t *testing.T) {
	_, ts := newTestServer(t, nil)

	viewer, _, err := websocket.DefaultDialer.Dial(wsURL(ts, ""), nil)
	require.NoError(t, err)
	defer viewer.Close()

	// Late joiners sync immediately.
	var ev SlideEvent
	require.NoError(t, viewer.ReadJSON(&ev))
	assert.Equal(t, "slide", ev.Type)
	assert.Equal(t, 0, ev.Index)
	assert.Equal(t, 3, ev.Total)

	presenter, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "?role=presenter"), nil)
	require.NoError(t, err)
	defer presenter.Close()
	require.NoError(t, presenter.ReadJSON(&ev)) // initial sync

	require.NoError(t, presenter.WriteJSON(Command{Type: "next"}))

	require.NoError(t, viewer.ReadJSON(&ev))
	assert.Equal(t, 1, ev.Index)
}

func TestWebSocketViewerCannotNavigate(t *testing.T) {
	s, ts := newTestServer(t, nil)

	viewer, _, err := websocket.DefaultDialer.Dial(wsURL(ts, ""), nil)
	require.NoError(t, err)
	defer viewer.Close()

	var ev SlideEvent
	require.NoError(t, viewer.ReadJSON(&ev))

	require.NoError(t, viewer.WriteJSON(Command{Type: "next"}))

	// The command is read and dropped; no navigation happens. Use a
	// presenter round trip to order the assertion after the drop.
	presenter, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "?role=presenter"), nil)
	require.NoError(t, err)
	defer presenter.Close()
	require.NoError(t, presenter.ReadJSON(&ev))
	require.NoError(t, presenter.WriteJSON(Command{Type: "goto", Index: 2}))
	require.NoError(t, presenter.ReadJSON(&ev))

	assert.Equal(t, 2, ev.Index)
	assert.Equal(t, 2, s.Hub().Current())
}

// drainEvents consumes broadcasts until the connection closes, so slow
// readers never stall the hub.
func drainEvents(conn *websocket.Conn) {
	var ev SlideEvent
	for conn.ReadJSON(&ev) == nil {
	}
}

func TestConcurrentPresentersAndLateJoins(t *testing.T) {
	s, ts := newTestServer(t, nil)

	for i := 0; i < 4; i++ {
		viewer, _, err := websocket.DefaultDialer.Dial(wsURL(ts, ""), nil)
		require.NoError(t, err)
		defer viewer.Close()
		go drainEvents(viewer)
	}

	// Nothing limits a session to one presenter; two navigating at once
	// must not corrupt connection writes.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		presenter, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "?role=presenter"), nil)
		require.NoError(t, err)
		defer presenter.Close()
		go drainEvents(presenter)

		wg.Add(1)
		go func(conn *websocket.Conn) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if err := conn.WriteJSON(Command{Type: "next"}); err != nil {
					return
				}
				if err := conn.WriteJSON(Command{Type: "goto", Index: j % 3}); err != nil {
					return
				}
			}
		}(presenter)
	}

	// Viewers joining mid-navigation race their initial sync against
	// broadcasts on the same connection.
	for i := 0; i < 10; i++ {
		late, _, err := websocket.DefaultDialer.Dial(wsURL(ts, ""), nil)
		require.NoError(t, err)

		var ev SlideEvent
		require.NoError(t, late.ReadJSON(&ev))
		assert.Equal(t, "slide", ev.Type)
		late.Close()
	}

	wg.Wait()

	current := s.Hub().Current()
	assert.GreaterOrEqual(t, current, 0)
	assert.Less(t, current, 3)
}

func TestSessionPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	s, err := New(ctx, testDeck(), theme.Default(), st)
	require.NoError(t, err)

	require.NotNil(t, s.session)
	token := s.session.Token

	s.Hub().Apply(Command{Type: "goto", Index: 2})

	sess, err := st.GetSession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 2, sess.CurrentSlide)

	require.NoError(t, s.Close(ctx))
	sess, err = st.GetSession(ctx, token)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.EndedAt)
}

func TestSessionResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	s1, err := New(ctx, testDeck(), theme.Default(), st)
	require.NoError(t, err)
	s1.Hub().Apply(Command{Type: "goto", Index: 2})

	// A second server over the same deck picks up the live session.
	s2, err := New(ctx, testDeck(), theme.Default(), st)
	require.NoError(t, err)

	assert.Equal(t, s1.session.Token, s2.session.Token)
	assert.Equal(t, 2, s2.Hub().Current())

	// Once closed, the next server starts fresh.
	require.NoError(t, s2.Close(ctx))
	s3, err := New(ctx, testDeck(), theme.Default(), st)
	require.NoError(t, err)
	assert.NotEqual(t, s1.session.Token, s3.session.Token)
	assert.Equal(t, 0, s3.Hub().Current())
}
