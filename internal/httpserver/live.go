package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle-registry/internal/engine"
	"github.com/robalobadob/wordle-registry/internal/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	writeWait  = 10 * time.Second
	sendBuffer = 8
)

// liveClient is one websocket watching one game.
type liveClient struct {
	conn   *websocket.Conn
	send   chan engine.GameView
	gameID string
	sent   int // GuessesUsed of the newest view queued, guarded by Live.mu
}

// Live fans accepted guesses out to websocket watchers, keyed by game id.
// A watcher that falls sendBuffer views behind is dropped.
type Live struct {
	mu      sync.Mutex
	clients map[string]map[*liveClient]struct{}
	closed  bool
	log     zerolog.Logger
}

// NewLive returns an empty feed.
func NewLive(logger zerolog.Logger) *Live {
	return &Live{clients: make(map[string]map[*liveClient]struct{}), log: logger}
}

// Publish delivers v to every watcher of v.ID without blocking. Views no newer
// than the last one queued for a watcher are skipped, so a late publish never
// overwrites a newer board.
func (l *Live) Publish(v engine.GameView) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for c := range l.clients[v.ID] {
		if v.GuessesUsed <= c.sent {
			continue
		}
		select {
		case c.send <- v:
			c.sent = v.GuessesUsed
		default:
			l.log.Warn().Str("gameId", v.ID).Msg("live watcher too slow; dropping")
			l.removeLocked(c)
		}
	}
}

// Watchers returns how many sockets watch id.
func (l *Live) Watchers(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients[id])
}

// Close disconnects every watcher and refuses new ones.
func (l *Live) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	for _, set := range l.clients {
		for c := range set {
			l.removeLocked(c)
			_ = c.conn.Close()
		}
	}
}

// register adds c and queues first as its initial view. Both happen under the
// feed lock so no published view can slip in between.
func (l *Live) register(c *liveClient, first func() (engine.GameView, bool)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	v, ok := first()
	if !ok {
		return false
	}
	set := l.clients[c.gameID]
	if set == nil {
		set = make(map[*liveClient]struct{})
		l.clients[c.gameID] = set
	}
	set[c] = struct{}{}
	c.send <- v
	c.sent = v.GuessesUsed
	return true
}

func (l *Live) unregister(c *liveClient) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removeLocked(c)
}

// removeLocked assumes l.mu is held. Closing send ends the write pump.
func (l *Live) removeLocked(c *liveClient) {
	set, ok := l.clients[c.gameID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(l.clients, c.gameID)
	}
}

// handleLive upgrades to a websocket that receives the game's view now and
// after every accepted guess. Incoming messages are ignored.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.engine.GetGame(id); !ok {
		writeError(w, http.StatusNotFound, "not_found", game.ErrNotFound.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Str("gameId", id).Msg("websocket upgrade")
		return
	}

	c := &liveClient{conn: conn, send: make(chan engine.GameView, sendBuffer), gameID: id}
	if !s.live.register(c, func() (engine.GameView, bool) { return s.engine.GetGame(id) }) {
		_ = conn.Close()
		return
	}

	go c.writePump()
	c.readPump(s.live)
}

func (c *liveClient) readPump(l *Live) {
	defer func() {
		l.unregister(c)
		_ = c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *liveClient) writePump() {
	defer c.conn.Close()
	for v := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(v); err != nil {
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}
