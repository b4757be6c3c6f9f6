package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"wmx-replay/apps/server/internal/store"
	"wmx-replay/replay"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Connection is one client watching one hand.
type Connection struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	Gateway *Gateway
	HandRef string

	done      chan struct{}
	closeOnce sync.Once
}

// Gateway streams replay tapes over WebSocket.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	nextConnID  uint64
	store       store.Service
	pacing      time.Duration
	log         zerolog.Logger
}

func New(svc store.Service, pacing time.Duration, log zerolog.Logger) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		store:       svc,
		pacing:      pacing,
		log:         log.With().Str("component", "gateway").Logger(),
	}
}

// HandleReplay serves GET /ws/replay?tournament=<id>&hand=<n>. Lookup
// failures are answered as plain HTTP errors before the upgrade.
func (g *Gateway) HandleReplay(w http.ResponseWriter, r *http.Request) {
	tournamentID := r.URL.Query().Get("tournament")
	number, err := strconv.Atoi(r.URL.Query().Get("hand"))
	if tournamentID == "" || err != nil || number < 1 {
		http.Error(w, "tournament and hand are required", http.StatusBadRequest)
		return
	}

	hand, err := g.store.GetHand(r.Context(), tournamentID, number)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "hand not found", http.StatusNotFound)
			return
		}
		g.log.Error().Err(err).Str("tournament", tournamentID).Int("hand", number).Msg("load hand failed")
		http.Error(w, "failed to load hand", http.StatusInternalServerError)
		return
	}
	tape, err := replay.BuildTape(hand)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn().Err(err).Msg("upgrade failed")
		return
	}

	g.mu.Lock()
	g.nextConnID++
	c := &Connection{
		ID:      fmt.Sprintf("conn_%d", g.nextConnID),
		Conn:    conn,
		Send:    make(chan []byte, 16),
		Gateway: g,
		HandRef: fmt.Sprintf("%s#%d", tournamentID, number),
		done:    make(chan struct{}),
	}
	g.connections[c.ID] = c
	total := len(g.connections)
	g.mu.Unlock()

	g.log.Info().Str("conn", c.ID).Str("hand", c.HandRef).Int("events", len(tape.Events)).Int("total", total).Msg("replay started")

	go c.readPump()
	go c.stream(tape)
	c.writePump()
}

// stream queues one frame per event, waiting the gateway pacing between
// frames, and closes Send once the tape is exhausted.
func (c *Connection) stream(tape *replay.ReplayTape) {
	defer close(c.Send)
	for i, ev := range tape.Events {
		if i > 0 && c.Gateway.pacing > 0 {
			select {
			case <-time.After(c.Gateway.pacing):
			case <-c.done:
				return
			}
		}
		frame, err := json.Marshal(ev)
		if err != nil {
			c.Gateway.log.Error().Err(err).Str("conn", c.ID).Uint64("seq", ev.Seq).Msg("marshal event failed")
			return
		}
		select {
		case c.Send <- frame:
		case <-c.done:
			return
		}
	}
}

// readPump only drains control frames so a client close is noticed.
func (c *Connection) readPump() {
	defer c.shutdown()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.Gateway.log.Debug().Err(err).Str("conn", c.ID).Msg("read error")
			}
			return
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.shutdown()
		c.Conn.Close()
		c.Gateway.removeConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replay complete"))
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

func (c *Connection) shutdown() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.connections, c.ID)
	g.log.Info().Str("conn", c.ID).Int("total", len(g.connections)).Msg("replay closed")
}

// Active reports how many replays are streaming.
func (g *Gateway) Active() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.connections)
}
