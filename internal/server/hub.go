package server

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"PriceDashboard/internal/dashboard"
	"PriceDashboard/internal/loader"
	"PriceDashboard/internal/model"
)

const (
	pingInterval = 45 * time.Second
	readTimeout  = 90 * time.Second
	writeTimeout = 10 * time.Second
	clientBuffer = 16
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin:       func(*http.Request) bool { return true },
	EnableCompression: true,
}

type client struct {
	conn *websocket.Conn
	out  chan model.DisplayState
	done chan struct{}

	mu       sync.Mutex
	controls model.Controls
}

func (c *client) getControls() model.Controls {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controls
}

func (c *client) setControls(ctrl model.Controls) {
	c.mu.Lock()
	c.controls = ctrl.Normalize()
	c.mu.Unlock()
}

// push drops the state when the client is not keeping up; the next refresh supersedes it.
func (c *client) push(s model.DisplayState) {
	select {
	case c.out <- s:
	default:
	}
}

// Hub keeps one set of controls per websocket client and pushes a freshly
// computed DisplayState to each of them on every refresh and control change.
type Hub struct {
	Engine *dashboard.Engine
	Loader *loader.Loader
	Now    func() time.Time

	mu      sync.RWMutex
	clients map[*client]struct{}
	series  model.TimeSeries
	loaded  bool
}

// NewHub creates a Hub. The loader seeds the series until the first broadcast.
func NewHub(eng *dashboard.Engine, ld *loader.Loader) *Hub {
	return &Hub{
		Engine:  eng,
		Loader:  ld,
		Now:     time.Now,
		clients: make(map[*client]struct{}),
	}
}

// Broadcast stores the series and pushes a state to every client.
func (h *Hub) Broadcast(series model.TimeSeries, now time.Time) {
	h.mu.Lock()
	h.series = series
	h.loaded = true
	h.mu.Unlock()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.push(h.Engine.ComputeState(series, c.getControls(), now))
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) snapshot(ctx context.Context) model.TimeSeries {
	h.mu.RLock()
	series, loaded := h.series, h.loaded
	h.mu.RUnlock()
	if loaded || h.Loader == nil {
		return series
	}
	return h.Loader.Load(ctx).Series
}

func (h *Hub) stateFor(ctx context.Context, c *client) model.DisplayState {
	return h.Engine.ComputeState(h.snapshot(ctx), c.getControls(), h.Now())
}

// ServeWS upgrades the connection. The client sends Controls as JSON text
// messages and receives a DisplayState after each one.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WARN] websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	cl := &client{
		conn:     conn,
		out:      make(chan model.DisplayState, clientBuffer),
		done:     make(chan struct{}),
		controls: model.DefaultControls(),
	}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	defer func() {
		close(cl.done)
		h.mu.Lock()
		delete(h.clients, cl)
		h.mu.Unlock()
	}()

	go h.writeLoop(cl)
	cl.push(h.stateFor(r.Context(), cl))

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})
	for {
		var ctrl model.Controls
		if err := conn.ReadJSON(&ctrl); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WARN] websocket read: %v", err)
			}
			return
		}
		cl.setControls(ctrl)
		cl.push(h.stateFor(r.Context(), cl))
	}
}

func (h *Hub) writeLoop(cl *client) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case s := <-cl.out:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := cl.conn.WriteJSON(s); err != nil {
				log.Printf("[WARN] websocket write: %v", err)
				cl.conn.Close()
				return
			}
		case <-ping.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-cl.done:
			return
		}
	}
}
