package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/amterp/gig/internal/service"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	pingInterval   = 30 * time.Second
	readTimeout    = 60 * time.Second
	writeTimeout   = 10 * time.Second
	listenerBuffer = 64
)

// KindHello is the first update every listener receives. Its Seq is the
// number of changes already broadcast.
const KindHello = "hello"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Localhost only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveUpdate is one message on the live update stream. Seq grows by one per
// change, so a client that sees a gap should refetch the board.
type LiveUpdate struct {
	Seq       uint64    `json:"seq"`
	Kind      string    `json:"kind"`
	EntityID  string    `json:"entityId,omitempty"`
	Persisted bool      `json:"persisted"`
	At        time.Time `json:"at"`
}

// LiveHub fans data store changes out to WebSocket listeners.
type LiveHub struct {
	mu        sync.Mutex
	seq       uint64
	listeners map[*listener]struct{}
	closed    bool
}

type listener struct {
	conn    *websocket.Conn
	updates chan []byte
	done    chan struct{}
	once    sync.Once
}

func newListener(conn *websocket.Conn) *listener {
	return &listener{
		conn:    conn,
		updates: make(chan []byte, listenerBuffer),
		done:    make(chan struct{}),
	}
}

func (l *listener) stop() {
	l.once.Do(func() { close(l.done) })
}

// NewLiveHub creates an empty hub.
func NewLiveHub() *LiveHub {
	return &LiveHub{listeners: make(map[*listener]struct{})}
}

// OnChange broadcasts a data store change. Pass it to DataStore.Subscribe.
// Listeners that cannot keep up are disconnected.
func (h *LiveHub) OnChange(event service.ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	data, err := json.Marshal(LiveUpdate{
		Seq:       h.seq,
		Kind:      string(event.Kind),
		EntityID:  event.EntityID,
		Persisted: event.Persisted,
		At:        event.At,
	})
	if err != nil {
		log.WithError(err).Warn("Failed to encode live update")
		return
	}

	for l := range h.listeners {
		select {
		case l.updates <- data:
		default:
			delete(h.listeners, l)
			l.stop()
			log.WithField("seq", h.seq).Warn("Disconnected slow live update listener")
		}
	}
}

// join registers l and queues its hello. Returns false once the hub is closed.
func (h *LiveHub) join(l *listener) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	hello, err := json.Marshal(LiveUpdate{Seq: h.seq, Kind: KindHello, Persisted: true, At: time.Now().UTC()})
	if err != nil {
		return false
	}
	l.updates <- hello
	h.listeners[l] = struct{}{}
	return true
}

func (h *LiveHub) leave(l *listener) {
	h.mu.Lock()
	delete(h.listeners, l)
	h.mu.Unlock()
	l.stop()
}

// Close disconnects every listener and rejects new ones.
func (h *LiveHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for l := range h.listeners {
		delete(h.listeners, l)
		l.stop()
	}
}

// Listeners returns the number of connected listeners.
func (h *LiveHub) Listeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

// ServeWS upgrades the request and streams LiveUpdates until either side
// goes away.
func (h *LiveHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	l := newListener(conn)
	if !h.join(l) {
		conn.Close()
		return
	}
	log.WithField("remote", r.RemoteAddr).Debug("Live update listener connected")

	go l.writeLoop()
	go h.readLoop(l)
}

// readLoop discards client frames; a read error means the client left.
func (h *LiveHub) readLoop(l *listener) {
	defer h.leave(l)

	l.conn.SetReadLimit(512)
	l.conn.SetReadDeadline(time.Now().Add(readTimeout))
	l.conn.SetPongHandler(func(string) error {
		return l.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		if _, _, err := l.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Debug("Live update listener read failed")
			}
			return
		}
	}
}

func (l *listener) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		l.conn.Close()
	}()

	for {
		select {
		case data := <-l.updates:
			l.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := l.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			l.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := l.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-l.done:
			l.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			l.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
