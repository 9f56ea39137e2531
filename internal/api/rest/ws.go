package rest

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	zlog "github.com/rs/zerolog/log"

	"github.com/soracane/voxboard/internal/app/filter"
	"github.com/soracane/voxboard/internal/app/notification"
	"github.com/soracane/voxboard/internal/app/playback"
	"github.com/soracane/voxboard/internal/app/search"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsMessage is the envelope for all server-to-client websocket frames.
type wsMessage struct {
	Type     string              `json:"type"`
	Event    string              `json:"event,omitempty"`
	Snapshot *snapshotJSON       `json:"snapshot,omitempty"`
	Toast    *notification.Toast `json:"toast,omitempty"`
	Query    string              `json:"query,omitempty"`
	Clips    []clipJSON          `json:"clips,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func playbackMessage(ev playback.Event) wsMessage {
	snap := toSnapshotJSON(ev.Snapshot)
	msg := wsMessage{
		Type:     "playback",
		Event:    ev.Type.String(),
		Snapshot: &snap,
	}
	if ev.Err != nil {
		msg.Error = ev.Err.Error()
	}
	return msg
}

func toastMessage(ev notification.Event) wsMessage {
	t := ev.Toast
	return wsMessage{
		Type:  "toast",
		Event: string(ev.Type),
		Toast: &t,
	}
}

func searchMessage(res search.Result) wsMessage {
	msg := wsMessage{
		Type:  "search",
		Event: "search_results",
		Query: res.Query.Text,
	}
	if res.Err != nil {
		msg.Error = res.Err.Error()
		return msg
	}
	msg.Clips = toClipListJSON(res.Clips)
	return msg
}

// hub fans out messages to all connected websocket clients.
type hub struct {
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*wsClient]struct{})}
}

func (h *hub) add(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *hub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

func (h *hub) broadcast(msg wsMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.enqueue(msg)
	}
}

// toastStream adapts the hub to a notification subscriber.
type toastStream struct {
	hub *hub
}

func (s toastStream) Send(ev notification.Event) error {
	s.hub.broadcast(toastMessage(ev))
	return nil
}

// wsClient is one connected websocket peer. Writes go through a buffered
// channel so slow readers cannot block broadcasting.
type wsClient struct {
	conn *websocket.Conn
	send chan wsMessage

	closeOnce sync.Once
	done      chan struct{}
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{
		conn: conn,
		send: make(chan wsMessage, 32),
		done: make(chan struct{}),
	}
}

// enqueue queues a message for delivery, dropping it if the client's
// buffer is full or the client is gone.
func (c *wsClient) enqueue(msg wsMessage) {
	select {
	case <-c.done:
	case c.send <- msg:
	default:
		zlog.Debug().Msgf("ws: dropping message for slow client %s", c.conn.RemoteAddr())
	}
}

func (c *wsClient) writePump() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if err := c.conn.WriteJSON(msg); err != nil {
				zlog.Debug().Msgf("ws: write to %s failed: %v", c.conn.RemoteAddr(), err)
				return
			}
		}
	}
}

func (c *wsClient) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// serveWS upgrades the connection, pushes the current snapshot and active
// toasts, then handles search submissions from the client through a
// per-client debouncer.
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zlog.Debug().Msgf("ws: upgrade failed: %v", err)
		return
	}

	client := newWSClient(conn)
	h.hub.add(client)
	go client.writePump()

	snap := toSnapshotJSON(h.coord.Snapshot())
	client.enqueue(wsMessage{Type: "playback", Event: "snapshot", Snapshot: &snap})
	for _, t := range h.toasts.Active() {
		toast := t
		client.enqueue(wsMessage{Type: "toast", Event: string(notification.EventShown), Toast: &toast})
	}

	debouncer := search.NewDebouncer(h.searcher, h.debounce)
	go func() {
		for res := range debouncer.Results() {
			client.enqueue(searchMessage(res))
		}
	}()

	defer func() {
		h.hub.remove(client)
		debouncer.Close()
		client.close()
	}()

	for {
		var op searchOp
		if err := conn.ReadJSON(&op); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zlog.Debug().Msgf("ws: read from %s failed: %v", conn.RemoteAddr(), err)
			}
			return
		}
		if err := h.validate.Struct(&op); err != nil {
			client.enqueue(wsMessage{Type: "search", Event: "search_rejected", Error: "unsupported operation"})
			continue
		}
		debouncer.Submit(filter.Query{
			Text:     op.Text,
			Category: op.Category,
			Language: op.Language,
		})
	}
}
