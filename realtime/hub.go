package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	TopicThemes = "themes"
	TopicOrders = "orders"

	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Event is one row change pushed to subscribers.
type Event struct {
	Topic  string          `json:"topic"`
	Type   string          `json:"type"`
	Record json.RawMessage `json:"record"`
	At     time.Time       `json:"at"`
}

func NewEvent(topic, eventType string, record any) (Event, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s event: %w", topic, err)
	}
	return Event{Topic: topic, Type: eventType, Record: data, At: time.Now().UTC()}, nil
}

type subscriber struct {
	ch   chan Event
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.ch) })
}

// Hub fans row-change events out to in-process subscribers and websocket
// clients, per topic. A subscriber that cannot keep up is dropped rather
// than allowed to stall publishers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscriber]struct{}
	buffer int
	closed bool

	upgrader websocket.Upgrader
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		subs:   make(map[string]map[*subscriber]struct{}),
		buffer: buffer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe returns a channel of events for topic and a function that
// unsubscribes. The channel is closed on unsubscribe, on Close, or when the
// subscriber falls behind.
func (h *Hub) Subscribe(topic string) (<-chan Event, func()) {
	sub := &subscriber{ch: make(chan Event, h.buffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.close()
		return sub.ch, func() {}
	}
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[*subscriber]struct{})
	}
	h.subs[topic][sub] = struct{}{}
	h.mu.Unlock()

	return sub.ch, func() { h.remove(topic, sub) }
}

func (h *Hub) remove(topic string, sub *subscriber) {
	h.mu.Lock()
	delete(h.subs[topic], sub)
	h.mu.Unlock()
	sub.close()
}

// Publish delivers ev to every subscriber of ev.Topic without blocking.
func (h *Hub) Publish(ev Event) {
	var slow []*subscriber

	h.mu.RLock()
	for sub := range h.subs[ev.Topic] {
		select {
		case sub.ch <- ev:
		default:
			slow = append(slow, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range slow {
		zap.L().Warn("dropping slow subscriber", zap.String("topic", ev.Topic))
		h.remove(ev.Topic, sub)
	}
}

// PublishRecord is Publish for callers holding a row rather than an Event.
// Marshal failures are logged and swallowed.
func (h *Hub) PublishRecord(topic, eventType string, record any) {
	ev, err := NewEvent(topic, eventType, record)
	if err != nil {
		zap.L().Error("failed to build realtime event", zap.Error(err))
		return
	}
	h.Publish(ev)
}

// Subscribers counts the live subscribers of topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}

// Closed reports whether Close has been called.
func (h *Hub) Closed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed
}

// Close disconnects every subscriber. Later Subscribe calls get a closed
// channel.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	all := h.subs
	h.subs = make(map[string]map[*subscriber]struct{})
	h.mu.Unlock()

	for _, set := range all {
		for sub := range set {
			sub.close()
		}
	}
}

// ServeWS upgrades the request to a websocket that streams topic events as
// JSON text frames until either side goes away.
func (h *Hub) ServeWS(topic string) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			zap.L().Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		events, unsubscribe := h.Subscribe(topic)
		defer unsubscribe()

		// Reader: only there to notice the client leaving and to handle pongs.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			conn.SetReadLimit(512)
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(pongWait))
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-gone:
				return
			case ev, ok := <-events:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
					<-gone
					return
				}
				if err := conn.WriteJSON(ev); err != nil {
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}
