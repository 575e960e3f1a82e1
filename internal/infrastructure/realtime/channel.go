package realtime

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"reviewdesk/pkg/errors"
	"reviewdesk/pkg/logger"
)

// Identity keys the channel session on the upstream server.
type Identity struct {
	UserID   string
	Username string
}

// HandlerFunc receives the raw data payload of a channel event.
type HandlerFunc func(data json.RawMessage)

// Subscription is a scoped registration for one event. Callers must
// release it with Unsubscribe when the owning view goes away.
type Subscription struct {
	channel *Channel
	event   string
	id      uint64
}

func (s *Subscription) Unsubscribe() {
	if s == nil || s.channel == nil {
		return
	}
	s.channel.unsubscribe(s.event, s.id)
	s.channel = nil
}

// Channel is the client side of the real-time event stream. Events are
// framed as {event, data} envelopes. There is no buffering or replay;
// a dropped connection simply loses whatever was in flight.
type Channel struct {
	endpoint string
	identity Identity

	mu        sync.RWMutex
	conn      *websocket.Conn
	send      chan []byte
	subs      map[string]map[uint64]HandlerFunc
	nextSubID uint64
	connected bool
	onStatus  func(connected bool)
	done      chan struct{}
}

func NewChannel(endpoint string, identity Identity) *Channel {
	return &Channel{
		endpoint: endpoint,
		identity: identity,
		subs:     make(map[string]map[uint64]HandlerFunc),
	}
}

// OnStatusChange registers the connectivity callback. Must be called
// before Dial.
func (ch *Channel) OnStatusChange(fn func(connected bool)) {
	ch.onStatus = fn
}

func (ch *Channel) Dial(ctx context.Context) error {
	u, err := url.Parse(ch.endpoint)
	if err != nil {
		return errors.Internal("Invalid channel endpoint", err)
	}

	q := u.Query()
	q.Set("user_id", ch.identity.UserID)
	q.Set("username", ch.identity.Username)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return errors.Unavailable("Failed to connect to real-time channel", err)
	}

	ch.mu.Lock()
	ch.conn = conn
	ch.send = make(chan []byte, 256)
	ch.done = make(chan struct{})
	ch.connected = true
	ch.mu.Unlock()

	ch.notifyStatus(true)

	go ch.readPump()
	go ch.writePump()

	return nil
}

func (ch *Channel) Connected() bool {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return ch.connected
}

// Emit sends an event without waiting for any acknowledgment.
func (ch *Channel) Emit(event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Internal("Failed to encode channel payload", err)
	}

	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return errors.Internal("Failed to encode channel envelope", err)
	}

	ch.mu.RLock()
	defer ch.mu.RUnlock()
	if !ch.connected {
		return errors.Unavailable("Real-time channel is not connected", nil)
	}

	select {
	case ch.send <- frame:
		return nil
	default:
		return errors.Unavailable("Real-time channel send buffer is full", nil)
	}
}

func (ch *Channel) Subscribe(event string, fn HandlerFunc) *Subscription {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	ch.nextSubID++
	id := ch.nextSubID
	if ch.subs[event] == nil {
		ch.subs[event] = make(map[uint64]HandlerFunc)
	}
	ch.subs[event][id] = fn

	return &Subscription{channel: ch, event: event, id: id}
}

func (ch *Channel) unsubscribe(event string, id uint64) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if handlers, ok := ch.subs[event]; ok {
		delete(handlers, id)
		if len(handlers) == 0 {
			delete(ch.subs, event)
		}
	}
}

func (ch *Channel) Close() {
	ch.mu.Lock()
	if ch.conn != nil {
		close(ch.done)
		ch.conn.Close()
		ch.conn = nil
	}
	wasConnected := ch.connected
	ch.connected = false
	ch.subs = make(map[string]map[uint64]HandlerFunc)
	ch.mu.Unlock()

	if wasConnected {
		ch.notifyStatus(false)
	}
}

func (ch *Channel) readPump() {
	ch.mu.RLock()
	conn := ch.conn
	ch.mu.RUnlock()
	if conn == nil {
		return
	}

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Error("Channel read failed: %v", err)
			}
			ch.markDisconnected()
			return
		}

		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			logger.Warn("Dropping malformed channel frame: %v", err)
			continue
		}

		ch.dispatch(env)
	}
}

func (ch *Channel) writePump() {
	ch.mu.RLock()
	conn := ch.conn
	send := ch.send
	done := ch.done
	ch.mu.RUnlock()
	if conn == nil {
		return
	}

	for {
		select {
		case frame := <-send:
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				logger.Error("Channel write failed: %v", err)
				ch.markDisconnected()
				return
			}
		case <-done:
			return
		}
	}
}

func (ch *Channel) dispatch(env Envelope) {
	ch.mu.RLock()
	handlers := make([]HandlerFunc, 0, len(ch.subs[env.Event]))
	for _, fn := range ch.subs[env.Event] {
		handlers = append(handlers, fn)
	}
	ch.mu.RUnlock()

	for _, fn := range handlers {
		fn(env.Data)
	}
}

func (ch *Channel) markDisconnected() {
	ch.mu.Lock()
	wasConnected := ch.connected
	ch.connected = false
	ch.mu.Unlock()

	if wasConnected {
		ch.notifyStatus(false)
	}
}

func (ch *Channel) notifyStatus(connected bool) {
	if ch.onStatus != nil {
		ch.onStatus(connected)
	}
}
