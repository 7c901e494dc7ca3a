package gateway

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/revchat/pkg/chat"
)

// entry pairs one user's connection state with its transport attachment.
type entry struct {
	userID string
	state  *chat.State
	conn   *websocket.Conn
	cancel context.CancelFunc
}

// Registry maps a user id to exactly one live connection. It is the only
// shared mutable structure in the gateway and is owned by the composition
// root, not a package-level singleton.
type Registry struct {
	mu      sync.Mutex
	bus     *Bus
	entries map[string]*entry
}

// NewRegistry creates an empty registry on top of the event bus.
func NewRegistry(bus *Bus) *Registry {
	return &Registry{
		bus:     bus,
		entries: make(map[string]*entry),
	}
}

// Register creates a brand-new session for userID and starts forwarding its
// topic to conn. Reconnecting with an id that is already registered replaces
// the prior entry and discards its session: an intentional reset. conn may be
// nil, in which case events are consumed but not written anywhere.
func (r *Registry) Register(userID string, conn *websocket.Conn) (*chat.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.entries[userID]; ok {
		log.Info().Str("user_id", userID).Msg("reconnect replaces existing session")
		old.close()
		delete(r.entries, userID)
	}

	subCtx, cancel := context.WithCancel(context.Background())
	ch, err := r.bus.Subscribe(subCtx, userID)
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "subscribe user topic")
	}

	e := &entry{
		userID: userID,
		state:  chat.NewState(userID),
		conn:   conn,
		cancel: cancel,
	}
	r.entries[userID] = e
	go e.forward(ch)

	log.Info().Str("user_id", userID).Int("active", len(r.entries)).Msg("connection registered")
	return e.state, nil
}

// forward copies bus messages to the websocket as text frames. A write
// failure means the peer is gone; remaining messages are drained and dropped
// until the subscription is cancelled.
func (e *entry) forward(ch <-chan *message.Message) {
	dead := false
	for msg := range ch {
		if e.conn != nil && !dead {
			if err := e.conn.WriteMessage(websocket.TextMessage, msg.Payload); err != nil {
				log.Warn().Err(err).Str("user_id", e.userID).Msg("ws write failed, dropping remaining events")
				dead = true
			}
		}
		msg.Ack()
	}
}

// Unregister removes a user's entry and stops its forwarder. Absent ids are a
// no-op.
func (r *Registry) Unregister(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[userID]
	if !ok {
		return
	}
	e.close()
	delete(r.entries, userID)
	log.Info().Str("user_id", userID).Int("active", len(r.entries)).Msg("connection unregistered")
}

// Release removes userID's entry only while it still owns st. A stale
// connection that was replaced by a reconnect must not tear down the
// replacement's session.
func (r *Registry) Release(userID string, st *chat.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[userID]
	if !ok || e.state != st {
		return
	}
	e.close()
	delete(r.entries, userID)
	log.Info().Str("user_id", userID).Int("active", len(r.entries)).Msg("connection unregistered")
}

func (e *entry) close() {
	e.cancel()
	if e.conn != nil {
		_ = e.conn.Close()
	}
}

// Publish sends an event to a user's connection. Unknown ids drop the event
// silently: delivery is best-effort, at-most-once.
func (r *Registry) Publish(ctx context.Context, userID string, ev chat.Event) error {
	r.mu.Lock()
	_, ok := r.entries[userID]
	r.mu.Unlock()
	if !ok {
		log.Debug().Str("user_id", userID).Str("event", ev.Type).Msg("no live connection, event dropped")
		return nil
	}
	return r.bus.Publish(ctx, userID, ev)
}

// Get returns the connection state for a registered user.
func (r *Registry) Get(userID string) (*chat.State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[userID]
	if !ok {
		return nil, false
	}
	return e.state, true
}

// ListActive snapshots the currently registered user ids.
func (r *Registry) ListActive() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for id := range r.entries {
		out = append(out, id)
	}
	return out
}

// Len reports the number of live connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

var _ chat.Publisher = (*Registry)(nil)
