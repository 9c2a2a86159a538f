package realtime

import (
	"sync"

	"github.com/anonto42/pulsegram/backend/internal/metrics"
	"go.uber.org/zap"
)

// Hub is the process-wide publish/subscribe router. It owns no durable
// state: channels exist only while they have subscribers, and delivery is
// best-effort at-most-once. The store stays authoritative for history.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]*channel

	metrics *metrics.Metrics
	log     *zap.Logger
}

// channel guards its own membership set so publishes to different channels
// never contend with each other. dead is set, under mu, at the moment the
// channel is removed from the hub map; a subscriber that raced the removal
// must not join a dead channel, since publishes can no longer reach it.
type channel struct {
	mu   sync.Mutex
	dead bool
	subs map[*Conn]struct{}
}

// NewHub creates the router. metrics may be nil (tests, tooling).
func NewHub(log *zap.Logger, m *metrics.Metrics) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		channels: make(map[string]*channel),
		metrics:  m,
		log:      log,
	}
}

// Register creates a live connection for the given user. The caller owns the
// returned Conn and must hand it back via CloseConn when the transport ends.
func (h *Hub) Register(userID uint) *Conn {
	c := newConn(userID)
	if h.metrics != nil {
		h.metrics.OpenConnections.Inc()
	}
	return c
}

// Subscribe adds the connection to the channel. Subscribing twice is a no-op.
func (h *Hub) Subscribe(c *Conn, name string) {
	for {
		h.mu.Lock()
		ch, ok := h.channels[name]
		if !ok {
			ch = &channel{subs: make(map[*Conn]struct{})}
			h.channels[name] = ch
		}
		h.mu.Unlock()

		ch.mu.Lock()
		if ch.dead {
			// An unsubscribe emptied and removed this channel between our
			// map lookup and taking its lock. Joining it would strand the
			// connection on an object publishes can no longer find.
			ch.mu.Unlock()
			continue
		}
		ch.subs[c] = struct{}{}
		ch.mu.Unlock()
		break
	}

	c.trackChannel(name)
}

// Unsubscribe removes the connection from the channel. Unsubscribing a
// connection that is not a member is a no-op. Empty channels are removed so
// the map does not grow with dead conversation names.
func (h *Hub) Unsubscribe(c *Conn, name string) {
	h.mu.Lock()
	ch, ok := h.channels[name]
	if !ok {
		h.mu.Unlock()
		c.untrackChannel(name)
		return
	}
	ch.mu.Lock()
	delete(ch.subs, c)
	if len(ch.subs) == 0 {
		ch.dead = true
		delete(h.channels, name)
	}
	ch.mu.Unlock()
	h.mu.Unlock()

	c.untrackChannel(name)
}

// Publish delivers the event to every current subscriber of the channel,
// at most once each. Slow consumers get dropped deliveries, not queues;
// publishing to a channel with no subscribers is a no-op. Publish never
// reports failure to callers - realtime delivery is advisory.
func (h *Hub) Publish(name string, ev Event) {
	h.mu.RLock()
	ch, ok := h.channels[name]
	h.mu.RUnlock()
	if !ok {
		return
	}

	ch.mu.Lock()
	subs := make([]*Conn, 0, len(ch.subs))
	for c := range ch.subs {
		subs = append(subs, c)
	}
	ch.mu.Unlock()

	for _, c := range subs {
		if c.deliver(ev) {
			if h.metrics != nil {
				h.metrics.PublishedEvents.WithLabelValues(ev.Event).Inc()
			}
			continue
		}
		if h.metrics != nil {
			h.metrics.DroppedEvents.WithLabelValues(ev.Event).Inc()
		}
		h.log.Warn("dropped realtime event",
			zap.String("channel", name),
			zap.String("event", ev.Event),
			zap.String("conn", c.ID()),
		)
	}
}

// CloseConn removes the connection from every channel it joined and closes
// its event stream. Must be called when the transport terminates so no
// membership dangles.
func (h *Hub) CloseConn(c *Conn) {
	for _, name := range c.channelNames() {
		h.Unsubscribe(c, name)
	}
	c.close()
	if h.metrics != nil {
		h.metrics.OpenConnections.Dec()
	}
}

// subscriberCount reports current membership; used by tests.
func (h *Hub) subscriberCount(name string) int {
	h.mu.RLock()
	ch, ok := h.channels[name]
	h.mu.RUnlock()
	if !ok {
		return 0
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return len(ch.subs)
}
