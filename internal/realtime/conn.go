package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// sendBufferSize bounds the per-connection outbound queue. A full buffer
// means the consumer is too slow and further events are dropped, never
// queued without bound and never retried.
const sendBufferSize = 32

// Conn is one live subscriber. The transport layer drains Events() with a
// single writer goroutine; the hub fills the buffer on publish.
type Conn struct {
	id     string
	userID uint
	events chan Event

	mu       sync.Mutex
	closed   bool
	channels map[string]struct{}
}

func newConn(userID uint) *Conn {
	return &Conn{
		id:       uuid.NewString(),
		userID:   userID,
		events:   make(chan Event, sendBufferSize),
		channels: make(map[string]struct{}),
	}
}

func (c *Conn) ID() string {
	return c.id
}

func (c *Conn) UserID() uint {
	return c.userID
}

// Events is the outbound stream. It is closed when the hub closes the
// connection; the transport writer must treat a closed channel as EOF.
func (c *Conn) Events() <-chan Event {
	return c.events
}

// deliver attempts a non-blocking handoff into the send buffer. Reports
// whether the event was accepted.
func (c *Conn) deliver(ev Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.events <- ev:
		return true
	default:
		return false
	}
}

func (c *Conn) trackChannel(name string) {
	c.mu.Lock()
	c.channels[name] = struct{}{}
	c.mu.Unlock()
}

func (c *Conn) untrackChannel(name string) {
	c.mu.Lock()
	delete(c.channels, name)
	c.mu.Unlock()
}

func (c *Conn) channelNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.channels))
	for name := range c.channels {
		names = append(names, name)
	}
	return names
}

func (c *Conn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.events)
}
