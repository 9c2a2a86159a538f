package realtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHub() *Hub {
	return NewHub(zap.NewNop(), nil)
}

func TestSubscribeIsIdempotent(t *testing.T) {
	hub := newTestHub()
	conn := hub.Register(1)

	hub.Subscribe(conn, ChatChannel(7))
	hub.Subscribe(conn, ChatChannel(7))

	assert.Equal(t, 1, hub.subscriberCount(ChatChannel(7)))
}

func TestUnsubscribeAbsentIsNoOp(t *testing.T) {
	hub := newTestHub()
	conn := hub.Register(1)

	hub.Unsubscribe(conn, ChatChannel(7))
	hub.Subscribe(conn, ChatChannel(7))
	hub.Unsubscribe(conn, ChatChannel(7))
	hub.Unsubscribe(conn, ChatChannel(7))

	assert.Equal(t, 0, hub.subscriberCount(ChatChannel(7)))
}

func TestPublishWithoutSubscribersIsNoOp(t *testing.T) {
	hub := newTestHub()

	// Must not panic or error.
	hub.Publish(ChatChannel(42), Event{Event: EventReceiveMessage})
}

func TestPublishDeliversToSubscribers(t *testing.T) {
	hub := newTestHub()
	a := hub.Register(1)
	b := hub.Register(2)
	hub.Subscribe(a, ChatChannel(3))
	hub.Subscribe(b, ChatChannel(3))

	hub.Publish(ChatChannel(3), Event{Event: EventUserTyping, Data: TypingPayload{ChatID: 3, UserID: 1}})

	for _, conn := range []*Conn{a, b} {
		select {
		case ev := <-conn.Events():
			assert.Equal(t, EventUserTyping, ev.Event)
		default:
			t.Fatalf("conn %s received nothing", conn.ID())
		}
	}
}

func TestPublishDoesNotReachOtherChannels(t *testing.T) {
	hub := newTestHub()
	conn := hub.Register(1)
	hub.Subscribe(conn, UserChannel(1))

	hub.Publish(ChatChannel(1), Event{Event: EventReceiveMessage})

	assert.Len(t, conn.Events(), 0)
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	hub := newTestHub()
	conn := hub.Register(1)
	hub.Subscribe(conn, ChatChannel(9))

	for i := 0; i < sendBufferSize+5; i++ {
		hub.Publish(ChatChannel(9), Event{Event: EventReceiveMessage, Data: i})
	}

	// The buffer holds exactly its capacity; the overflow was dropped,
	// never queued.
	assert.Equal(t, sendBufferSize, len(conn.events))
}

func TestCloseConnRemovesAllMemberships(t *testing.T) {
	hub := newTestHub()
	conn := hub.Register(5)
	hub.Subscribe(conn, ChatChannel(1))
	hub.Subscribe(conn, ChatChannel(2))
	hub.Subscribe(conn, UserChannel(5))

	hub.CloseConn(conn)

	assert.Equal(t, 0, hub.subscriberCount(ChatChannel(1)))
	assert.Equal(t, 0, hub.subscriberCount(ChatChannel(2)))
	assert.Equal(t, 0, hub.subscriberCount(UserChannel(5)))

	_, open := <-conn.Events()
	require.False(t, open, "event stream should be closed")

	// Publishing after close must not panic or resurrect membership.
	hub.Publish(ChatChannel(1), Event{Event: EventReceiveMessage})
	assert.Equal(t, 0, hub.subscriberCount(ChatChannel(1)))
}

func TestCloseConnTwiceIsSafe(t *testing.T) {
	hub := newTestHub()
	conn := hub.Register(1)
	hub.Subscribe(conn, ChatChannel(1))

	hub.CloseConn(conn)
	hub.CloseConn(conn)
}

// A subscribe racing the unsubscribe of a channel's last member must not
// land on the channel object the hub just discarded. If it does, the new
// member is invisible to Publish and the hub reports nobody subscribed.
func TestSubscribeRacingLastUnsubscribeKeepsMembership(t *testing.T) {
	hub := newTestHub()
	joiner := hub.Register(1)
	leaver := hub.Register(2)
	name := ChatChannel(42)

	for i := 0; i < 2000; i++ {
		hub.Subscribe(leaver, name)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			hub.Subscribe(joiner, name)
		}()
		go func() {
			defer wg.Done()
			hub.Unsubscribe(leaver, name)
		}()
		wg.Wait()

		require.Equalf(t, 1, hub.subscriberCount(name), "iteration %d: joiner lost its membership", i)

		hub.Publish(name, Event{Event: EventReceiveMessage, Data: i})
		select {
		case <-joiner.Events():
		default:
			t.Fatalf("iteration %d: publish did not reach the surviving member", i)
		}

		hub.Unsubscribe(joiner, name)
	}
}

func TestConcurrentSubscribePublishUnsubscribe(t *testing.T) {
	hub := newTestHub()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			conn := hub.Register(userID)
			for j := 0; j < 50; j++ {
				hub.Subscribe(conn, ChatChannel(uint(j%4)))
				hub.Publish(ChatChannel(uint(j%4)), Event{Event: EventReceiveMessage, Data: j})
				hub.Unsubscribe(conn, ChatChannel(uint(j%4)))
			}
			hub.CloseConn(conn)
		}(uint(i))
	}
	wg.Wait()

	for j := 0; j < 4; j++ {
		assert.Equal(t, 0, hub.subscriberCount(ChatChannel(uint(j))))
	}
}
