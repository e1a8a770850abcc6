package navigation

import (
	"sync"
	"sync/atomic"
)

// subscriberBuffer is how many changes a subscriber may fall behind before
// further changes are dropped for it.
const subscriberBuffer = 32

// Broadcaster fans navigation changes out to channel subscribers such as open
// event streams. Broadcast never blocks the navigating goroutine.
type Broadcaster struct {
	subscribers map[uint64]chan Change
	nextID      atomic.Uint64
	closed      bool
	mu          sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan Change),
	}
}

// Subscribe returns a channel of changes. After Close the channel is returned
// already closed.
func (b *Broadcaster) Subscribe() (uint64, chan Change) {
	id := b.nextID.Add(1)
	ch := make(chan Change, subscriberBuffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return id, ch
	}
	b.subscribers[id] = ch

	return id, ch
}

// Unsubscribe closes the subscriber's channel. Unknown ids are ignored.
func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

// Broadcast matches the Observer signature so it can be passed to State.Subscribe.
func (b *Broadcaster) Broadcast(c Change) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- c:
		default:
			// Subscriber is subscriberBuffer changes behind; drop.
		}
	}
}

// SubscriberCount reports how many channels are open.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes every subscriber channel. Later subscribers get a closed
// channel and later broadcasts reach no one.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
