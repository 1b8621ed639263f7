package syncbox

import "sync"

// EventType identifies a state change published on the Bus.
type EventType string

const (
	// EventEnqueued fires when an operation is added to the store.
	EventEnqueued EventType = "enqueued"
	// EventDelivered fires when an operation is accepted by the server and removed.
	EventDelivered EventType = "delivered"
	// EventRetried fires when a delivery attempt fails but retries remain.
	EventRetried EventType = "retried"
	// EventExhausted fires when an operation runs out of retries.
	EventExhausted EventType = "exhausted"
	// EventCleared fires when operations are removed by an explicit clear.
	EventCleared EventType = "cleared"
	// EventOnline fires on an offline-to-online connectivity transition.
	EventOnline EventType = "online"
	// EventOffline fires on an online-to-offline connectivity transition.
	EventOffline EventType = "offline"
	// EventPullCompleted fires after a reconciliation pull replaced a domain cache.
	EventPullCompleted EventType = "pull_completed"
)

// Event carries the details of a published state change.
type Event struct {
	Type EventType
	// Domain names the sync service a cache event belongs to, empty otherwise.
	Domain string
	// Operation is set for queue events (enqueued, delivered, retried, exhausted).
	Operation *Operation
	// Count carries the affected size for cleared and pull_completed events.
	Count int
	// Err carries the failure for retried and exhausted events.
	Err error
}

// Listener receives published events. Listeners run synchronously on the
// publishing goroutine and should be cheap and idempotent.
type Listener func(Event)

// Bus is a synchronous notification fan-out. Listeners are invoked in
// registration order on the same goroutine that publishes.
type Bus struct {
	mu        sync.Mutex
	nextID    int
	listeners []busEntry
}

type busEntry struct {
	id int
	fn Listener
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a listener and returns its subscription handle.
// Closing the handle unsubscribes.
func (b *Bus) Subscribe(fn Listener) *Subscription {
	if fn == nil {
		panic("syncbox: nil Listener")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, busEntry{id: id, fn: fn})

	return &Subscription{bus: b, id: id}
}

// Publish invokes every registered listener in registration order.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	entries := make([]busEntry, len(b.listeners))
	copy(entries, b.listeners)
	b.mu.Unlock()

	for _, entry := range entries {
		entry.fn(event)
	}
}

func (b *Bus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, entry := range b.listeners {
		if entry.id == id {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)

			return
		}
	}
}

// Subscription is a scoped handle to a bus registration.
type Subscription struct {
	bus  *Bus
	once sync.Once
	id   int
}

// Close unsubscribes the listener. It is safe to call multiple times.
func (s *Subscription) Close() {
	if s == nil || s.bus == nil {
		return
	}
	s.once.Do(func() {
		s.bus.unsubscribe(s.id)
	})
}
