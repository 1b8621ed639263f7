package syncbox

import "sync"

// Monitor tracks network reachability as a boolean signal.
//
// Host integrations call Set from whatever connectivity notifications the
// platform provides. A false-to-true transition is announced on Restored and
// the bus; nothing beyond the signal changes on true-to-false.
type Monitor struct {
	mu       sync.Mutex
	online   bool
	bus      *Bus
	restored chan struct{}
}

// NewMonitor constructs a monitor with the given initial state.
// The bus is optional.
func NewMonitor(online bool, bus *Bus) *Monitor {
	return &Monitor{
		online:   online,
		bus:      bus,
		restored: make(chan struct{}, 1),
	}
}

// Online returns the current reachability state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.online
}

// Set updates the reachability state. Repeated calls with the same value are
// no-ops; a restore transition signals Restored without blocking.
func (m *Monitor) Set(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()

		return
	}
	m.online = online
	m.mu.Unlock()

	if online {
		select {
		case m.restored <- struct{}{}:
		default:
		}
		if m.bus != nil {
			m.bus.Publish(Event{Type: EventOnline})
		}

		return
	}
	if m.bus != nil {
		m.bus.Publish(Event{Type: EventOffline})
	}
}

// Restored delivers one signal per offline-to-online transition.
func (m *Monitor) Restored() <-chan struct{} {
	return m.restored
}
