package syncbox

import "testing"

func TestBusInvokesInRegistrationOrder(t *testing.T) {
	bus := NewBus()

	var order []int
	subA := bus.Subscribe(func(Event) { order = append(order, 1) })
	defer subA.Close()
	subB := bus.Subscribe(func(Event) { order = append(order, 2) })
	defer subB.Close()
	subC := bus.Subscribe(func(Event) { order = append(order, 3) })
	defer subC.Close()

	bus.Publish(Event{Type: EventEnqueued})

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("expected registration order 1,2,3, got %v", order)
	}
}

func TestBusPublishIsSynchronous(t *testing.T) {
	bus := NewBus()

	seen := false
	sub := bus.Subscribe(func(event Event) {
		seen = event.Type == EventDelivered
	})
	defer sub.Close()

	bus.Publish(Event{Type: EventDelivered})

	if !seen {
		t.Fatal("expected listener to run on the publishing goroutine")
	}
}

func TestSubscriptionCloseStopsDelivery(t *testing.T) {
	bus := NewBus()

	var calls int
	sub := bus.Subscribe(func(Event) { calls++ })

	bus.Publish(Event{Type: EventEnqueued})
	sub.Close()
	sub.Close() // closing twice is fine
	bus.Publish(Event{Type: EventEnqueued})

	if calls != 1 {
		t.Fatalf("expected 1 call after unsubscribe, got %d", calls)
	}
}

func TestSubscriptionCloseKeepsOthers(t *testing.T) {
	bus := NewBus()

	var aCalls, bCalls int
	subA := bus.Subscribe(func(Event) { aCalls++ })
	subB := bus.Subscribe(func(Event) { bCalls++ })
	defer subB.Close()

	subA.Close()
	bus.Publish(Event{Type: EventCleared})

	if aCalls != 0 || bCalls != 1 {
		t.Fatalf("expected only remaining listener to fire, got a=%d b=%d", aCalls, bCalls)
	}
}
