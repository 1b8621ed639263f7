package syncbox

import "testing"

func TestMonitorRestoreSignalsOnce(t *testing.T) {
	monitor := NewMonitor(false, nil)

	monitor.Set(true)
	monitor.Set(true) // repeated set is a no-op

	select {
	case <-monitor.Restored():
	default:
		t.Fatal("expected restore signal")
	}
	select {
	case <-monitor.Restored():
		t.Fatal("expected a single restore signal")
	default:
	}

	if !monitor.Online() {
		t.Fatal("expected online state")
	}
}

func TestMonitorOfflineDoesNotSignal(t *testing.T) {
	monitor := NewMonitor(true, nil)

	monitor.Set(false)

	select {
	case <-monitor.Restored():
		t.Fatal("expected no signal on going offline")
	default:
	}
	if monitor.Online() {
		t.Fatal("expected offline state")
	}
}

func TestMonitorPublishesTransitions(t *testing.T) {
	bus := NewBus()
	monitor := NewMonitor(true, bus)

	var types []EventType
	sub := bus.Subscribe(func(event Event) {
		types = append(types, event.Type)
	})
	defer sub.Close()

	monitor.Set(false)
	monitor.Set(false)
	monitor.Set(true)

	want := []EventType{EventOffline, EventOnline}
	if len(types) != len(want) || types[0] != want[0] || types[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, types)
	}
}
