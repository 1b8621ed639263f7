package syncbox

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(time.Millisecond)

	return c.now
}

type fakeRequester struct {
	mu       sync.Mutex
	requests []Request
	respond  func(call int, req Request) (*Response, error)
	release  chan struct{}
}

func (f *fakeRequester) Do(_ context.Context, req Request) (*Response, error) {
	f.mu.Lock()
	call := len(f.requests)
	f.requests = append(f.requests, req)
	respond := f.respond
	release := f.release
	f.mu.Unlock()

	if release != nil {
		<-release
	}
	if respond == nil {
		return &Response{StatusCode: http.StatusOK}, nil
	}

	return respond(call, req)
}

func (f *fakeRequester) calls() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Request, len(f.requests))
	copy(out, f.requests)

	return out
}

func respondStatus(statuses ...int) func(int, Request) (*Response, error) {
	return func(call int, _ Request) (*Response, error) {
		status := statuses[len(statuses)-1]
		if call < len(statuses) {
			status = statuses[call]
		}

		return &Response{StatusCode: status}, nil
	}
}

func enqueue(t *testing.T, store Store, clock Clock, method, endpoint string, maxRetries int) Operation {
	t.Helper()

	m := Mutation{Method: method, Endpoint: endpoint, MaxRetries: maxRetries}
	if method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch {
		m.Payload = json.RawMessage(`{"v":1}`)
	}

	op, err := NewOperation(m, clock)
	if err != nil {
		t.Fatalf("new operation: %v", err)
	}
	if err := store.Add(context.Background(), op); err != nil {
		t.Fatalf("add operation: %v", err)
	}

	return op
}

func TestDrainDeliversInOrderAndRemoves(t *testing.T) {
	store := NewMemoryStore()
	clock := newFakeClock()
	requester := &fakeRequester{}

	first := enqueue(t, store, clock, http.MethodPost, "/api/v1/messages", 3)
	second := enqueue(t, store, clock, http.MethodPatch, "/api/v1/parties/p1", 3)

	processor := NewProcessor(store, requester, WithProcessorClock(clock), WithItemDelay(0))

	result, err := processor.Drain(context.Background())
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if result.Delivered != 2 || result.Attempted != 2 {
		t.Fatalf("expected 2 delivered, got %+v", result)
	}

	calls := requester.calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(calls))
	}
	if calls[0].IdempotencyKey != first.IdempotencyKey || calls[1].IdempotencyKey != second.IdempotencyKey {
		t.Fatalf("expected FIFO order by creation time")
	}

	remaining, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected empty store after delivery, got %d", len(remaining))
	}
}

func TestDrainRetriesThenDelivers(t *testing.T) {
	store := NewMemoryStore()
	clock := newFakeClock()
	requester := &fakeRequester{respond: respondStatus(
		http.StatusInternalServerError,
		http.StatusInternalServerError,
		http.StatusCreated,
	)}

	op := enqueue(t, store, clock, http.MethodPost, "/api/v1/messages", 3)

	processor := NewProcessor(store, requester, WithProcessorClock(clock), WithItemDelay(0))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := processor.Drain(ctx); err != nil {
			t.Fatalf("drain %d: %v", i, err)
		}
	}

	stored, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected operation still queued, got %d", len(stored))
	}
	if stored[0].RetryCount != 2 {
		t.Fatalf("expected retry count 2 before success, got %d", stored[0].RetryCount)
	}
	if stored[0].Error == "" || stored[0].LastAttemptAt.IsZero() {
		t.Fatalf("expected recorded failure state, got %+v", stored[0])
	}

	result, err := processor.Drain(ctx)
	if err != nil {
		t.Fatalf("final drain: %v", err)
	}
	if result.Delivered != 1 {
		t.Fatalf("expected delivery on third attempt, got %+v", result)
	}

	// Every attempt must carry the same idempotency key.
	for _, call := range requester.calls() {
		if call.IdempotencyKey != op.IdempotencyKey {
			t.Fatalf("idempotency key changed across retries")
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total() != 0 {
		t.Fatalf("expected empty store, got %+v", stats)
	}
}

func TestDrainExhaustsAndSkips(t *testing.T) {
	store := NewMemoryStore()
	clock := newFakeClock()
	requester := &fakeRequester{respond: respondStatus(http.StatusNotFound)}

	enqueue(t, store, clock, http.MethodDelete, "/api/v1/message-templates/T1", 3)

	processor := NewProcessor(store, requester, WithProcessorClock(clock), WithItemDelay(0))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := processor.Drain(ctx); err != nil {
			t.Fatalf("drain %d: %v", i, err)
		}
	}

	result, err := processor.Drain(ctx)
	if err != nil {
		t.Fatalf("drain after exhaustion: %v", err)
	}
	if result.Attempted != 0 || result.Skipped != 1 {
		t.Fatalf("expected exhausted operation to be skipped, got %+v", result)
	}
	if len(requester.calls()) != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", len(requester.calls()))
	}

	stored, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 1 || stored[0].RetryCount != 3 || stored[0].Error == "" {
		t.Fatalf("expected exhausted operation retained with error, got %+v", stored)
	}
}

func TestClearFailedKeepsPending(t *testing.T) {
	store := NewMemoryStore()
	clock := newFakeClock()
	requester := &fakeRequester{respond: respondStatus(http.StatusBadGateway)}

	for i := 0; i < 3; i++ {
		enqueue(t, store, clock, http.MethodPost, "/api/v1/messages", 1)
	}
	pendingA := enqueue(t, store, clock, http.MethodPost, "/api/v1/messages", 5)
	pendingB := enqueue(t, store, clock, http.MethodPost, "/api/v1/parties", 5)

	processor := NewProcessor(store, requester, WithProcessorClock(clock), WithItemDelay(0))
	ctx := context.Background()

	if _, err := processor.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}

	removed, err := processor.ClearFailed(ctx)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}

	stored, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 pending operations, got %d", len(stored))
	}
	ids := map[string]bool{pendingA.ID.String(): true, pendingB.ID.String(): true}
	for _, op := range stored {
		if !ids[op.ID.String()] {
			t.Fatalf("unexpected surviving operation %s", op.ID)
		}
	}
}

func TestDrainMutualExclusion(t *testing.T) {
	store := NewMemoryStore()
	clock := newFakeClock()
	requester := &fakeRequester{release: make(chan struct{})}

	enqueue(t, store, clock, http.MethodPost, "/api/v1/messages", 3)

	processor := NewProcessor(store, requester, WithProcessorClock(clock), WithItemDelay(0))
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := processor.Drain(ctx)
		done <- err
	}()

	// Wait until the first drain is mid-delivery.
	deadline := time.After(2 * time.Second)
	for len(requester.calls()) == 0 {
		select {
		case <-deadline:
			t.Fatal("first drain never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if _, err := processor.Drain(ctx); !errors.Is(err, ErrDrainInProgress) {
		t.Fatalf("expected ErrDrainInProgress, got %v", err)
	}

	close(requester.release)
	if err := <-done; err != nil {
		t.Fatalf("first drain: %v", err)
	}
	if len(requester.calls()) != 1 {
		t.Fatalf("expected no extra delivery attempts, got %d", len(requester.calls()))
	}
}

func TestDrainWhileOffline(t *testing.T) {
	store := NewMemoryStore()
	clock := newFakeClock()
	requester := &fakeRequester{}
	monitor := NewMonitor(false, nil)

	enqueue(t, store, clock, http.MethodPost, "/api/v1/messages", 3)

	processor := NewProcessor(store, requester, WithProcessorClock(clock), WithMonitor(monitor), WithItemDelay(0))

	if _, err := processor.Drain(context.Background()); !errors.Is(err, ErrOffline) {
		t.Fatalf("expected ErrOffline, got %v", err)
	}
	if len(requester.calls()) != 0 {
		t.Fatalf("expected no attempts while offline, got %d", len(requester.calls()))
	}
}

func TestStrictClassifierSaturatesRetries(t *testing.T) {
	store := NewMemoryStore()
	clock := newFakeClock()
	requester := &fakeRequester{respond: respondStatus(http.StatusUnprocessableEntity)}

	enqueue(t, store, clock, http.MethodPost, "/api/v1/messages", 5)

	processor := NewProcessor(store, requester,
		WithProcessorClock(clock),
		WithItemDelay(0),
		WithFailureClassifier(HTTPStatusClassifier),
	)

	result, err := processor.Drain(context.Background())
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if result.Exhausted != 1 {
		t.Fatalf("expected immediate exhaustion, got %+v", result)
	}

	stored, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 1 || !stored[0].Exhausted() {
		t.Fatalf("expected saturated retry count, got %+v", stored)
	}
	if len(requester.calls()) != 1 {
		t.Fatalf("expected a single attempt, got %d", len(requester.calls()))
	}
}

func TestDrainPublishesEvents(t *testing.T) {
	store := NewMemoryStore()
	clock := newFakeClock()
	bus := NewBus()
	requester := &fakeRequester{respond: respondStatus(http.StatusServiceUnavailable, http.StatusOK)}

	enqueue(t, store, clock, http.MethodPost, "/api/v1/messages", 3)

	var types []EventType
	sub := bus.Subscribe(func(event Event) {
		types = append(types, event.Type)
	})
	defer sub.Close()

	processor := NewProcessor(store, requester, WithProcessorClock(clock), WithBus(bus), WithItemDelay(0))
	ctx := context.Background()

	if _, err := processor.Drain(ctx); err != nil {
		t.Fatalf("first drain: %v", err)
	}
	if _, err := processor.Drain(ctx); err != nil {
		t.Fatalf("second drain: %v", err)
	}

	want := []EventType{EventRetried, EventDelivered}
	if len(types) != len(want) {
		t.Fatalf("expected events %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, types)
		}
	}
}

func TestRunDrainsOnConnectivityRestore(t *testing.T) {
	store := NewMemoryStore()
	clock := newFakeClock()
	bus := NewBus()
	monitor := NewMonitor(false, bus)

	attempted := make(chan struct{}, 1)
	requester := &fakeRequester{respond: func(int, Request) (*Response, error) {
		select {
		case attempted <- struct{}{}:
		default:
		}

		return &Response{StatusCode: http.StatusOK}, nil
	}}

	enqueue(t, store, clock, http.MethodPost, "/api/v1/messages", 3)

	processor := NewProcessor(store, requester,
		WithProcessorClock(clock),
		WithMonitor(monitor),
		WithItemDelay(0),
		WithDrainInterval(time.Hour),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- processor.Run(ctx)
	}()

	monitor.Set(true)

	select {
	case <-attempted:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a drain after connectivity restore")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
}

func BenchmarkDrain(b *testing.B) {
	requester := &fakeRequester{}
	clock := SystemClock{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		store := NewMemoryStore()
		for j := 0; j < 100; j++ {
			op, err := NewOperation(Mutation{
				Method:   http.MethodPost,
				Endpoint: "/api/v1/messages",
				Payload:  json.RawMessage(`{"v":1}`),
			}, clock)
			if err != nil {
				b.Fatalf("new operation: %v", err)
			}
			if err := store.Add(context.Background(), op); err != nil {
				b.Fatalf("add: %v", err)
			}
		}
		processor := NewProcessor(store, requester, WithItemDelay(0))
		b.StartTimer()

		if _, err := processor.Drain(context.Background()); err != nil {
			b.Fatalf("drain: %v", err)
		}
	}
}
