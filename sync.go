package syncbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ServiceConfig defines how a domain sync service behaves.
type ServiceConfig struct {
	Clock   Clock
	Logger  Logger
	Bus     *Bus
	Monitor *Monitor
	// Processor, when set, gets kicked after every enqueue while online.
	Processor *Processor
	// MaxRetries is applied to every operation the service enqueues.
	MaxRetries int
	// MarkSyncedOnSuccess flips the paired cache entry to synced when its
	// operation is delivered, instead of waiting for the next pull.
	MarkSyncedOnSuccess bool
}

func (c ServiceConfig) withDefaults() ServiceConfig {
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	if c.Logger == nil {
		c.Logger = NopLogger{}
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}

	return c
}

// ServiceOption configures a domain sync service.
type ServiceOption func(*ServiceConfig)

// WithServiceClock sets the service clock.
func WithServiceClock(clock Clock) ServiceOption {
	return func(c *ServiceConfig) {
		c.Clock = clock
	}
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(logger Logger) ServiceOption {
	return func(c *ServiceConfig) {
		c.Logger = logger
	}
}

// WithServiceBus publishes and observes change events on the given bus.
func WithServiceBus(bus *Bus) ServiceOption {
	return func(c *ServiceConfig) {
		c.Bus = bus
	}
}

// WithServiceMonitor gates drain kicks on connectivity.
func WithServiceMonitor(monitor *Monitor) ServiceOption {
	return func(c *ServiceConfig) {
		c.Monitor = monitor
	}
}

// WithServiceProcessor kicks the processor after every enqueue while online.
func WithServiceProcessor(processor *Processor) ServiceOption {
	return func(c *ServiceConfig) {
		c.Processor = processor
	}
}

// WithServiceMaxRetries sets the retry budget for enqueued operations.
func WithServiceMaxRetries(maxRetries int) ServiceOption {
	return func(c *ServiceConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithMarkSyncedOnSuccess marks entities synced on delivery confirmation.
func WithMarkSyncedOnSuccess(enabled bool) ServiceOption {
	return func(c *ServiceConfig) {
		c.MarkSyncedOnSuccess = enabled
	}
}

// Service wraps an entity cache for one domain, pairing every local mutation
// with a queued operation and reconciling the cache from server pulls.
//
// Writes are optimistic: the cache entry is visible immediately with status
// pending. The cache is not rolled back if the paired operation later fails
// permanently; the next successful pull restores server truth.
type Service[T Entity] struct {
	domain    string
	endpoint  string
	cache     Cache[T]
	store     Store
	transport Requester
	cfg       ServiceConfig

	outcomes *Subscription
}

// NewService constructs a sync service for one domain family.
// The endpoint is the collection path, e.g. "/api/v1/messages".
func NewService[T Entity](domain, endpoint string, cache Cache[T], store Store, transport Requester, opts ...ServiceOption) *Service[T] {
	if domain == "" {
		panic("syncbox: empty domain")
	}
	if cache == nil {
		panic("syncbox: nil Cache")
	}
	if store == nil {
		panic("syncbox: nil Store")
	}
	if transport == nil {
		panic("syncbox: nil Requester")
	}

	var cfg ServiceConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.withDefaults()

	s := &Service[T]{
		domain:    domain,
		endpoint:  strings.TrimRight(endpoint, "/"),
		cache:     cache,
		store:     store,
		transport: transport,
		cfg:       cfg,
	}
	if cfg.Bus != nil {
		s.outcomes = cfg.Bus.Subscribe(s.onQueueEvent)
	}

	return s
}

// Close releases the service's bus subscription.
func (s *Service[T]) Close() {
	s.outcomes.Close()
}

// Save writes the entity optimistically and enqueues its create operation.
func (s *Service[T]) Save(ctx context.Context, entity T) error {
	payload, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("syncbox: marshal %s entity failed: %w", s.domain, err)
	}

	if err := s.cache.Put(ctx, Cached[T]{
		Entity:          entity,
		Status:          StatusPending,
		LastSyncAttempt: s.cfg.Clock.Now(),
	}); err != nil {
		return err
	}

	return s.enqueue(ctx, Mutation{
		Method:     http.MethodPost,
		Endpoint:   s.endpoint,
		Payload:    payload,
		MaxRetries: s.cfg.MaxRetries,
		Domain:     s.domain,
		EntityID:   entity.EntityID(),
	})
}

// Update applies the JSON patch to the cached entity optimistically and
// enqueues the matching update operation. Fields absent from the patch keep
// their local values; the server applies its own last-writer-wins semantics.
func (s *Service[T]) Update(ctx context.Context, id string, patch json.RawMessage) error {
	entry, err := s.cache.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(patch, &entry.Entity); err != nil {
		return fmt.Errorf("syncbox: apply %s patch failed: %w", s.domain, err)
	}

	entry.Status = StatusPending
	entry.LastSyncAttempt = s.cfg.Clock.Now()
	if err := s.cache.Put(ctx, entry); err != nil {
		return err
	}

	return s.enqueue(ctx, Mutation{
		Method:     http.MethodPatch,
		Endpoint:   s.endpoint + "/" + id,
		Payload:    patch,
		MaxRetries: s.cfg.MaxRetries,
		Domain:     s.domain,
		EntityID:   id,
	})
}

// Delete removes the entity locally and enqueues its delete operation.
func (s *Service[T]) Delete(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, id); err != nil {
		return err
	}

	return s.enqueue(ctx, Mutation{
		Method:     http.MethodDelete,
		Endpoint:   s.endpoint + "/" + id,
		MaxRetries: s.cfg.MaxRetries,
		Domain:     s.domain,
		EntityID:   id,
	})
}

// Get returns a single cached entity.
func (s *Service[T]) Get(ctx context.Context, id string) (Cached[T], error) {
	return s.cache.Get(ctx, id)
}

// List returns cached entities matching the filter; a nil filter returns all.
func (s *Service[T]) List(ctx context.Context, filter func(Cached[T]) bool) ([]Cached[T], error) {
	entries, err := s.cache.List(ctx)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return entries, nil
	}

	matched := make([]Cached[T], 0, len(entries))
	for _, entry := range entries {
		if filter(entry) {
			matched = append(matched, entry)
		}
	}

	return matched, nil
}

// Pull fetches the authoritative listing and replaces the local projection.
// Every pulled entity lands with status synced; a failed pull leaves the
// cache at its pre-pull state.
func (s *Service[T]) Pull(ctx context.Context) error {
	resp, err := s.transport.Do(ctx, Request{
		Method:   http.MethodGet,
		Endpoint: s.endpoint,
	})
	if err != nil {
		return fmt.Errorf("syncbox: pull %s failed: %w", s.domain, err)
	}
	if !resp.Success() {
		return fmt.Errorf("syncbox: pull %s failed: %w", s.domain, NewStatusError(resp.StatusCode, resp.Body))
	}

	var entities []T
	if err := json.Unmarshal(resp.Body, &entities); err != nil {
		return fmt.Errorf("syncbox: decode %s pull failed: %w", s.domain, err)
	}

	now := s.cfg.Clock.Now()
	entries := make([]Cached[T], 0, len(entities))
	for _, entity := range entities {
		entries = append(entries, Cached[T]{
			Entity:          entity,
			Status:          StatusSynced,
			LastSyncAttempt: now,
		})
	}

	if err := s.cache.ReplaceAll(ctx, entries); err != nil {
		return err
	}

	s.publish(Event{Type: EventPullCompleted, Domain: s.domain, Count: len(entries)})

	return nil
}

// Subscribe registers a listener for this domain's events only.
func (s *Service[T]) Subscribe(fn Listener) *Subscription {
	if s.cfg.Bus == nil {
		panic("syncbox: service has no bus")
	}

	domain := s.domain

	return s.cfg.Bus.Subscribe(func(event Event) {
		if event.Domain == domain {
			fn(event)
		}
	})
}

func (s *Service[T]) enqueue(ctx context.Context, m Mutation) error {
	op, err := NewOperation(m, s.cfg.Clock)
	if err != nil {
		return err
	}
	if err := s.store.Add(ctx, op); err != nil {
		return fmt.Errorf("syncbox: enqueue %s operation failed: %w", s.domain, err)
	}

	s.publish(Event{Type: EventEnqueued, Domain: s.domain, Operation: &op})

	if s.cfg.Processor != nil && (s.cfg.Monitor == nil || s.cfg.Monitor.Online()) {
		s.cfg.Processor.Kick()
	}

	return nil
}

// onQueueEvent reconciles cache status from delivery outcomes. Pulls remain
// the ultimate arbiter of convergence; these writes only adjust status flags.
func (s *Service[T]) onQueueEvent(event Event) {
	if event.Domain != s.domain || event.Operation == nil || event.Operation.EntityID == "" {
		return
	}

	switch event.Type {
	case EventDelivered:
		if !s.cfg.MarkSyncedOnSuccess {
			return
		}
		s.setStatus(event.Operation.EntityID, StatusSynced)
	case EventExhausted:
		s.setStatus(event.Operation.EntityID, StatusFailed)
	}
}

func (s *Service[T]) setStatus(id string, status SyncStatus) {
	ctx := context.Background()

	entry, err := s.cache.Get(ctx, id)
	if errors.Is(err, ErrEntityNotFound) {
		return
	}
	if err != nil {
		s.cfg.Logger.Warn("syncbox status reconcile read failed", "domain", s.domain, "id", id, "err", err)

		return
	}

	entry.Status = status
	entry.LastSyncAttempt = s.cfg.Clock.Now()
	if err := s.cache.Put(ctx, entry); err != nil {
		s.cfg.Logger.Warn("syncbox status reconcile write failed", "domain", s.domain, "id", id, "err", err)
	}
}

func (s *Service[T]) publish(event Event) {
	if s.cfg.Bus != nil {
		s.cfg.Bus.Publish(event)
	}
}
