package syncbox

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a goroutine-safe in-memory Store. It does not survive
// restarts; use the sqlite package for durable storage.
type MemoryStore struct {
	mu  sync.RWMutex
	ops map[uuid.UUID]Operation
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ops: make(map[uuid.UUID]Operation)}
}

// Add implements Store.
func (s *MemoryStore) Add(_ context.Context, op Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ops[op.ID] = op

	return nil
}

// List implements Store, ordered by creation time.
func (s *MemoryStore) List(_ context.Context) ([]Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ops := make([]Operation, 0, len(s.ops))
	for _, op := range s.ops {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].CreatedAt.Equal(ops[j].CreatedAt) {
			return ops[i].ID.String() < ops[j].ID.String()
		}

		return ops[i].CreatedAt.Before(ops[j].CreatedAt)
	})

	return ops, nil
}

// Update implements Store.
func (s *MemoryStore) Update(_ context.Context, op Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ops[op.ID]; !ok {
		return ErrOperationNotFound
	}
	s.ops[op.ID] = op

	return nil
}

// Remove implements Store.
func (s *MemoryStore) Remove(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ops[id]; !ok {
		return ErrOperationNotFound
	}
	delete(s.ops, id)

	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.ops)
	s.ops = make(map[uuid.UUID]Operation)

	return removed, nil
}

// ClearFailed implements Store.
func (s *MemoryStore) ClearFailed(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, op := range s.ops {
		if op.Exhausted() {
			delete(s.ops, id)
			removed++
		}
	}

	return removed, nil
}

// Stats implements Store.
func (s *MemoryStore) Stats(_ context.Context) (QueueStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats QueueStats
	for _, op := range s.ops {
		if op.Exhausted() {
			stats.Failed++
		} else {
			stats.Pending++
		}
	}

	return stats, nil
}

// MemoryCache is a goroutine-safe in-memory Cache.
type MemoryCache[T Entity] struct {
	mu      sync.RWMutex
	entries map[string]Cached[T]
}

// NewMemoryCache constructs an empty in-memory cache.
func NewMemoryCache[T Entity]() *MemoryCache[T] {
	return &MemoryCache[T]{entries: make(map[string]Cached[T])}
}

// Get implements Cache.
func (c *MemoryCache[T]) Get(_ context.Context, id string) (Cached[T], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[id]
	if !ok {
		return Cached[T]{}, ErrEntityNotFound
	}

	return entry, nil
}

// Put implements Cache.
func (c *MemoryCache[T]) Put(_ context.Context, entry Cached[T]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[entry.Entity.EntityID()] = entry

	return nil
}

// Delete implements Cache.
func (c *MemoryCache[T]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, id)

	return nil
}

// List implements Cache, ordered by entity id.
func (c *MemoryCache[T]) List(_ context.Context) ([]Cached[T], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]Cached[T], 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Entity.EntityID() < entries[j].Entity.EntityID()
	})

	return entries, nil
}

// ReplaceAll implements Cache.
func (c *MemoryCache[T]) ReplaceAll(_ context.Context, entries []Cached[T]) error {
	next := make(map[string]Cached[T], len(entries))
	for _, entry := range entries {
		next[entry.Entity.EntityID()] = entry
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = next

	return nil
}
