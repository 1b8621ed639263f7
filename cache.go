package syncbox

import (
	"context"
	"time"
)

// Entity is a domain record mirrored in a local cache.
type Entity interface {
	// EntityID returns the record's stable identifier.
	EntityID() string
}

// Cached pairs an entity with its local synchronization state.
type Cached[T Entity] struct {
	Entity T
	Status SyncStatus
	// LastSyncAttempt is when the entity was last written by either the
	// optimistic path or a reconciliation pull.
	LastSyncAttempt time.Time
}

// Cache is a local mirror of server entities for one domain. It is written
// optimistically by the sync service and replaced wholesale by pulls.
type Cache[T Entity] interface {
	// Get returns the cached entity or ErrEntityNotFound.
	Get(ctx context.Context, id string) (Cached[T], error)
	// Put upserts a single entity.
	Put(ctx context.Context, entry Cached[T]) error
	// Delete removes a single entity. Removing a missing id is not an error.
	Delete(ctx context.Context, id string) error
	// List returns all cached entities ordered by id.
	List(ctx context.Context) ([]Cached[T], error)
	// ReplaceAll atomically replaces the whole projection with the given
	// entries. A failed replace leaves the previous contents intact.
	ReplaceAll(ctx context.Context, entries []Cached[T]) error
}
