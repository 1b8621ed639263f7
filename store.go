package syncbox

import (
	"context"

	"github.com/google/uuid"
)

// QueueStats summarizes the durable queue for consumer-facing counters.
type QueueStats struct {
	// Pending is the number of operations still eligible for delivery.
	Pending int
	// Failed is the number of operations that exhausted their retries.
	Failed int
}

// Total returns the number of stored operations.
func (s QueueStats) Total() int {
	return s.Pending + s.Failed
}

// Store is the durable, crash-surviving queue of pending operations.
//
// Implementations must be atomic per item; no multi-item transactions are
// required. Storage errors are returned to the caller, never swallowed.
type Store interface {
	// Add persists a new operation.
	Add(ctx context.Context, op Operation) error
	// List returns all stored operations ordered by creation time.
	List(ctx context.Context) ([]Operation, error)
	// Update persists the retry state of an existing operation.
	Update(ctx context.Context, op Operation) error
	// Remove deletes an operation after confirmed delivery.
	Remove(ctx context.Context, id uuid.UUID) error
	// Clear deletes every stored operation and returns the removed count.
	Clear(ctx context.Context) (int, error)
	// ClearFailed deletes only operations that exhausted their retries and
	// returns the removed count. Pending operations are left untouched.
	ClearFailed(ctx context.Context) (int, error)
	// Stats returns aggregate pending/failed counts.
	Stats(ctx context.Context) (QueueStats, error)
}
