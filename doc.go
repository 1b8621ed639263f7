// Package syncbox provides an offline-first durable write queue and
// synchronization engine for API clients.
//
// Typical flow:
//  1. A domain sync Service writes optimistically to its entity Cache and
//     enqueues an Operation into a durable Store.
//  2. A Processor drains the store in FIFO order when connectivity returns,
//     on a periodic interval while online, or on an explicit Drain call,
//     delivering each operation over HTTP with a stable Idempotency-Key.
//  3. On 2xx the operation is removed; on failure its retry state is
//     persisted until MaxRetries is reached, after which it stays queued and
//     visible until explicitly cleared.
//  4. Reconciliation pulls replace the local entity projection with server
//     truth; a Bus notifies subscribers of every state change.
//
// For the embedded SQLite store and per-domain caches, see the sqlite package.
package syncbox
