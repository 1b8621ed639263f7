// Package sqlite provides the embedded durable storage for syncbox: the
// crash-surviving operation queue and one cache table per synced domain.
//
// The store relies on SQLite's per-statement atomicity; no multi-item
// transactions are used except for reconciliation pulls, which replace a
// cache table all-or-nothing. Open the database with the mattn/go-sqlite3
// driver; "_busy_timeout" and "_journal_mode=WAL" DSN parameters are
// recommended. Concurrent writers sharing one database file are not
// coordinated beyond the busy timeout.
package sqlite
