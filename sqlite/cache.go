package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/medcrm/syncbox"
)

// Cache is a SQLite-backed entity cache for one synced domain.
// Each domain gets its own table, "cache_<domain>" unless overridden.
type Cache[T syncbox.Entity] struct {
	db      *sql.DB
	table   string
	queries cacheQueries
}

// NewCache constructs a cache for the given domain.
func NewCache[T syncbox.Entity](db *sql.DB, domain string, opts ...CacheOption) (*Cache[T], error) {
	if db == nil {
		return nil, ErrDBRequired
	}
	if domain == "" {
		return nil, ErrDomainRequired
	}

	var cfg CacheConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Table == "" {
		cfg.Table = cacheTablePrefix + strings.ToLower(domain)
	}

	table, err := sanitizeTableName(cfg.Table)
	if err != nil {
		return nil, err
	}

	return &Cache[T]{
		db:      db,
		table:   table,
		queries: newCacheQueries(table),
	}, nil
}

// Init applies the cache schema.
func (c *Cache[T]) Init(ctx context.Context) error {
	ddl, err := CacheSchema(c.table)
	if err != nil {
		return err
	}
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("syncbox sqlite: apply cache schema failed: %w", err)
	}

	return nil
}

// Get implements syncbox.Cache.
func (c *Cache[T]) Get(ctx context.Context, id string) (syncbox.Cached[T], error) {
	row := c.db.QueryRowContext(ctx, c.queries.selectOne, id)

	entry, err := scanCached[T](row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return syncbox.Cached[T]{}, syncbox.ErrEntityNotFound
	}
	if err != nil {
		return syncbox.Cached[T]{}, fmt.Errorf("syncbox sqlite: select entity failed: %w", err)
	}

	return entry, nil
}

// Put implements syncbox.Cache.
func (c *Cache[T]) Put(ctx context.Context, entry syncbox.Cached[T]) error {
	body, err := json.Marshal(entry.Entity)
	if err != nil {
		return fmt.Errorf("syncbox sqlite: marshal entity failed: %w", err)
	}

	if _, err := c.db.ExecContext(
		ctx,
		c.queries.upsert,
		entry.Entity.EntityID(),
		body,
		string(entry.Status),
		entry.LastSyncAttempt,
	); err != nil {
		return fmt.Errorf("syncbox sqlite: upsert entity failed: %w", err)
	}

	return nil
}

// Delete implements syncbox.Cache. Removing a missing id is not an error.
func (c *Cache[T]) Delete(ctx context.Context, id string) error {
	if _, err := c.db.ExecContext(ctx, c.queries.remove, id); err != nil {
		return fmt.Errorf("syncbox sqlite: delete entity failed: %w", err)
	}

	return nil
}

// List implements syncbox.Cache, ordered by entity id.
func (c *Cache[T]) List(ctx context.Context) ([]syncbox.Cached[T], error) {
	rows, err := c.db.QueryContext(ctx, c.queries.selectAll)
	if err != nil {
		return nil, fmt.Errorf("syncbox sqlite: select entities failed: %w", err)
	}
	defer rows.Close()

	var entries []syncbox.Cached[T]
	for rows.Next() {
		entry, err := scanCached[T](rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("syncbox sqlite: rows failed: %w", err)
	}

	return entries, nil
}

// ReplaceAll implements syncbox.Cache. The replacement runs in a single
// transaction; the previous projection survives any failure intact.
func (c *Cache[T]) ReplaceAll(ctx context.Context, entries []syncbox.Cached[T]) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("syncbox sqlite: begin replace failed: %w", err)
	}

	if err := c.replaceAll(ctx, tx, entries); err != nil {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("syncbox sqlite: rollback failed: %w", rollbackErr))
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("syncbox sqlite: commit replace failed: %w", err)
	}

	return nil
}

func (c *Cache[T]) replaceAll(ctx context.Context, tx *sql.Tx, entries []syncbox.Cached[T]) error {
	if _, err := tx.ExecContext(ctx, c.queries.clear); err != nil {
		return fmt.Errorf("syncbox sqlite: clear entities failed: %w", err)
	}

	for _, entry := range entries {
		body, err := json.Marshal(entry.Entity)
		if err != nil {
			return fmt.Errorf("syncbox sqlite: marshal entity failed: %w", err)
		}
		if _, err := tx.ExecContext(
			ctx,
			c.queries.upsert,
			entry.Entity.EntityID(),
			body,
			string(entry.Status),
			entry.LastSyncAttempt,
		); err != nil {
			return fmt.Errorf("syncbox sqlite: insert entity failed: %w", err)
		}
	}

	return nil
}

func scanCached[T syncbox.Entity](scan func(dest ...any) error) (syncbox.Cached[T], error) {
	var (
		id       string
		body     []byte
		status   string
		lastSync time.Time
	)

	if err := scan(&id, &body, &status, &lastSync); err != nil {
		return syncbox.Cached[T]{}, err
	}

	var entity T
	if err := json.Unmarshal(body, &entity); err != nil {
		return syncbox.Cached[T]{}, fmt.Errorf("syncbox sqlite: unmarshal entity failed: %w", err)
	}

	return syncbox.Cached[T]{
		Entity:          entity,
		Status:          syncbox.SyncStatus(status),
		LastSyncAttempt: lastSync,
	}, nil
}
