package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/medcrm/syncbox"
)

// Store is the SQLite-backed durable operation queue.
type Store struct {
	db      *sql.DB
	queries queries
	table   string
}

var _ syncbox.Store = (*Store)(nil)

// NewStore constructs a SQLite store with validated configuration.
func NewStore(db *sql.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrDBRequired
	}

	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.withDefaults()

	table, err := sanitizeTableName(cfg.Table)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:      db,
		queries: newQueries(table),
		table:   table,
	}, nil
}

// MustNewStore constructs a SQLite store or panics on error.
func MustNewStore(db *sql.DB, opts ...Option) *Store {
	store, err := NewStore(db, opts...)
	if err != nil {
		panic(err)
	}

	return store
}

// Init applies the queue schema.
func (s *Store) Init(ctx context.Context) error {
	ddl, err := Schema(s.table)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("syncbox sqlite: apply queue schema failed: %w", err)
	}

	return nil
}

// Add implements syncbox.Store.
func (s *Store) Add(ctx context.Context, op syncbox.Operation) error {
	var lastAttempt any
	if !op.LastAttemptAt.IsZero() {
		lastAttempt = op.LastAttemptAt
	}

	_, err := s.db.ExecContext(
		ctx,
		s.queries.insert,
		op.ID.String(),
		op.Method,
		op.Endpoint,
		[]byte(op.Payload),
		op.IdempotencyKey,
		op.RetryCount,
		op.MaxRetries,
		op.CreatedAt,
		lastAttempt,
		truncateError(op.Error),
		op.Domain,
		op.EntityID,
	)
	if err != nil {
		return fmt.Errorf("syncbox sqlite: insert operation failed: %w", err)
	}

	return nil
}

// List implements syncbox.Store, ordered by creation time.
func (s *Store) List(ctx context.Context) ([]syncbox.Operation, error) {
	rows, err := s.db.QueryContext(ctx, s.queries.selectAll)
	if err != nil {
		return nil, fmt.Errorf("syncbox sqlite: select operations failed: %w", err)
	}
	defer rows.Close()

	var ops []syncbox.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("syncbox sqlite: rows failed: %w", err)
	}

	return ops, nil
}

// Update implements syncbox.Store, persisting only retry state.
func (s *Store) Update(ctx context.Context, op syncbox.Operation) error {
	var lastAttempt any
	if !op.LastAttemptAt.IsZero() {
		lastAttempt = op.LastAttemptAt
	}

	result, err := s.db.ExecContext(
		ctx,
		s.queries.update,
		op.RetryCount,
		lastAttempt,
		truncateError(op.Error),
		op.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("syncbox sqlite: update operation failed: %w", err)
	}

	return requireRow(result)
}

// Remove implements syncbox.Store.
func (s *Store) Remove(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, s.queries.remove, id.String())
	if err != nil {
		return fmt.Errorf("syncbox sqlite: delete operation failed: %w", err)
	}

	return requireRow(result)
}

// Clear implements syncbox.Store.
func (s *Store) Clear(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, s.queries.clear)
	if err != nil {
		return 0, fmt.Errorf("syncbox sqlite: clear operations failed: %w", err)
	}

	return affectedCount(result)
}

// ClearFailed implements syncbox.Store.
func (s *Store) ClearFailed(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, s.queries.clearFailed)
	if err != nil {
		return 0, fmt.Errorf("syncbox sqlite: clear failed operations failed: %w", err)
	}

	return affectedCount(result)
}

// Stats implements syncbox.Store.
func (s *Store) Stats(ctx context.Context) (syncbox.QueueStats, error) {
	var stats syncbox.QueueStats
	if err := s.db.QueryRowContext(ctx, s.queries.stats).Scan(&stats.Pending, &stats.Failed); err != nil {
		return syncbox.QueueStats{}, fmt.Errorf("syncbox sqlite: queue stats failed: %w", err)
	}

	return stats, nil
}

func scanOperation(rows *sql.Rows) (syncbox.Operation, error) {
	var (
		op          syncbox.Operation
		id          string
		payload     []byte
		lastAttempt sql.NullTime
	)

	if err := rows.Scan(
		&id,
		&op.Method,
		&op.Endpoint,
		&payload,
		&op.IdempotencyKey,
		&op.RetryCount,
		&op.MaxRetries,
		&op.CreatedAt,
		&lastAttempt,
		&op.Error,
		&op.Domain,
		&op.EntityID,
	); err != nil {
		return syncbox.Operation{}, fmt.Errorf("syncbox sqlite: scan operation failed: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return syncbox.Operation{}, fmt.Errorf("syncbox sqlite: parse operation id failed: %w", err)
	}
	op.ID = parsed
	op.Payload = payload
	if lastAttempt.Valid {
		op.LastAttemptAt = lastAttempt.Time
	}

	return op, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("syncbox sqlite: rows affected failed: %w", err)
	}
	if affected == 0 {
		return syncbox.ErrOperationNotFound
	}

	return nil
}

func affectedCount(result sql.Result) (int, error) {
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("syncbox sqlite: rows affected failed: %w", err)
	}

	return int(affected), nil
}

func truncateError(msg string) string {
	if utf8.RuneCountInString(msg) <= defaultMaxErrorLen {
		return msg
	}

	runes := []rune(msg)

	return string(runes[:defaultMaxErrorLen])
}
