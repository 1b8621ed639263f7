package sqlite

import "fmt"

const queueSchemaTemplate = `CREATE TABLE IF NOT EXISTS %[1]s (
	id TEXT PRIMARY KEY,
	method TEXT NOT NULL,
	endpoint TEXT NOT NULL,
	payload BLOB NULL,
	idempotency_key TEXT NOT NULL,
	retry_count INTEGER NOT NULL DEFAULT 0,
	max_retries INTEGER NOT NULL DEFAULT 3,
	created_at TIMESTAMP NOT NULL,
	last_attempt_at TIMESTAMP NULL,
	last_error TEXT NOT NULL DEFAULT '',
	domain TEXT NOT NULL DEFAULT '',
	entity_id TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_%[1]s_created_at ON %[1]s (created_at);`

const cacheSchemaTemplate = `CREATE TABLE IF NOT EXISTS %s (
	id TEXT PRIMARY KEY,
	entity BLOB NOT NULL,
	sync_status TEXT NOT NULL,
	last_sync_attempt TIMESTAMP NOT NULL
);`

// Schema returns the DDL for an operation queue table, including the
// secondary index ordered by creation time.
func Schema(table string) (string, error) {
	name, err := sanitizeTableName(table)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(queueSchemaTemplate, name), nil
}

// CacheSchema returns the DDL for a domain cache table.
func CacheSchema(table string) (string, error) {
	name, err := sanitizeTableName(table)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(cacheSchemaTemplate, name), nil
}
