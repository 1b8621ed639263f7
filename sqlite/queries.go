package sqlite

import "fmt"

type queries struct {
	insert      string
	selectAll   string
	update      string
	remove      string
	clear       string
	clearFailed string
	stats       string
}

func newQueries(table string) queries {
	cols := "id, method, endpoint, payload, idempotency_key, retry_count, max_retries, created_at, last_attempt_at, last_error, domain, entity_id"

	return queries{
		insert: fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			table, cols,
		),
		selectAll: fmt.Sprintf(
			"SELECT %s FROM %s ORDER BY created_at ASC, id ASC",
			cols, table,
		),
		update: fmt.Sprintf(
			"UPDATE %s SET retry_count = ?, last_attempt_at = ?, last_error = ? WHERE id = ?",
			table,
		),
		remove: fmt.Sprintf("DELETE FROM %s WHERE id = ?", table),
		clear:  fmt.Sprintf("DELETE FROM %s", table),
		clearFailed: fmt.Sprintf(
			"DELETE FROM %s WHERE retry_count >= max_retries",
			table,
		),
		stats: fmt.Sprintf(
			"SELECT "+
				"COALESCE(SUM(CASE WHEN retry_count < max_retries THEN 1 ELSE 0 END), 0), "+
				"COALESCE(SUM(CASE WHEN retry_count >= max_retries THEN 1 ELSE 0 END), 0) "+
				"FROM %s",
			table,
		),
	}
}

type cacheQueries struct {
	selectOne string
	upsert    string
	remove    string
	selectAll string
	clear     string
}

func newCacheQueries(table string) cacheQueries {
	cols := "id, entity, sync_status, last_sync_attempt"

	return cacheQueries{
		selectOne: fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", cols, table),
		upsert: fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (?, ?, ?, ?) "+
				"ON CONFLICT(id) DO UPDATE SET entity = excluded.entity, "+
				"sync_status = excluded.sync_status, last_sync_attempt = excluded.last_sync_attempt",
			table, cols,
		),
		remove:    fmt.Sprintf("DELETE FROM %s WHERE id = ?", table),
		selectAll: fmt.Sprintf("SELECT %s FROM %s ORDER BY id ASC", cols, table),
		clear:     fmt.Sprintf("DELETE FROM %s", table),
	}
}
