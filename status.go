package syncbox

// SyncStatus represents the local lifecycle state of a cached entity.
type SyncStatus string

const (
	// StatusSynced indicates the entity matches the last server pull.
	StatusSynced SyncStatus = "synced"
	// StatusPending indicates a local mutation has not yet been delivered.
	StatusPending SyncStatus = "pending"
	// StatusFailed indicates the paired operation exhausted its retries.
	StatusFailed SyncStatus = "failed"
)
