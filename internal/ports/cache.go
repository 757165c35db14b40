package ports

// SnapshotCache caches computed statistics snapshots by key with a fixed
// time-to-live. Set registers the key against a user so that InvalidateUser
// can drop every cached snapshot for that user after a ledger mutation,
// whatever filter combination produced it.
type SnapshotCache interface {
	Get(key string) (interface{}, bool)
	Set(userID int64, key string, value interface{})
	Delete(key string)
	InvalidateUser(userID int64)
}
