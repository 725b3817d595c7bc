package store

// Engine is the record-storage seam beneath the table store. Implementations
// must be safe for concurrent use. Buckets are created lazily per table;
// table existence is the catalog's concern, not the engine's.
type Engine interface {
	// Lookup returns the record set stored under key, or nil if absent.
	Lookup(table string, key []byte) ([]Record, error)
	// Insert replaces the record set under rec.Key with rec (set semantics).
	Insert(table string, rec Record) error
	// Remove drops the record set under key. Removing an absent key is a no-op.
	Remove(table string, key []byte) error
	// Keys returns a snapshot of the keys present in table.
	Keys(table string) ([][]byte, error)
	// Close releases engine resources.
	Close() error
}
