package store

import (
	"sync"
)

// MemoryEngine is an in-memory Engine. It is thread-safe.
type MemoryEngine struct {
	mu     sync.RWMutex
	tables map[string]map[string][]Record
}

// NewMemoryEngine creates a new in-memory engine.
func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{
		tables: make(map[string]map[string][]Record),
	}
}

// Lookup returns a copy of the record set stored under key.
func (e *MemoryEngine) Lookup(table string, key []byte) ([]Record, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	bucket, ok := e.tables[table]
	if !ok {
		return nil, nil
	}
	recs, ok := bucket[string(key)]
	if !ok {
		return nil, nil
	}

	// Return copies to avoid external modification
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = r.Copy()
	}
	return out, nil
}

// Insert replaces the record set under rec.Key with rec.
func (e *MemoryEngine) Insert(table string, rec Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	bucket, ok := e.tables[table]
	if !ok {
		bucket = make(map[string][]Record)
		e.tables[table] = bucket
	}
	bucket[string(rec.Key)] = []Record{rec.Copy()}
	return nil
}

// Remove drops the record set under key.
func (e *MemoryEngine) Remove(table string, key []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if bucket, ok := e.tables[table]; ok {
		delete(bucket, string(key))
	}
	return nil
}

// Keys returns a snapshot of the keys present in table.
func (e *MemoryEngine) Keys(table string) ([][]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	bucket, ok := e.tables[table]
	if !ok {
		return nil, nil
	}
	keys := make([][]byte, 0, len(bucket))
	for k := range bucket {
		keys = append(keys, []byte(k))
	}
	return keys, nil
}

// Close is a no-op for the in-memory engine.
func (e *MemoryEngine) Close() error {
	return nil
}
