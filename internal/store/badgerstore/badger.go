// Package badgerstore provides a disk-backed Engine on top of Badger,
// for tables declared with disk copies.
package badgerstore

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"stitch/internal/clock"
	"stitch/internal/store"
)

// keySep separates the table name from the record key. Table names are
// identifiers and never contain a NUL byte.
const keySep = byte(0x00)

// Engine stores record sets in a Badger database, one Badger key per
// table/record-key pair.
type Engine struct {
	log *zap.Logger
	db  *badger.DB
}

// Open opens (or creates) a Badger-backed engine at dir.
func Open(log *zap.Logger, dir string) (*Engine, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}
	return &Engine{log: log.Named("badger"), db: db}, nil
}

func storageKey(table string, key []byte) []byte {
	sk := make([]byte, 0, len(table)+1+len(key))
	sk = append(sk, table...)
	sk = append(sk, keySep)
	return append(sk, key...)
}

func tablePrefix(table string) []byte {
	return append([]byte(table), keySep)
}

// storedRecord is the gob shape persisted per record. Kept separate from
// store.Record so the on-disk layout does not drift with the API type.
type storedRecord struct {
	Key     []byte
	Fields  [][]byte
	Version map[string]int64
}

func encodeRecords(recs []store.Record) ([]byte, error) {
	flat := make([]storedRecord, len(recs))
	for i, r := range recs {
		flat[i] = storedRecord{Key: r.Key, Fields: r.Fields, Version: r.Version}
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(flat); err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeRecords(data []byte) ([]store.Record, error) {
	var flat []storedRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&flat); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	recs := make([]store.Record, len(flat))
	for i, sr := range flat {
		recs[i] = store.Record{Key: sr.Key, Fields: sr.Fields, Version: clock.VectorClock(sr.Version)}
	}
	return recs, nil
}

// Lookup returns the record set stored under key, or nil if absent.
func (e *Engine) Lookup(table string, key []byte) ([]store.Record, error) {
	var recs []store.Record
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(storageKey(table, key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			recs, err = decodeRecords(val)
			return err
		})
	})
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", table, err)
	}
	return recs, nil
}

// Insert replaces the record set under rec.Key with rec.
func (e *Engine) Insert(table string, rec store.Record) error {
	data, err := encodeRecords([]store.Record{rec})
	if err != nil {
		return err
	}
	err = e.db.Update(func(txn *badger.Txn) error {
		return txn.Set(storageKey(table, rec.Key), data)
	})
	if err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// Remove drops the record set under key.
func (e *Engine) Remove(table string, key []byte) error {
	err := e.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(storageKey(table, key))
	})
	if err != nil {
		return fmt.Errorf("remove from %s: %w", table, err)
	}
	return nil
}

// Keys returns a snapshot of the keys present in table.
func (e *Engine) Keys(table string) ([][]byte, error) {
	prefix := tablePrefix(table)
	var keys [][]byte
	err := e.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			sk := it.Item().KeyCopy(nil)
			keys = append(keys, sk[len(prefix):])
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("keys of %s: %w", table, err)
	}
	return keys, nil
}

// Close flushes and closes the underlying database.
func (e *Engine) Close() error {
	return e.db.Close()
}
