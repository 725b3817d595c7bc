package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// tableState carries a table's descriptor, its stored properties, and the
// merge lock the reconnect-and-merge transaction holds while the table's
// diverged copies are reconciled.
type tableState struct {
	info    TableInfo
	props   map[string]any
	mergeMu sync.Mutex
}

// Store is a node-local table store. It implements Catalog, Access and
// Merger over a pluggable Engine.
type Store struct {
	log    *zap.Logger
	engine Engine

	mu     sync.RWMutex // guards the catalog, not record data
	tables map[string]*tableState

	// connected is the store-level view of which peers this store is
	// merged with. It is distinct from network liveness: a peer can be
	// reachable again while its tables are still diverged.
	connMu    sync.RWMutex
	connected map[string]struct{}
}

// New creates a store over the given engine. The reserved schema table
// always exists.
func New(log *zap.Logger, engine Engine) *Store {
	s := &Store{
		log:       log.Named("store"),
		engine:    engine,
		tables:    make(map[string]*tableState),
		connected: make(map[string]struct{}),
	}
	s.tables[SchemaTable] = &tableState{
		info:  TableInfo{Name: SchemaTable, Attributes: []string{"key", "value"}, ChunkFactor: 1},
		props: make(map[string]any),
	}
	return s
}

// CreateTable registers a table descriptor.
func (s *Store) CreateTable(info TableInfo) error {
	if info.ChunkFactor <= 0 {
		info.ChunkFactor = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[info.Name]; ok {
		return fmt.Errorf("create %s: %w", info.Name, ErrTableExists)
	}
	s.tables[info.Name] = &tableState{info: info, props: make(map[string]any)}
	s.log.Info("table created", zap.String("table", info.Name), zap.Strings("replicas", info.Replicas()))
	return nil
}

// Tables lists every known table, the reserved schema table included.
func (s *Store) Tables() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table returns the descriptor for a table.
func (s *Store) Table(name string) (TableInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ts, ok := s.tables[name]
	if !ok {
		return TableInfo{}, fmt.Errorf("table %s: %w", name, ErrNoTable)
	}
	return ts.info, nil
}

// Property reads a stored per-table configuration property.
func (s *Store) Property(table, name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ts, ok := s.tables[table]
	if !ok {
		return nil, false
	}
	v, ok := ts.props[name]
	return v, ok
}

// SetProperty stores a per-table configuration property.
func (s *Store) SetProperty(table, name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts, ok := s.tables[table]
	if !ok {
		return fmt.Errorf("table %s: %w", table, ErrNoTable)
	}
	ts.props[name] = value
	return nil
}

func (s *Store) state(table string) (*tableState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ts, ok := s.tables[table]
	if !ok {
		return nil, fmt.Errorf("table %s: %w", table, ErrNoTable)
	}
	return ts, nil
}

// DirtyRead returns the record set under key.
func (s *Store) DirtyRead(table string, key []byte) ([]Record, error) {
	if _, err := s.state(table); err != nil {
		return nil, err
	}
	return s.engine.Lookup(table, key)
}

// DirtyWrite replaces the record set under rec.Key with rec, bypassing
// the transactional path.
func (s *Store) DirtyWrite(table string, rec Record) error {
	if _, err := s.state(table); err != nil {
		return err
	}
	return s.engine.Insert(table, rec)
}

// DirtyDelete removes the record set under key.
func (s *Store) DirtyDelete(table string, key []byte) error {
	if _, err := s.state(table); err != nil {
		return err
	}
	return s.engine.Remove(table, key)
}

// AllKeys returns a non-isolated snapshot of the keys in table.
func (s *Store) AllKeys(table string) ([][]byte, error) {
	if _, err := s.state(table); err != nil {
		return nil, err
	}
	return s.engine.Keys(table)
}

// ConnectAndMerge reconnects to peer for the given tables and runs fn while
// holding each table's merge lock. Replication for the named tables is not
// active inside fn; mutations there must go through the dirty path and be
// mirrored to the peer by the caller. Tables are locked in sorted order.
func (s *Store) ConnectAndMerge(ctx context.Context, peer string, tables []string, fn MergeFunc) (Outcome, error) {
	states := make([]*tableState, 0, len(tables))
	sorted := append([]string(nil), tables...)
	sort.Strings(sorted)
	for _, name := range sorted {
		ts, err := s.state(name)
		if err != nil {
			return "", err
		}
		states = append(states, ts)
	}

	for _, ts := range states {
		ts.mergeMu.Lock()
	}
	defer func() {
		for _, ts := range states {
			ts.mergeMu.Unlock()
		}
	}()

	s.log.Info("merge transaction started",
		zap.String("peer", peer),
		zap.Strings("tables", sorted))

	if err := fn(ctx); err != nil {
		return "", fmt.Errorf("merge with %s: %w", peer, err)
	}

	s.MarkConnected(peer)
	return OutcomeMerged, nil
}

// MarkConnected records that the store is merged with peer.
func (s *Store) MarkConnected(peer string) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	s.connected[peer] = struct{}{}
}

// MarkDisconnected drops peer from the merged set. The next successful
// reconciliation with it will re-add it.
func (s *Store) MarkDisconnected(peer string) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	delete(s.connected, peer)
}

// RunningPeers returns the peers the store currently considers merged,
// sorted, excluding the local node itself.
func (s *Store) RunningPeers() []string {
	s.connMu.RLock()
	defer s.connMu.RUnlock()

	peers := make([]string, 0, len(s.connected))
	for p := range s.connected {
		peers = append(peers, p)
	}
	sort.Strings(peers)
	return peers
}

// Close closes the underlying engine.
func (s *Store) Close() error {
	return s.engine.Close()
}
