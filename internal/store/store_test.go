package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(zaptest.NewLogger(t), NewMemoryEngine())
	err := s.CreateTable(TableInfo{
		Name:       "orders",
		Attributes: []string{"key", "value"},
		CopiesByClass: map[CopyClass][]string{
			MemoryCopies: {"a", "b"},
		},
	})
	if err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	return s
}

func TestStore_DirtyReadWrite(t *testing.T) {
	s := newTestStore(t)

	recs, err := s.DirtyRead("orders", []byte("k1"))
	if err != nil {
		t.Fatalf("DirtyRead: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("Expected empty record set, got %d", len(recs))
	}

	rec := Record{Key: []byte("k1"), Fields: [][]byte{[]byte("v1")}}
	if err := s.DirtyWrite("orders", rec); err != nil {
		t.Fatalf("DirtyWrite: %v", err)
	}

	recs, err = s.DirtyRead("orders", []byte("k1"))
	if err != nil {
		t.Fatalf("DirtyRead: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(recs))
	}
	if string(recs[0].Fields[0]) != "v1" {
		t.Errorf("Expected field 'v1', got '%s'", recs[0].Fields[0])
	}

	// Mutating the returned record must not touch the stored copy.
	recs[0].Fields[0][0] = 'X'
	again, _ := s.DirtyRead("orders", []byte("k1"))
	if string(again[0].Fields[0]) != "v1" {
		t.Error("Stored record aliased by read result")
	}
}

func TestStore_DirtyDelete(t *testing.T) {
	s := newTestStore(t)

	_ = s.DirtyWrite("orders", Record{Key: []byte("k1"), Fields: [][]byte{[]byte("v1")}})
	if err := s.DirtyDelete("orders", []byte("k1")); err != nil {
		t.Fatalf("DirtyDelete: %v", err)
	}

	recs, _ := s.DirtyRead("orders", []byte("k1"))
	if len(recs) != 0 {
		t.Errorf("Expected empty record set after delete, got %d", len(recs))
	}
}

func TestStore_UnknownTable(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.DirtyRead("nope", []byte("k")); !errors.Is(err, ErrNoTable) {
		t.Errorf("Expected ErrNoTable, got %v", err)
	}
	if _, err := s.Table("nope"); !errors.Is(err, ErrNoTable) {
		t.Errorf("Expected ErrNoTable, got %v", err)
	}
}

func TestStore_AllKeysSnapshot(t *testing.T) {
	s := newTestStore(t)

	for _, k := range []string{"a", "b", "c"} {
		_ = s.DirtyWrite("orders", Record{Key: []byte(k)})
	}

	keys, err := s.AllKeys("orders")
	if err != nil {
		t.Fatalf("AllKeys: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("Expected 3 keys, got %d", len(keys))
	}
}

func TestStore_SchemaTableAlwaysExists(t *testing.T) {
	s := New(zaptest.NewLogger(t), NewMemoryEngine())

	info, err := s.Table(SchemaTable)
	if err != nil {
		t.Fatalf("Table(schema): %v", err)
	}
	if info.Name != SchemaTable {
		t.Errorf("Expected schema descriptor, got %s", info.Name)
	}
}

func TestStore_Properties(t *testing.T) {
	s := newTestStore(t)

	if _, ok := s.Property("orders", "resolve_method"); ok {
		t.Error("Expected absent property")
	}
	if err := s.SetProperty("orders", "resolve_method", "x"); err != nil {
		t.Fatalf("SetProperty: %v", err)
	}
	v, ok := s.Property("orders", "resolve_method")
	if !ok || v != "x" {
		t.Errorf("Expected property 'x', got %v (present=%v)", v, ok)
	}
}

func TestStore_ApplyActions(t *testing.T) {
	s := newTestStore(t)

	_ = s.DirtyWrite("orders", Record{Key: []byte("old")})

	actions := []Action{
		WriteAction(Record{Key: []byte("k1"), Fields: [][]byte{[]byte("v1")}}),
		DeleteAction([]byte("old")),
	}
	if err := ApplyActions(s, "orders", actions); err != nil {
		t.Fatalf("ApplyActions: %v", err)
	}

	recs, _ := s.DirtyRead("orders", []byte("k1"))
	if len(recs) != 1 {
		t.Errorf("Expected written record, got %d records", len(recs))
	}
	recs, _ = s.DirtyRead("orders", []byte("old"))
	if len(recs) != 0 {
		t.Errorf("Expected deleted record, got %d records", len(recs))
	}
}

func TestStore_ApplyActions_UnknownKind(t *testing.T) {
	s := newTestStore(t)

	err := ApplyActions(s, "orders", []Action{{Kind: ActionKind(99)}})
	if err == nil {
		t.Fatal("Expected error for unknown action kind")
	}
}

func TestStore_ConnectAndMergeHoldsTableLock(t *testing.T) {
	s := newTestStore(t)

	entered := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := s.ConnectAndMerge(context.Background(), "peer", []string{"orders"}, func(ctx context.Context) error {
			close(entered)
			<-release
			return nil
		})
		if err != nil {
			t.Errorf("ConnectAndMerge: %v", err)
		}
	}()

	<-entered

	// A second merge for the same table must block until the first one
	// releases the per-table lock.
	second := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.ConnectAndMerge(context.Background(), "peer", []string{"orders"}, func(ctx context.Context) error {
			close(second)
			return nil
		})
	}()

	select {
	case <-second:
		t.Fatal("Second merge entered while first held the table lock")
	default:
	}

	close(release)
	wg.Wait()

	select {
	case <-second:
	default:
		t.Fatal("Second merge never ran")
	}
}

func TestStore_ConnectAndMergePropagatesError(t *testing.T) {
	s := newTestStore(t)

	wantErr := errors.New("boom")
	out, err := s.ConnectAndMerge(context.Background(), "peer", []string{"orders"}, func(ctx context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Expected wrapped callback error, got %v", err)
	}
	if out != "" {
		t.Errorf("Expected empty outcome on error, got %q", out)
	}
}

func TestTableInfo_ReplicasUnion(t *testing.T) {
	ti := TableInfo{
		Name: "t",
		CopiesByClass: map[CopyClass][]string{
			MemoryCopies: {"a", "b"},
			DiskCopies:   {"b", "c"},
		},
	}

	replicas := ti.Replicas()
	if len(replicas) != 3 {
		t.Fatalf("Expected union of 3 nodes, got %v", replicas)
	}
	seen := make(map[string]bool)
	for _, n := range replicas {
		if seen[n] {
			t.Errorf("Node %s appears twice in union", n)
		}
		seen[n] = true
	}
}

func TestStore_MergedSetLifecycle(t *testing.T) {
	s := newTestStore(t)

	if got := s.RunningPeers(); len(got) != 0 {
		t.Fatalf("Fresh store should be merged with nobody, got %v", got)
	}

	// A successful merge transaction adds the peer.
	_, err := s.ConnectAndMerge(context.Background(), "b", []string{"orders"}, func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("ConnectAndMerge: %v", err)
	}
	if got := s.RunningPeers(); len(got) != 1 || got[0] != "b" {
		t.Fatalf("Expected [b], got %v", got)
	}

	// A failed merge transaction must not.
	_, _ = s.ConnectAndMerge(context.Background(), "c", []string{"orders"}, func(ctx context.Context) error {
		return errors.New("boom")
	})
	if got := s.RunningPeers(); len(got) != 1 {
		t.Fatalf("Failed merge must not add the peer, got %v", got)
	}

	s.MarkDisconnected("b")
	if got := s.RunningPeers(); len(got) != 0 {
		t.Fatalf("Expected empty set after disconnect, got %v", got)
	}
}
