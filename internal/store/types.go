package store

import (
	"context"
	"errors"
	"fmt"

	"stitch/internal/clock"
)

// SchemaTable is the reserved schema table. It is never stitched.
const SchemaTable = "schema"

var (
	// ErrNoTable indicates an operation against an unknown table.
	ErrNoTable = errors.New("no such table")
	// ErrTableExists indicates a duplicate table creation.
	ErrTableExists = errors.New("table already exists")
)

// Record is a single table record: a key, field values positionally
// matching the table's attribute list, and a writer-managed version.
type Record struct {
	Key     []byte
	Fields  [][]byte
	Version clock.VectorClock
}

// Copy returns a deep copy of the record.
func (r Record) Copy() Record {
	cp := Record{Key: append([]byte(nil), r.Key...)}
	if r.Fields != nil {
		cp.Fields = make([][]byte, len(r.Fields))
		for i, f := range r.Fields {
			cp.Fields[i] = append([]byte(nil), f...)
		}
	}
	if r.Version != nil {
		cp.Version = r.Version.Copy()
	}
	return cp
}

// ActionKind discriminates merge actions.
type ActionKind int

const (
	// ActionWrite writes a set of records to both copies.
	ActionWrite ActionKind = iota + 1
	// ActionDelete removes a set of keys from both copies.
	ActionDelete
)

// String returns the string representation of ActionKind.
func (k ActionKind) String() string {
	switch k {
	case ActionWrite:
		return "write"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Action is a merge action produced by a resolution policy. It is applied
// to the local copy immediately and forwarded verbatim to the peer.
type Action struct {
	Kind    ActionKind
	Records []Record // ActionWrite
	Keys    [][]byte // ActionDelete
}

// WriteAction builds a write action for the given records.
func WriteAction(records ...Record) Action {
	return Action{Kind: ActionWrite, Records: records}
}

// DeleteAction builds a delete action for the given keys.
func DeleteAction(keys ...[]byte) Action {
	return Action{Kind: ActionDelete, Keys: keys}
}

// CopyClass is a storage class a table replica may live in.
type CopyClass string

const (
	MemoryCopies CopyClass = "memory_copies"
	DiskCopies   CopyClass = "disk_copies"
)

// TableInfo describes one table: its attribute list, where its replicas
// live per storage class, and a batching hint for streaming key reads
// (currently always 1).
type TableInfo struct {
	Name          string
	Attributes    []string
	CopiesByClass map[CopyClass][]string
	ChunkFactor   int
}

// Replicas returns the union of the table's replica node sets across all
// storage classes. Each node appears once; order is unspecified.
func (ti TableInfo) Replicas() []string {
	seen := make(map[string]bool)
	var nodes []string
	for _, copies := range ti.CopiesByClass {
		for _, node := range copies {
			if !seen[node] {
				seen[node] = true
				nodes = append(nodes, node)
			}
		}
	}
	return nodes
}

// Outcome is the store-defined result of a reconnect-and-merge operation.
type Outcome string

const (
	// OutcomeMerged indicates the merge transaction committed and the
	// callback completed.
	OutcomeMerged Outcome = "merged"
	// OutcomeAlreadyConnected indicates no merge was needed because the
	// peer was already connected.
	OutcomeAlreadyConnected Outcome = "already_connected"
)

// Catalog is the table-metadata surface consumed by the stitching core.
type Catalog interface {
	// Tables lists every table known to the store, including the reserved
	// schema table.
	Tables() []string
	// Table returns the descriptor for a table.
	Table(name string) (TableInfo, error)
	// Property reads a stored per-table configuration property. Absence
	// is not an error.
	Property(table, name string) (any, bool)
}

// Access is the dirty (immediate, non-transactional) record surface.
// These writes bypass the transactional path on purpose: replication is
// not active for a table while it is being merged, so every mutation is
// mirrored to the peer explicitly by the caller.
type Access interface {
	// DirtyRead returns the (possibly empty) record set under key.
	DirtyRead(table string, key []byte) ([]Record, error)
	// DirtyWrite replaces the record set under rec.Key with rec.
	DirtyWrite(table string, rec Record) error
	// DirtyDelete removes the record set under key.
	DirtyDelete(table string, key []byte) error
	// AllKeys returns a point-in-time, non-isolated snapshot of the keys
	// present in the local copy.
	AllKeys(table string) ([][]byte, error)
}

// MergeFunc runs inside the store's merge transaction while per-table
// write locks are held.
type MergeFunc func(ctx context.Context) error

// Merger runs the store's reconnect-and-merge operation for a table list.
type Merger interface {
	ConnectAndMerge(ctx context.Context, peer string, tables []string, fn MergeFunc) (Outcome, error)
}

// ApplyActions applies a merge-action list to a local copy: writes are
// immediate dirty writes, deletes remove the listed keys. This is the
// single application path used both for the local side of a stitch step
// and for action lists forwarded by a peer.
func ApplyActions(a Access, table string, actions []Action) error {
	for _, act := range actions {
		switch act.Kind {
		case ActionWrite:
			for _, rec := range act.Records {
				if err := a.DirtyWrite(table, rec); err != nil {
					return fmt.Errorf("apply write to %s: %w", table, err)
				}
			}
		case ActionDelete:
			for _, key := range act.Keys {
				if err := a.DirtyDelete(table, key); err != nil {
					return fmt.Errorf("apply delete to %s: %w", table, err)
				}
			}
		default:
			return fmt.Errorf("apply to %s: unknown action kind %d", table, act.Kind)
		}
	}
	return nil
}
