// Package island computes which tables diverged across a healed network
// partition. An island is the set of nodes one side of the split
// considered mutually connected; a table needs stitching iff it had a
// live replica on both islands.
package island

import (
	"fmt"

	"stitch/internal/store"
)

// Island is the set of node IDs one side of a partition considered
// running. It is ephemeral, computed on demand from each side's current
// membership.
type Island map[string]struct{}

// New builds an island from a node list.
func New(nodes ...string) Island {
	isl := make(Island, len(nodes))
	for _, n := range nodes {
		isl[n] = struct{}{}
	}
	return isl
}

// Contains reports whether node is part of the island.
func (i Island) Contains(node string) bool {
	_, ok := i[node]
	return ok
}

// Nodes returns the island's members. Order is unspecified.
func (i Island) Nodes() []string {
	out := make([]string, 0, len(i))
	for n := range i {
		out = append(out, n)
	}
	return out
}

// intersects reports whether any of the replica nodes is in the island.
func (i Island) intersects(replicas []string) bool {
	for _, n := range replicas {
		if i.Contains(n) {
			return true
		}
	}
	return false
}

// TableReplicas pairs an affected table with its replica node set (the
// union across storage classes).
type TableReplicas struct {
	Table    string
	Replicas []string
}

// AffectedTables returns every table, except the reserved schema table,
// whose replica set intersects both islands non-emptily — i.e. at least
// one surviving copy existed on each side of the split. Each qualifying
// table appears exactly once; order follows the catalog's table listing.
func AffectedTables(cat store.Catalog, a, b Island) ([]TableReplicas, error) {
	var affected []TableReplicas
	for _, name := range cat.Tables() {
		if name == store.SchemaTable {
			continue
		}
		info, err := cat.Table(name)
		if err != nil {
			return nil, fmt.Errorf("describe %s: %w", name, err)
		}
		replicas := info.Replicas()
		if a.intersects(replicas) && b.intersects(replicas) {
			affected = append(affected, TableReplicas{Table: name, Replicas: replicas})
		}
	}
	return affected, nil
}
