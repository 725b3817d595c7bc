package it

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stitch/internal/node"
	"stitch/internal/store"
	"stitch/internal/strategy"
)

// keyUnion re-inserts keys missing on either side: a key absent on the
// peer is written back from the local copy, and action propagation
// mirrors that write to the peer. Two healing passes, one per side,
// converge both copies on the union of their key sets.
type keyUnion struct {
	mu     sync.Mutex
	tables []string
}

func (p *keyUnion) Init(_ context.Context, in strategy.Init) (strategy.Result, error) {
	p.mu.Lock()
	p.tables = append(p.tables, in.Table)
	p.mu.Unlock()
	return strategy.Continue(nil), nil
}

func (p *keyUnion) Step(_ context.Context, pairs []strategy.Pair, state any, _ []string) (strategy.Result, error) {
	var actions []store.Action
	for _, pair := range pairs {
		if len(pair.Remote) == 0 {
			actions = append(actions, store.WriteAction(pair.Local...))
		}
	}
	return strategy.ContinueActions(state, actions...), nil
}

func (p *keyUnion) seen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.tables...)
}

func ordersTable() store.TableInfo {
	return store.TableInfo{
		Name:          "orders",
		Attributes:    []string{"key", "value"},
		CopiesByClass: map[store.CopyClass][]string{store.MemoryCopies: {"a", "b"}},
	}
}

func startPair(t *testing.T, policy *keyUnion) (*node.Node, *node.Node) {
	t.Helper()
	c := NewCluster()
	t.Cleanup(c.Stop)

	method := strategy.Ref{Name: "key_union", Impl: policy}
	a, err := c.StartNode("a", method)
	require.NoError(t, err)
	b, err := c.StartNode("b", method)
	require.NoError(t, err)
	require.NoError(t, c.CreateTable(ordersTable()))
	return a, b
}

func keysOf(t *testing.T, n *node.Node, table string) map[string]bool {
	t.Helper()
	keys, err := n.Store().AllKeys(table)
	require.NoError(t, err)
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		out[string(k)] = true
	}
	return out
}

func TestHealedSplitConvergesOnKeyUnion(t *testing.T) {
	policy := &keyUnion{}
	a, b := startPair(t, policy)

	// Divergent writes made while the cluster was split.
	require.NoError(t, Seed(a, "orders", "k1", "k2", "k3"))
	require.NoError(t, Seed(b, "orders", "k2", "k3", "k4"))

	DeclareDead(a, "b")
	DeclareDead(b, "a")

	// Side a notices b is back and stitches: its local keys reach b.
	a.Tracker().MarkAlive("b")
	require.NoError(t, WaitMerged(a, "b", 5*time.Second))
	assert.True(t, keysOf(t, b, "orders")["k1"], "k1 should have been re-inserted on b")

	// Side b stitches in turn: k4 flows back.
	b.Tracker().MarkAlive("a")
	require.NoError(t, WaitMerged(b, "a", 5*time.Second))

	want := map[string]bool{"k1": true, "k2": true, "k3": true, "k4": true}
	assert.Equal(t, want, keysOf(t, a, "orders"), "copy on a")
	assert.Equal(t, want, keysOf(t, b, "orders"), "copy on b")
}

func TestSchemaTableNeverStitched(t *testing.T) {
	policy := &keyUnion{}
	a, b := startPair(t, policy)
	require.NoError(t, Seed(a, "orders", "k1"))

	DeclareDead(a, "b")
	a.Tracker().MarkAlive("b")
	require.NoError(t, WaitMerged(a, "b", 5*time.Second))
	assert.True(t, keysOf(t, b, "orders")["k1"])

	seen := policy.seen()
	assert.Contains(t, seen, "orders")
	assert.NotContains(t, seen, store.SchemaTable)
}

func TestFailedTableAbortsAttemptButKeepsCommittedWork(t *testing.T) {
	policy := &keyUnion{}
	a, b := startPair(t, policy)

	// sessions exists only in a's catalog: every remote read for it fails.
	require.NoError(t, a.Store().CreateTable(store.TableInfo{
		Name:          "sessions",
		Attributes:    []string{"key", "value"},
		CopiesByClass: map[store.CopyClass][]string{store.MemoryCopies: {"a", "b"}},
	}))

	require.NoError(t, Seed(a, "orders", "k1"))
	require.NoError(t, Seed(a, "sessions", "s1"))

	out, err := a.Coordinator().Reconcile(context.Background(), "a", "b")
	require.Error(t, err, "attempt must surface the remote failure")
	assert.Empty(t, out)

	// orders sorts before sessions, so its actions were already applied
	// and forwarded. They stay committed; there is no rollback.
	assert.True(t, keysOf(t, b, "orders")["k1"], "committed orders work must survive")
	assert.NotContains(t, a.Store().RunningPeers(), "b",
		"a failed merge must not mark the peer connected")
}

func TestReconcileIsIdempotentOncePeerIsMerged(t *testing.T) {
	policy := &keyUnion{}
	a, _ := startPair(t, policy)
	require.NoError(t, Seed(a, "orders", "k1"))

	out, err := a.Coordinator().Reconcile(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeMerged, out)
	initsAfterFirst := len(policy.seen())

	out, err = a.Coordinator().Reconcile(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeAlreadyConnected, out)
	assert.Len(t, policy.seen(), initsAfterFirst, "no table may be touched twice")
}
