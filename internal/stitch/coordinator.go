// Package stitch orchestrates partition recovery: it checks that a merge
// is actually needed, discovers both islands' membership, selects the
// affected tables and their resolution methods, and drives per-table
// reconciliation inside the store's reconnect-and-merge transaction.
package stitch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stitch/internal/island"
	"stitch/internal/metrics"
	"stitch/internal/store"
	"stitch/internal/strategy"
)

// Stored per-table property names. Both are optional; absence falls back
// to the process-wide defaults.
const (
	// MethodProperty holds a strategy.Ref overriding the default
	// resolution method for one table.
	MethodProperty = "resolve_method"
	// StrategyProperty holds a strategy.Strategy overriding the default
	// starting strategy for one table.
	StrategyProperty = "resolve_strategy"
)

// Store is the slice of the local store the coordinator needs.
type Store interface {
	store.Catalog
	store.Merger
}

// Membership reports which peers the local node currently considers
// running and connected.
type Membership interface {
	RunningPeers() []string
}

// Remote is the cross-node query surface used during island discovery.
type Remote interface {
	// RunningNodes returns the set of nodes peer considers running,
	// including peer itself.
	RunningNodes(ctx context.Context, peer string) ([]string, error)
}

// TableReconciler reconciles a single table with a peer.
type TableReconciler interface {
	ReconcileTable(ctx context.Context, table string, method strategy.Ref, start strategy.Strategy, peer string) error
}

// Defaults is the process-wide fallback resolution configuration, passed
// in explicitly at construction.
type Defaults struct {
	Method   strategy.Ref
	Strategy strategy.Strategy
}

// Coordinator runs one full reconciliation attempt at a time. Callers
// must hold the cluster-wide lock for the duration of Reconcile.
type Coordinator struct {
	log      *zap.Logger
	store    Store
	peers    Membership
	remote   Remote
	recon    TableReconciler
	defaults Defaults
}

// New creates a coordinator.
func New(log *zap.Logger, st Store, peers Membership, remote Remote, recon TableReconciler, defaults Defaults) *Coordinator {
	if defaults.Method.Name == "" && defaults.Method.Impl == nil {
		defaults.Method = strategy.Ref{Name: strategy.NoActionName}
	}
	if defaults.Strategy == "" {
		defaults.Strategy = strategy.AllKeys
	}
	return &Coordinator{
		log:      log.Named("stitch"),
		store:    st,
		peers:    peers,
		remote:   remote,
		recon:    recon,
		defaults: defaults,
	}
}

// tablePlan is one affected table with its resolved method and strategy.
type tablePlan struct {
	table    string
	method   strategy.Ref
	strategy strategy.Strategy
}

// Reconcile heals the partition between local and peer. It is idempotent:
// a peer already in the running set means a prior reconciliation already
// succeeded or no split occurred, and the call returns success without
// touching any table.
func (c *Coordinator) Reconcile(ctx context.Context, local, peer string) (store.Outcome, error) {
	out, err := c.reconcile(ctx, local, peer)
	if err != nil {
		metrics.ReconcileAttempts.WithLabelValues("error").Inc()
	} else {
		metrics.ReconcileAttempts.WithLabelValues(string(out)).Inc()
	}
	return out, err
}

func (c *Coordinator) reconcile(ctx context.Context, local, peer string) (store.Outcome, error) {
	for _, running := range c.peers.RunningPeers() {
		if running == peer {
			c.log.Info("peer already connected, nothing to stitch",
				zap.String("peer", peer))
			return store.OutcomeAlreadyConnected, nil
		}
	}

	islandA := island.New(append(c.peers.RunningPeers(), local)...)

	remoteNodes, err := c.remote.RunningNodes(ctx, peer)
	if err != nil {
		return "", fmt.Errorf("query island of %s: %w", peer, err)
	}
	islandB := island.New(append(remoteNodes, peer)...)

	c.log.Info("islands discovered",
		zap.String("peer", peer),
		zap.Strings("island_a", islandA.Nodes()),
		zap.Strings("island_b", islandB.Nodes()))

	affected, err := island.AffectedTables(c.store, islandA, islandB)
	if err != nil {
		return "", err
	}

	plans := make([]tablePlan, 0, len(affected))
	tables := make([]string, 0, len(affected))
	for _, tr := range affected {
		plan, err := c.planFor(tr.Table)
		if err != nil {
			return "", err
		}
		plans = append(plans, plan)
		tables = append(tables, tr.Table)
		c.log.Info("table needs stitching",
			zap.String("table", tr.Table),
			zap.Strings("replicas", tr.Replicas),
			zap.String("method", plan.method.Name),
			zap.String("strategy", string(plan.strategy)))
	}

	return c.store.ConnectAndMerge(ctx, peer, tables, func(ctx context.Context) error {
		// The store's transaction holds the per-table write locks here;
		// replication for these tables is not active yet.
		for _, plan := range plans {
			if err := c.recon.ReconcileTable(ctx, plan.table, plan.method, plan.strategy, peer); err != nil {
				return err
			}
		}
		return nil
	})
}

// planFor resolves a table's method and strategy: the stored per-table
// properties when present, the process-wide defaults otherwise.
func (c *Coordinator) planFor(table string) (tablePlan, error) {
	plan := tablePlan{table: table, method: c.defaults.Method, strategy: c.defaults.Strategy}

	if v, ok := c.store.Property(table, MethodProperty); ok {
		ref, ok := v.(strategy.Ref)
		if !ok {
			return tablePlan{}, fmt.Errorf("table %s: property %s is not a method reference (%T)", table, MethodProperty, v)
		}
		plan.method = ref
	}
	if v, ok := c.store.Property(table, StrategyProperty); ok {
		s, ok := v.(strategy.Strategy)
		if !ok {
			return tablePlan{}, fmt.Errorf("table %s: property %s is not a strategy tag (%T)", table, StrategyProperty, v)
		}
		plan.strategy = s
	}
	return plan, nil
}
