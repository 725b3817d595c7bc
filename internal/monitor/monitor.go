// Package monitor subscribes to store-level system events and turns
// inconsistency notifications into serialized reconciliation attempts: a
// cluster-wide lock guarantees at most one partition-recovery
// reconciliation runs anywhere at a time.
package monitor

import (
	"context"

	"go.uber.org/zap"

	"stitch/internal/cluster"
	"stitch/internal/store"
)

// Coordinator reconciles the local node with a peer after a partition.
type Coordinator interface {
	Reconcile(ctx context.Context, local, peer string) (store.Outcome, error)
}

// PeerRegistry is the store-level merged set. The monitor evicts peers
// from it when they are declared dead, so the eventual heal is not
// mistaken for an already-connected peer.
type PeerRegistry interface {
	MarkDisconnected(peer string)
}

// Monitor consumes system events and drives recovery. Failures inside a
// protected call are logged and never crash the monitor; the next
// notification gets a fresh attempt.
type Monitor struct {
	log    *zap.Logger
	self   string
	lock   Locker
	coord  Coordinator
	peers  PeerRegistry
	events <-chan cluster.Event
}

// New creates a monitor for the given node. peers may be nil when no
// store-level membership needs maintaining.
func New(log *zap.Logger, self string, lock Locker, coord Coordinator, peers PeerRegistry, events <-chan cluster.Event) *Monitor {
	return &Monitor{
		log:    log.Named("monitor"),
		self:   self,
		lock:   lock,
		coord:  coord,
		peers:  peers,
		events: events,
	}
}

// Run consumes events until ctx is cancelled or the event stream closes.
func (m *Monitor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-m.events:
			if !ok {
				return
			}
			m.handle(ctx, ev)
		}
	}
}

func (m *Monitor) handle(ctx context.Context, ev cluster.Event) {
	if ev.Kind == cluster.EventPeerDown {
		if m.peers != nil {
			m.peers.MarkDisconnected(ev.Node)
		}
		m.log.Warn("peer disconnected", zap.String("peer", ev.Node))
		return
	}
	if ev.Kind != cluster.EventInconsistent {
		m.log.Debug("ignoring event",
			zap.Int("kind", int(ev.Kind)),
			zap.String("node", ev.Node))
		return
	}

	m.log.Info("inconsistent database detected",
		zap.String("context", ev.Ctx),
		zap.String("peer", ev.Node))

	// The lock is owned by this monitor's execution context and released
	// when the protected call returns, success or not.
	err := m.lock.Do(ctx, LockResource, m.self, func(ctx context.Context) error {
		out, err := m.coord.Reconcile(ctx, m.self, ev.Node)
		if err != nil {
			return err
		}
		m.log.Info("reconciliation finished",
			zap.String("peer", ev.Node),
			zap.String("outcome", string(out)))
		return nil
	})
	if err != nil {
		m.log.Error("reconciliation failed",
			zap.String("peer", ev.Node),
			zap.Error(err))
	}
}
