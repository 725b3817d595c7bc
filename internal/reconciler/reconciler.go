// Package reconciler drives one table's resolution session to completion:
// it feeds record pairs to the table's resolution policy according to the
// active strategy, applies the merge actions the policy produces to the
// local copy, and forwards them to the peer so both copies converge.
package reconciler

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"stitch/internal/metrics"
	"stitch/internal/store"
	"stitch/internal/strategy"
)

// ErrEmptyLocalRead indicates a key obtained from live enumeration read
// back as an empty record set. This is an internal-consistency failure
// and aborts the table.
var ErrEmptyLocalRead = errors.New("enumerated key has no local records")

// Store is the slice of the local store a table reconciliation needs.
type Store interface {
	store.Access
	Table(name string) (store.TableInfo, error)
}

// Remote is the peer side of the remote data-access protocol. Calls block
// until a response or failure; failures are never retried here and abort
// the in-flight table.
type Remote interface {
	GetObject(ctx context.Context, peer, table string, key []byte) ([]store.Record, error)
	ApplyActions(ctx context.Context, peer, table string, actions []store.Action) error
}

// Batcher feeds data to the policy under one strategy. It returns
// done=true when the table's reconciliation finished (all batches
// processed, or the policy returned stop), and done=false when the
// session switched strategy and the dispatch loop should hand the
// remaining work to the new strategy's batcher.
type Batcher func(ctx context.Context, sess *strategy.Session, res strategy.Resolver) (done bool, err error)

// Reconciler reconciles single tables. One reconciliation attempt runs
// strictly sequentially; there is no parallelism across keys.
type Reconciler struct {
	log      *zap.Logger
	store    Store
	remote   Remote
	batchers map[strategy.Strategy]Batcher
}

// New creates a reconciler with the built-in all_keys strategy.
func New(log *zap.Logger, st Store, remote Remote) *Reconciler {
	r := &Reconciler{
		log:      log.Named("reconciler"),
		store:    st,
		remote:   remote,
		batchers: make(map[strategy.Strategy]Batcher),
	}
	r.batchers[strategy.AllKeys] = r.allKeys
	return r
}

// RegisterBatcher installs a batcher for an additional strategy tag, for
// policies that switch away from all_keys.
func (r *Reconciler) RegisterBatcher(s strategy.Strategy, b Batcher) {
	r.batchers[s] = b
}

// ReconcileTable runs one table's resolution session to completion. It is
// called while the store's merge transaction holds the table's write lock.
func (r *Reconciler) ReconcileTable(ctx context.Context, table string, method strategy.Ref, start strategy.Strategy, peer string) error {
	resolver, err := method.Resolve()
	if err != nil {
		return fmt.Errorf("table %s: %w", table, err)
	}

	info, err := r.store.Table(table)
	if err != nil {
		return err
	}

	sess := &strategy.Session{
		Method:     method,
		Table:      table,
		Attributes: info.Attributes,
		Peer:       peer,
		Strategy:   start,
	}

	r.log.Info("stitching table",
		zap.String("table", table),
		zap.String("peer", peer),
		zap.String("method", method.Name),
		zap.String("strategy", string(sess.Strategy)))

	res, err := resolver.Init(ctx, strategy.Init{
		Table:      table,
		Attributes: info.Attributes,
		Args:       method.Args,
	})
	if err != nil {
		return fmt.Errorf("init %s on %s: %w", method.Name, table, err)
	}
	stop, err := r.absorb(ctx, sess, res)
	if err != nil {
		return fmt.Errorf("init %s on %s: %w", method.Name, table, err)
	}
	if stop {
		r.log.Info("policy stopped at init", zap.String("table", table))
		metrics.TablesStitched.Inc()
		return nil
	}

	for {
		batch, ok := r.batchers[sess.Strategy]
		if !ok {
			return fmt.Errorf("table %s: no batcher for strategy %q", table, sess.Strategy)
		}
		cur := sess.Strategy
		done, err := batch(ctx, sess, resolver)
		if err != nil {
			return err
		}
		if done {
			metrics.TablesStitched.Inc()
			return nil
		}
		if sess.Strategy == cur {
			return fmt.Errorf("table %s: batcher for %q yielded without progress", table, cur)
		}
	}
}

// allKeys enumerates every key in the local copy (a point-in-time,
// non-isolated snapshot) and feeds the policy one (local, remote) pair
// per key, exactly once, in no particular order.
func (r *Reconciler) allKeys(ctx context.Context, sess *strategy.Session, resolver strategy.Resolver) (bool, error) {
	keys, err := r.store.AllKeys(sess.Table)
	if err != nil {
		return false, fmt.Errorf("enumerate %s: %w", sess.Table, err)
	}

	for _, key := range keys {
		local, err := r.store.DirtyRead(sess.Table, key)
		if err != nil {
			return false, fmt.Errorf("read %s[%x]: %w", sess.Table, key, err)
		}
		if len(local) == 0 {
			// The key came from a live enumeration; an empty read means the
			// store lied to us.
			return false, fmt.Errorf("table %s key %x: %w", sess.Table, key, ErrEmptyLocalRead)
		}

		remote, err := r.remote.GetObject(ctx, sess.Peer, sess.Table, key)
		if err != nil {
			return false, fmt.Errorf("fetch %s[%x] from %s: %w", sess.Table, key, sess.Peer, err)
		}

		res, err := resolver.Step(ctx, []strategy.Pair{{Local: local, Remote: remote}}, sess.State, sess.Method.Args)
		if err != nil {
			return false, fmt.Errorf("step %s on %s: %w", sess.Method.Name, sess.Table, err)
		}
		metrics.KeysStitched.Inc()

		r.log.Debug("stitched key",
			zap.String("table", sess.Table),
			zap.Binary("key", key),
			zap.Int("actions", len(res.Actions)))

		stop, err := r.absorb(ctx, sess, res)
		if err != nil {
			return false, fmt.Errorf("step %s on %s: %w", sess.Method.Name, sess.Table, err)
		}
		sess.Progress = key
		if stop {
			return true, nil
		}
		if sess.Strategy != strategy.AllKeys {
			// Remaining keys are fed by the new strategy's batcher.
			return false, nil
		}
	}
	return true, nil
}

// absorb interprets a policy result uniformly: validates the shape,
// applies any actions to both copies synchronously, and folds state and
// strategy switches into the session. Returns stop=true on a terminal
// result.
func (r *Reconciler) absorb(ctx context.Context, sess *strategy.Session, res strategy.Result) (bool, error) {
	if !res.Valid() {
		return false, fmt.Errorf("%w (kind %d)", strategy.ErrBadResult, res.Kind)
	}
	if len(res.Actions) > 0 {
		if err := r.apply(ctx, sess, res.Actions); err != nil {
			return false, err
		}
	}
	if err := sess.Absorb(res); err != nil {
		return false, err
	}
	return res.Kind == strategy.KindStop, nil
}

// apply applies an action set to the local copy immediately, then forwards
// the identical set to the peer. Actions are never queued across keys.
func (r *Reconciler) apply(ctx context.Context, sess *strategy.Session, actions []store.Action) error {
	if err := store.ApplyActions(r.store, sess.Table, actions); err != nil {
		return err
	}
	if err := r.remote.ApplyActions(ctx, sess.Peer, sess.Table, actions); err != nil {
		return fmt.Errorf("forward actions to %s: %w", sess.Peer, err)
	}
	for _, a := range actions {
		metrics.ActionsApplied.WithLabelValues(a.Kind.String()).Inc()
	}
	return nil
}
