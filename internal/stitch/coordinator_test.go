package stitch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"stitch/internal/store"
	"stitch/internal/strategy"
)

type fakeMembership struct {
	running []string
}

func (f *fakeMembership) RunningPeers() []string { return f.running }

type fakeRemote struct {
	nodes map[string][]string
	err   error
	calls int
}

func (f *fakeRemote) RunningNodes(_ context.Context, peer string) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.nodes[peer], nil
}

type fakeReconciler struct {
	calls []struct {
		table    string
		method   string
		strategy strategy.Strategy
		peer     string
	}
	failOn string
}

var errTable = errors.New("table blew up")

func (f *fakeReconciler) ReconcileTable(_ context.Context, table string, method strategy.Ref, start strategy.Strategy, peer string) error {
	f.calls = append(f.calls, struct {
		table    string
		method   string
		strategy strategy.Strategy
		peer     string
	}{table, method.Name, start, peer})
	if table == f.failOn {
		return errTable
	}
	return nil
}

func testStore(t *testing.T, tables ...store.TableInfo) *store.Store {
	t.Helper()
	s := store.New(zaptest.NewLogger(t), store.NewMemoryEngine())
	for _, info := range tables {
		require.NoError(t, s.CreateTable(info))
	}
	return s
}

func spanning(name string) store.TableInfo {
	return store.TableInfo{
		Name:          name,
		Attributes:    []string{"key", "value"},
		CopiesByClass: map[store.CopyClass][]string{store.MemoryCopies: {"a", "b"}},
	}
}

func TestReconcile_IdempotentWhenPeerRunning(t *testing.T) {
	s := testStore(t, spanning("orders"))
	remote := &fakeRemote{}
	recon := &fakeReconciler{}

	c := New(zaptest.NewLogger(t), s, &fakeMembership{running: []string{"b"}}, remote, recon, Defaults{})
	out, err := c.Reconcile(context.Background(), "a", "b")

	require.NoError(t, err)
	assert.Equal(t, store.OutcomeAlreadyConnected, out)
	assert.Zero(t, remote.calls, "no island query expected")
	assert.Empty(t, recon.calls, "no table work expected")
}

func TestReconcile_IslandQueryFailureAborts(t *testing.T) {
	s := testStore(t, spanning("orders"))
	wantErr := errors.New("peer down")
	remote := &fakeRemote{err: wantErr}
	recon := &fakeReconciler{}

	c := New(zaptest.NewLogger(t), s, &fakeMembership{}, remote, recon, Defaults{})
	_, err := c.Reconcile(context.Background(), "a", "b")

	require.ErrorIs(t, err, wantErr)
	assert.Empty(t, recon.calls, "no partial state may be committed")
}

func TestReconcile_StitchesAffectedTablesWithDefaults(t *testing.T) {
	s := testStore(t, spanning("orders"), spanning("sessions"))
	remote := &fakeRemote{nodes: map[string][]string{"b": {"b"}}}
	recon := &fakeReconciler{}

	c := New(zaptest.NewLogger(t), s, &fakeMembership{}, remote, recon, Defaults{
		Method:   strategy.Ref{Name: strategy.LastVersionName},
		Strategy: strategy.AllKeys,
	})
	out, err := c.Reconcile(context.Background(), "a", "b")

	require.NoError(t, err)
	assert.Equal(t, store.OutcomeMerged, out)
	require.Len(t, recon.calls, 2)
	for _, call := range recon.calls {
		assert.Equal(t, strategy.LastVersionName, call.method)
		assert.Equal(t, strategy.AllKeys, call.strategy)
		assert.Equal(t, "b", call.peer)
	}
}

func TestReconcile_MethodPropertyOverridesDefault(t *testing.T) {
	s := testStore(t, spanning("orders"))
	override := strategy.Ref{Name: strategy.NoActionName}
	require.NoError(t, s.SetProperty("orders", MethodProperty, override))

	remote := &fakeRemote{nodes: map[string][]string{"b": {"b"}}}
	recon := &fakeReconciler{}

	c := New(zaptest.NewLogger(t), s, &fakeMembership{}, remote, recon, Defaults{
		Method: strategy.Ref{Name: strategy.LastVersionName},
	})
	_, err := c.Reconcile(context.Background(), "a", "b")

	require.NoError(t, err)
	require.Len(t, recon.calls, 1)
	assert.Equal(t, strategy.NoActionName, recon.calls[0].method)
}

func TestReconcile_BadMethodPropertyIsFatal(t *testing.T) {
	s := testStore(t, spanning("orders"))
	require.NoError(t, s.SetProperty("orders", MethodProperty, "not a ref"))

	remote := &fakeRemote{nodes: map[string][]string{"b": {"b"}}}
	recon := &fakeReconciler{}

	c := New(zaptest.NewLogger(t), s, &fakeMembership{}, remote, recon, Defaults{})
	_, err := c.Reconcile(context.Background(), "a", "b")

	require.Error(t, err)
	assert.Empty(t, recon.calls)
}

func TestReconcile_TableFailureAbortsWholeAttempt(t *testing.T) {
	s := testStore(t, spanning("orders"), spanning("sessions"))
	remote := &fakeRemote{nodes: map[string][]string{"b": {"b"}}}
	recon := &fakeReconciler{failOn: "sessions"}

	c := New(zaptest.NewLogger(t), s, &fakeMembership{}, remote, recon, Defaults{})
	out, err := c.Reconcile(context.Background(), "a", "b")

	require.ErrorIs(t, err, errTable)
	assert.Empty(t, out)
	// Tables reconciled before the failure stay reconciled; there is no
	// rollback. The catalog lists tables in sorted order, so orders ran first.
	require.Len(t, recon.calls, 2)
	assert.Equal(t, "orders", recon.calls[0].table)
	assert.Equal(t, "sessions", recon.calls[1].table)
}

func TestReconcile_TablesOutsideEitherIslandSkipped(t *testing.T) {
	elsewhere := store.TableInfo{
		Name:          "elsewhere",
		Attributes:    []string{"key", "value"},
		CopiesByClass: map[store.CopyClass][]string{store.MemoryCopies: {"c", "d"}},
	}
	s := testStore(t, spanning("orders"), elsewhere)
	remote := &fakeRemote{nodes: map[string][]string{"b": {"b"}}}
	recon := &fakeReconciler{}

	c := New(zaptest.NewLogger(t), s, &fakeMembership{}, remote, recon, Defaults{})
	_, err := c.Reconcile(context.Background(), "a", "b")

	require.NoError(t, err)
	require.Len(t, recon.calls, 1)
	assert.Equal(t, "orders", recon.calls[0].table)
}
