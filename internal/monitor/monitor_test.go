package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"stitch/internal/cluster"
	"stitch/internal/store"
)

type blockingCoordinator struct {
	mu      sync.Mutex
	active  int
	maxSeen int
	calls   []string
	hold    time.Duration
	err     error
}

func (c *blockingCoordinator) Reconcile(_ context.Context, _, peer string) (store.Outcome, error) {
	c.mu.Lock()
	c.active++
	if c.active > c.maxSeen {
		c.maxSeen = c.active
	}
	c.calls = append(c.calls, peer)
	c.mu.Unlock()

	time.Sleep(c.hold)

	c.mu.Lock()
	c.active--
	c.mu.Unlock()

	if c.err != nil {
		return "", c.err
	}
	return store.OutcomeMerged, nil
}

type recordingRegistry struct {
	mu      sync.Mutex
	dropped []string
}

func (r *recordingRegistry) MarkDisconnected(peer string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped = append(r.dropped, peer)
}

func runMonitor(t *testing.T, coord Coordinator, events chan cluster.Event) func() {
	t.Helper()
	m := New(zaptest.NewLogger(t), "a", NewKeyedLock(), coord, nil, events)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	return func() {
		cancel()
		<-done
	}
}

func TestMonitor_ReconcilesOnInconsistentEvent(t *testing.T) {
	coord := &blockingCoordinator{}
	events := make(chan cluster.Event, 1)
	stop := runMonitor(t, coord, events)
	defer stop()

	events <- cluster.Event{Kind: cluster.EventInconsistent, Node: "b", Ctx: "running_partitioned_network"}

	deadline := time.Now().Add(time.Second)
	for {
		coord.mu.Lock()
		n := len(coord.calls)
		coord.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("coordinator never invoked")
		}
		time.Sleep(5 * time.Millisecond)
	}

	coord.mu.Lock()
	defer coord.mu.Unlock()
	if coord.calls[0] != "b" {
		t.Errorf("Expected reconciliation with b, got %v", coord.calls)
	}
}

func TestMonitor_OtherEventsIgnored(t *testing.T) {
	coord := &blockingCoordinator{}
	events := make(chan cluster.Event, 2)
	stop := runMonitor(t, coord, events)
	defer stop()

	events <- cluster.Event{Kind: cluster.EventPeerDown, Node: "b"}
	events <- cluster.Event{Kind: cluster.EventPeerUp, Node: "b"}

	time.Sleep(50 * time.Millisecond)

	coord.mu.Lock()
	defer coord.mu.Unlock()
	if len(coord.calls) != 0 {
		t.Errorf("Expected no reconciliation, got %v", coord.calls)
	}
}

func TestMonitor_EvictsDeadPeerFromRegistry(t *testing.T) {
	coord := &blockingCoordinator{}
	reg := &recordingRegistry{}
	events := make(chan cluster.Event, 1)

	m := New(zaptest.NewLogger(t), "a", NewKeyedLock(), coord, reg, events)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	events <- cluster.Event{Kind: cluster.EventPeerDown, Node: "b"}

	deadline := time.Now().Add(time.Second)
	for {
		reg.mu.Lock()
		n := len(reg.dropped)
		reg.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("dead peer never evicted")
		}
		time.Sleep(5 * time.Millisecond)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.dropped[0] != "b" {
		t.Errorf("Expected b evicted, got %v", reg.dropped)
	}
}

func TestMonitor_SurvivesReconcileFailure(t *testing.T) {
	coord := &blockingCoordinator{err: errors.New("boom")}
	events := make(chan cluster.Event, 2)
	stop := runMonitor(t, coord, events)
	defer stop()

	events <- cluster.Event{Kind: cluster.EventInconsistent, Node: "b"}
	events <- cluster.Event{Kind: cluster.EventInconsistent, Node: "c"}

	deadline := time.Now().Add(time.Second)
	for {
		coord.mu.Lock()
		n := len(coord.calls)
		coord.mu.Unlock()
		if n == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("monitor stopped handling events after a failure")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestKeyedLock_SerializesAttempts(t *testing.T) {
	coord := &blockingCoordinator{hold: 30 * time.Millisecond}
	lock := NewKeyedLock()

	// Two monitors sharing one lock, as two concurrent recovery attempts
	// anywhere in the cluster would.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = lock.Do(context.Background(), LockResource, "a", func(ctx context.Context) error {
				_, err := coord.Reconcile(ctx, "a", "b")
				return err
			})
		}()
	}
	wg.Wait()

	if coord.maxSeen != 1 {
		t.Fatalf("Reconciliation attempts interleaved: %d concurrent", coord.maxSeen)
	}
	if len(coord.calls) != 2 {
		t.Fatalf("Expected both attempts to run, got %d", len(coord.calls))
	}
}

func TestKeyedLock_IndependentResourcesDoNotBlock(t *testing.T) {
	lock := NewKeyedLock()
	entered := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = lock.Do(context.Background(), "r1", "a", func(ctx context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	done := make(chan struct{})
	go func() {
		_ = lock.Do(context.Background(), "r2", "a", func(ctx context.Context) error {
			return nil
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("independent resource blocked")
	}
	close(release)
}
