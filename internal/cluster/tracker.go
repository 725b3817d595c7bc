package cluster

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents the liveness state of a peer.
type Status int

const (
	Alive Status = iota
	Suspect
	Dead
)

// String returns the string representation of Status.
func (s Status) String() string {
	switch s {
	case Alive:
		return "ALIVE"
	case Suspect:
		return "SUSPECT"
	case Dead:
		return "DEAD"
	default:
		return "UNKNOWN"
	}
}

// EventKind discriminates system events.
type EventKind int

const (
	// EventInconsistent signals that a previously dead peer is reachable
	// again: the store has been running as partitioned islands and its
	// tables may have diverged.
	EventInconsistent EventKind = iota + 1
	// EventPeerDown signals that a peer was declared dead.
	EventPeerDown
	// EventPeerUp signals that a suspect peer recovered before being
	// declared dead.
	EventPeerUp
)

// Event is a system event published by the tracker.
type Event struct {
	Kind EventKind
	Node string
	// Ctx describes the condition that raised the event, e.g.
	// "running_partitioned_network".
	Ctx string
}

// Peer is one tracked cluster member.
type Peer struct {
	ID       string
	Addr     string
	Status   Status
	LastSeen time.Time
}

// ProbeFunc checks whether the peer at addr responds.
type ProbeFunc func(ctx context.Context, addr string) error

// Tracker probes configured peers and derives liveness transitions.
type Tracker struct {
	log            *zap.Logger
	self           string
	probeInterval  time.Duration
	suspectTimeout time.Duration

	mu    sync.RWMutex
	peers map[string]*Peer

	events chan Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTracker creates a tracker for the given node.
func NewTracker(log *zap.Logger, self string, probeInterval, suspectTimeout time.Duration) *Tracker {
	if probeInterval <= 0 {
		probeInterval = 1 * time.Second
	}
	if suspectTimeout <= 0 {
		suspectTimeout = 3 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Tracker{
		log:            log.Named("cluster"),
		self:           self,
		probeInterval:  probeInterval,
		suspectTimeout: suspectTimeout,
		peers:          make(map[string]*Peer),
		events:         make(chan Event, 16),
		ctx:            ctx,
		cancel:         cancel,
	}
}

// AddPeer registers a peer to track. Peers start out Alive; a node that
// never responds degrades through Suspect to Dead on its own.
func (t *Tracker) AddPeer(id, addr string) {
	if id == t.self {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.peers[id]; !exists {
		t.peers[id] = &Peer{ID: id, Addr: addr, Status: Alive, LastSeen: time.Now()}
	}
}

// Events returns the system-event stream. Events are dropped if the
// subscriber falls behind.
func (t *Tracker) Events() <-chan Event {
	return t.events
}

// Start begins the probe loop.
func (t *Tracker) Start(probe ProbeFunc) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ticker := time.NewTicker(t.probeInterval)
		defer ticker.Stop()

		for {
			select {
			case <-t.ctx.Done():
				return
			case <-ticker.C:
				t.probeAll(probe)
			}
		}
	}()
}

// Stop stops the probe loop and waits for it to exit.
func (t *Tracker) Stop() {
	t.cancel()
	t.wg.Wait()
}

func (t *Tracker) probeAll(probe ProbeFunc) {
	t.mu.RLock()
	targets := make([]Peer, 0, len(t.peers))
	for _, p := range t.peers {
		targets = append(targets, *p)
	}
	t.mu.RUnlock()

	for _, target := range targets {
		ctx, cancel := context.WithTimeout(t.ctx, t.probeInterval)
		err := probe(ctx, target.Addr)
		cancel()

		if err == nil {
			t.MarkAlive(target.ID)
		} else {
			t.MarkUnreachable(target.ID)
		}
	}
}

// MarkAlive records a successful contact with a peer. A Dead peer coming
// back raises an EventInconsistent: the cluster has been running as two
// partitioned islands.
func (t *Tracker) MarkAlive(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, exists := t.peers[id]
	if !exists {
		return
	}

	prev := p.Status
	p.Status = Alive
	p.LastSeen = time.Now()

	switch prev {
	case Dead:
		t.log.Warn("dead peer is back, tables may have diverged", zap.String("peer", id))
		t.publish(Event{Kind: EventInconsistent, Node: id, Ctx: "running_partitioned_network"})
	case Suspect:
		t.log.Info("peer recovered", zap.String("peer", id))
		t.publish(Event{Kind: EventPeerUp, Node: id})
	}
}

// MarkUnreachable records a failed contact with a peer. Repeated failures
// degrade the peer from Alive through Suspect to Dead. Callers outside the
// probe loop (a transport noticing a broken connection) may report too.
func (t *Tracker) MarkUnreachable(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, exists := t.peers[id]
	if !exists {
		return
	}

	switch p.Status {
	case Alive:
		p.Status = Suspect
		p.LastSeen = time.Now()
		t.log.Info("peer suspect", zap.String("peer", id))
	case Suspect:
		if time.Since(p.LastSeen) > t.suspectTimeout {
			p.Status = Dead
			t.log.Warn("peer dead", zap.String("peer", id))
			t.publish(Event{Kind: EventPeerDown, Node: id})
		}
	}
}

// publish sends the event without blocking. Must be called with the lock held.
func (t *Tracker) publish(ev Event) {
	select {
	case t.events <- ev:
	default:
		t.log.Warn("event subscriber too slow, dropping event",
			zap.Int("kind", int(ev.Kind)), zap.String("node", ev.Node))
	}
}

// RunningPeers returns the peers currently considered running and
// connected, excluding the local node itself.
func (t *Tracker) RunningPeers() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	running := make([]string, 0, len(t.peers))
	for id, p := range t.peers {
		if p.Status == Alive {
			running = append(running, id)
		}
	}
	return running
}

// Addr returns the address a peer was registered with.
func (t *Tracker) Addr(id string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p, ok := t.peers[id]
	if !ok {
		return "", false
	}
	return p.Addr, true
}

// Snapshot returns a copy of every tracked peer, for diagnostics.
func (t *Tracker) Snapshot() []Peer {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Peer, 0, len(t.peers))
	for _, p := range t.peers {
		out = append(out, *p)
	}
	return out
}
