package node

import (
	"context"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"stitch/internal/cluster"
	"stitch/internal/config"
	stitchpb "stitch/internal/gen/api"
	"stitch/internal/monitor"
	"stitch/internal/reconciler"
	"stitch/internal/stitch"
	"stitch/internal/store"
	"stitch/internal/store/badgerstore"
)

// OpenStore builds the node's table store: badger-backed when cfg.DataDir
// is set, in-memory otherwise.
func OpenStore(log *zap.Logger, cfg config.Config) (*store.Store, error) {
	if cfg.DataDir == "" {
		return store.New(log, store.NewMemoryEngine()), nil
	}
	engine, err := badgerstore.Open(log, cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return store.New(log, engine), nil
}

// Node wires a store, its gRPC surface, the liveness tracker and the
// partition monitor into one runnable unit.
type Node struct {
	log     *zap.Logger
	cfg     config.Config
	store   *store.Store
	tracker *cluster.Tracker
	clients *ClientManager
	coord   *stitch.Coordinator
	monitor *monitor.Monitor
	server  *grpc.Server

	lis    net.Listener
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New assembles a node around an existing store. The lock guards the
// stitch procedure; nodes sharing a process in tests can share a lock,
// and a nil lock gets a private one.
func New(log *zap.Logger, cfg config.Config, st *store.Store, lock monitor.Locker) *Node {
	cfg.Normalize()
	if lock == nil {
		lock = monitor.NewKeyedLock()
	}
	log = log.Named(cfg.NodeID)

	tracker := cluster.NewTracker(log, cfg.NodeID, cfg.ProbeInterval, cfg.SuspectTimeout)
	for _, p := range cfg.Peers {
		tracker.AddPeer(p.ID, p.Addr)
	}

	clients := NewClientManager(log, cfg.NodeID, tracker.Addr)
	recon := reconciler.New(log, st, clients)
	// Idempotence and island discovery go by the store's merged set, not
	// by raw reachability.
	coord := stitch.New(log, st, st, clients, recon, stitch.Defaults{
		Method:   cfg.DefaultMethod,
		Strategy: cfg.DefaultStrategy,
	})
	mon := monitor.New(log, cfg.NodeID, lock, coord, st, tracker.Events())

	return &Node{
		log:     log,
		cfg:     cfg,
		store:   st,
		tracker: tracker,
		clients: clients,
		coord:   coord,
		monitor: mon,
	}
}

// Start binds the listener, serves the gRPC services and begins probing
// peers. It returns once the node is accepting connections.
func (n *Node) Start() error {
	lis, err := net.Listen("tcp", n.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", n.cfg.ListenAddr, err)
	}
	n.lis = lis

	n.server = grpc.NewServer()
	stitchpb.RegisterStitchDataServer(n.server, NewDataServer(n.log, n.store))
	stitchpb.RegisterClusterServer(n.server, NewClusterServer(n.log, n.cfg.NodeID, n.tracker, n.store))
	reflection.Register(n.server)

	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel

	n.wg.Add(2)
	go func() {
		defer n.wg.Done()
		if err := n.server.Serve(lis); err != nil {
			n.log.Warn("grpc server stopped", zap.Error(err))
		}
	}()
	go func() {
		defer n.wg.Done()
		n.monitor.Run(ctx)
	}()

	n.tracker.Start(n.clients.PingAddr)
	n.log.Info("node started", zap.String("addr", lis.Addr().String()))
	return nil
}

// Stop shuts the node down and waits for its goroutines to exit. The
// store is left open; it belongs to the caller.
func (n *Node) Stop() {
	n.tracker.Stop()
	if n.cancel != nil {
		n.cancel()
	}
	if n.server != nil {
		n.server.GracefulStop()
	}
	n.clients.Close()
	n.wg.Wait()
	n.log.Info("node stopped")
}

// Addr returns the bound listen address, useful when the configured
// address was ":0".
func (n *Node) Addr() string {
	if n.lis == nil {
		return n.cfg.ListenAddr
	}
	return n.lis.Addr().String()
}

// ID returns the node's configured identifier.
func (n *Node) ID() string { return n.cfg.NodeID }

// Store exposes the node's table store.
func (n *Node) Store() *store.Store { return n.store }

// Tracker exposes the liveness tracker.
func (n *Node) Tracker() *cluster.Tracker { return n.tracker }

// Coordinator exposes the stitch coordinator, letting operators trigger
// a reconciliation by hand.
func (n *Node) Coordinator() *stitch.Coordinator { return n.coord }
