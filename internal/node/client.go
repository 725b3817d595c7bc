package node

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	stitchpb "stitch/internal/gen/api"
	"stitch/internal/metrics"
	"stitch/internal/store"
)

const dialTimeout = 2 * time.Second

// AddrResolver maps a node id to its listen address.
type AddrResolver func(node string) (string, bool)

// ClientManager owns the outbound gRPC connections to peer nodes. It
// dials lazily, retries the initial dial with exponential backoff, and
// caches one connection per address. Calls themselves are synchronous
// and are not retried; a failed call is the caller's problem.
type ClientManager struct {
	log     *zap.Logger
	self    string
	resolve AddrResolver

	mu    sync.Mutex
	conns map[string]*grpc.ClientConn
}

func NewClientManager(log *zap.Logger, self string, resolve AddrResolver) *ClientManager {
	return &ClientManager{
		log:     log,
		self:    self,
		resolve: resolve,
		conns:   make(map[string]*grpc.ClientConn),
	}
}

func (cm *ClientManager) conn(ctx context.Context, addr string) (*grpc.ClientConn, error) {
	cm.mu.Lock()
	if c, ok := cm.conns[addr]; ok {
		cm.mu.Unlock()
		return c, nil
	}
	cm.mu.Unlock()

	var conn *grpc.ClientConn
	dial := func() error {
		dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		c, err := grpc.DialContext(dialCtx, addr,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithBlock())
		if err != nil {
			cm.log.Debug("dial failed, retrying", zap.String("addr", addr), zap.Error(err))
			return err
		}
		conn = c
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(dial, policy); err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	if existing, ok := cm.conns[addr]; ok {
		_ = conn.Close()
		return existing, nil
	}
	cm.conns[addr] = conn
	return conn, nil
}

func (cm *ClientManager) dataClient(ctx context.Context, node string) (stitchpb.StitchDataClient, error) {
	addr, ok := cm.resolve(node)
	if !ok {
		return nil, fmt.Errorf("no address for node %s", node)
	}
	conn, err := cm.conn(ctx, addr)
	if err != nil {
		return nil, err
	}
	return stitchpb.NewStitchDataClient(conn), nil
}

func (cm *ClientManager) clusterClient(ctx context.Context, node string) (stitchpb.ClusterClient, error) {
	addr, ok := cm.resolve(node)
	if !ok {
		return nil, fmt.Errorf("no address for node %s", node)
	}
	conn, err := cm.conn(ctx, addr)
	if err != nil {
		return nil, err
	}
	return stitchpb.NewClusterClient(conn), nil
}

func observe(method string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.RemoteCalls.WithLabelValues(method, result).Inc()
}

// GetObject reads every local copy of key held by the peer.
func (cm *ClientManager) GetObject(ctx context.Context, peer, table string, key []byte) ([]store.Record, error) {
	client, err := cm.dataClient(ctx, peer)
	if err != nil {
		observe("get_object", err)
		return nil, err
	}
	resp, err := client.GetObject(ctx, &stitchpb.GetObjectRequest{Table: table, Key: key})
	observe("get_object", err)
	if err != nil {
		return nil, fmt.Errorf("get object from %s: %w", peer, err)
	}
	return protoToRecords(resp.GetRecords()), nil
}

// Write stores records on the peer without touching their versions.
func (cm *ClientManager) Write(ctx context.Context, peer, table string, records []store.Record) error {
	client, err := cm.dataClient(ctx, peer)
	if err != nil {
		observe("write", err)
		return err
	}
	_, err = client.Write(ctx, &stitchpb.WriteRequest{Table: table, Records: recordsToProto(records)})
	observe("write", err)
	if err != nil {
		return fmt.Errorf("write to %s: %w", peer, err)
	}
	return nil
}

// ApplyActions forwards a batch of resolution actions for the peer to
// apply to its local copies.
func (cm *ClientManager) ApplyActions(ctx context.Context, peer, table string, actions []store.Action) error {
	client, err := cm.dataClient(ctx, peer)
	if err != nil {
		observe("apply_actions", err)
		return err
	}
	_, err = client.ApplyActions(ctx, &stitchpb.ApplyActionsRequest{Table: table, Actions: actionsToProto(actions)})
	observe("apply_actions", err)
	if err != nil {
		return fmt.Errorf("apply actions on %s: %w", peer, err)
	}
	return nil
}

// RunningNodes asks the peer which nodes it currently considers running,
// itself included.
func (cm *ClientManager) RunningNodes(ctx context.Context, peer string) ([]string, error) {
	client, err := cm.clusterClient(ctx, peer)
	if err != nil {
		observe("running_nodes", err)
		return nil, err
	}
	resp, err := client.RunningNodes(ctx, &stitchpb.RunningNodesRequest{})
	observe("running_nodes", err)
	if err != nil {
		return nil, fmt.Errorf("running nodes from %s: %w", peer, err)
	}
	return resp.GetNodeIds(), nil
}

// PingAddr probes an address directly, bypassing node id resolution.
// The tracker uses it for liveness checks.
func (cm *ClientManager) PingAddr(ctx context.Context, addr string) error {
	conn, err := cm.conn(ctx, addr)
	if err != nil {
		observe("ping", err)
		return err
	}
	_, err = stitchpb.NewClusterClient(conn).Ping(ctx, &stitchpb.PingRequest{FromId: cm.self})
	observe("ping", err)
	return err
}

// Close tears down every cached connection.
func (cm *ClientManager) Close() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for addr, conn := range cm.conns {
		if err := conn.Close(); err != nil {
			cm.log.Debug("closing connection", zap.String("addr", addr), zap.Error(err))
		}
		delete(cm.conns, addr)
	}
}
