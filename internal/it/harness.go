// Package it holds in-process integration tests: real nodes on loopback
// ports exercising the full stitch pipeline over gRPC.
package it

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"stitch/internal/config"
	"stitch/internal/monitor"
	"stitch/internal/node"
	"stitch/internal/store"
	"stitch/internal/strategy"
)

// Cluster is a test cluster of in-process nodes. All nodes share the
// stitch lock, as cluster-wide lock backends do in production.
type Cluster struct {
	lock  monitor.Locker
	nodes []*node.Node
}

// NewCluster creates an empty test cluster harness.
func NewCluster() *Cluster {
	return &Cluster{lock: monitor.NewKeyedLock()}
}

// StartNode starts one node on a loopback port, peered with every node
// started before it, and teaches the earlier nodes its address. Probes
// are effectively disabled; tests drive liveness transitions by hand.
func (c *Cluster) StartNode(id string, method strategy.Ref) (*node.Node, error) {
	peers := make([]config.Peer, 0, len(c.nodes))
	for _, existing := range c.nodes {
		peers = append(peers, config.Peer{ID: existing.ID(), Addr: existing.Addr()})
	}

	st := store.New(zap.NewNop(), store.NewMemoryEngine())
	n := node.New(zap.NewNop(), config.Config{
		NodeID:         id,
		ListenAddr:     "127.0.0.1:0",
		Peers:          peers,
		DefaultMethod:  method,
		ProbeInterval:  time.Hour,
		SuspectTimeout: time.Nanosecond,
	}, st, c.lock)
	if err := n.Start(); err != nil {
		return nil, fmt.Errorf("start node %s: %w", id, err)
	}

	for _, existing := range c.nodes {
		existing.Tracker().AddPeer(id, n.Addr())
	}
	c.nodes = append(c.nodes, n)
	return n, nil
}

// Stop tears the whole cluster down.
func (c *Cluster) Stop() {
	for _, n := range c.nodes {
		n.Stop()
		_ = n.Store().Close()
	}
}

// CreateTable registers the same table descriptor on every node.
func (c *Cluster) CreateTable(info store.TableInfo) error {
	for _, n := range c.nodes {
		if err := n.Store().CreateTable(info); err != nil {
			return err
		}
	}
	return nil
}

// Seed writes one single-field record per key on the given node.
func Seed(n *node.Node, table string, keys ...string) error {
	for _, k := range keys {
		err := n.Store().DirtyWrite(table, store.Record{
			Key:    []byte(k),
			Fields: [][]byte{[]byte("v-" + k)},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// DeclareDead walks a peer through Suspect to Dead so the next successful
// contact raises the inconsistency event, exactly as a healed netsplit
// does.
func DeclareDead(n *node.Node, peer string) {
	n.Tracker().MarkUnreachable(peer)
	time.Sleep(time.Millisecond) // exceed the suspect timeout
	n.Tracker().MarkUnreachable(peer)
}

// WaitMerged blocks until the node's store considers peer merged, or the
// timeout expires.
func WaitMerged(n *node.Node, peer string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		for _, p := range n.Store().RunningPeers() {
			if p == peer {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("node %s never merged with %s", n.ID(), peer)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
