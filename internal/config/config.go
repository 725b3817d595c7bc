// Package config holds node configuration: identity, peers, and the
// process-wide default resolution method and strategy used when a table
// carries no override property.
package config

import (
	"fmt"
	"strings"
	"time"

	"stitch/internal/strategy"
)

// Peer represents a peer node in the cluster.
type Peer struct {
	ID   string
	Addr string
}

// Config holds the node configuration.
type Config struct {
	NodeID     string
	ListenAddr string
	Peers      []Peer

	// DataDir, when set, selects the durable badger engine instead of the
	// in-memory one.
	DataDir string

	// DefaultMethod and DefaultStrategy apply to tables without a stored
	// resolve_method / resolve_strategy property.
	DefaultMethod   strategy.Ref
	DefaultStrategy strategy.Strategy

	ProbeInterval  time.Duration
	SuspectTimeout time.Duration
}

// ParsePeers parses a comma-separated list of peers in the format:
// "id1=addr1,id2=addr2,id3=addr3"
func ParsePeers(peersStr string) ([]Peer, error) {
	if peersStr == "" {
		return []Peer{}, nil
	}

	parts := strings.Split(peersStr, ",")
	peers := make([]Peer, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid peer format: %s (expected id=addr)", part)
		}

		id := strings.TrimSpace(kv[0])
		addr := strings.TrimSpace(kv[1])

		if id == "" || addr == "" {
			return nil, fmt.Errorf("peer ID and address cannot be empty: %s", part)
		}

		peers = append(peers, Peer{ID: id, Addr: addr})
	}

	return peers, nil
}

// Normalize fills fallback defaults: the no_action method and the
// all_keys strategy.
func (c *Config) Normalize() {
	if c.DefaultMethod.Name == "" && c.DefaultMethod.Impl == nil {
		c.DefaultMethod = strategy.Ref{Name: strategy.NoActionName}
	}
	if c.DefaultStrategy == "" {
		c.DefaultStrategy = strategy.AllKeys
	}
	if c.ProbeInterval <= 0 {
		c.ProbeInterval = 1 * time.Second
	}
	if c.SuspectTimeout <= 0 {
		c.SuspectTimeout = 3 * time.Second
	}
}

// AddrOf returns the address a peer was configured with.
func (c *Config) AddrOf(node string) (string, bool) {
	for _, p := range c.Peers {
		if p.ID == node {
			return p.Addr, true
		}
	}
	return "", false
}
