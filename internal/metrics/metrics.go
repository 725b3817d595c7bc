// Package metrics exposes prometheus counters for partition-recovery
// reconciliation. Registration is global via promauto, so counters are
// live as soon as the package is linked in.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReconcileAttempts counts partition-recovery reconciliation attempts,
	// labelled by outcome (merged, already_connected, error).
	ReconcileAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stitch",
		Name:      "reconcile_attempts_total",
		Help:      "Partition-recovery reconciliation attempts by outcome.",
	}, []string{"outcome"})

	// TablesStitched counts tables whose reconciliation completed.
	TablesStitched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stitch",
		Name:      "tables_stitched_total",
		Help:      "Tables whose reconciliation ran to completion.",
	})

	// KeysStitched counts key pairs handed to resolution policies.
	KeysStitched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stitch",
		Name:      "keys_stitched_total",
		Help:      "Key pairs fed to resolution policies.",
	})

	// ActionsApplied counts merge actions applied to both copies, by kind.
	ActionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stitch",
		Name:      "actions_applied_total",
		Help:      "Merge actions applied locally and forwarded to the peer, by kind.",
	}, []string{"kind"})

	// RemoteCalls counts remote data-access calls, by method and result.
	RemoteCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stitch",
		Name:      "remote_calls_total",
		Help:      "Remote data-access protocol calls by method and result.",
	}, []string{"method", "result"})
)
