// Package cluster tracks peer liveness for a single node and publishes
// system events derived from liveness transitions; in particular, a peer
// coming back from the dead means the cluster has been running as two
// mutually-unaware islands and their tables may have diverged.
package cluster
