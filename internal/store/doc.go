// Package store models the replicated table store the stitching core
// works against: table metadata (attributes, replica placement, stored
// properties), dirty record access, and the reconnect-and-merge
// transaction that holds per-table locks while diverged copies are
// reconciled. The record data itself lives behind the Engine seam, with
// an in-memory implementation here and a durable one in badgerstore.
package store
