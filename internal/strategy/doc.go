// Package strategy defines the pluggable per-table conflict-resolution
// contract. A resolution method is a named reference to a Resolver; the
// reconciler drives the resolver through an init call and a sequence of
// step calls, each returning a Result that either stops the table's
// reconciliation or continues with new policy state, optional merge
// actions, and an optional strategy switch.
package strategy
