// Package clock implements vector clocks used to version table records.
// Resolution policies compare record versions to decide which diverged
// copy of a record wins during stitching.
package clock
