package strategy

import (
	"context"
	"errors"
	"fmt"

	"stitch/internal/store"
)

// Strategy tags the batching policy governing how record pairs are fed to
// a resolver. Policies may switch to any tag a reconciler has a batcher
// registered for.
type Strategy string

const (
	// AllKeys feeds every key present in the local copy, one pair at a
	// time, exactly once.
	AllKeys Strategy = "all_keys"
	// Unchanged is the sentinel a step result uses to keep the current
	// strategy.
	Unchanged Strategy = "same"
)

var (
	// ErrBadResult indicates a resolver returned an unrecognized result
	// shape. This is a contract violation and aborts the table.
	ErrBadResult = errors.New("resolution policy returned unrecognized result")
	// ErrUnknownMethod indicates a method reference named no registered
	// resolver.
	ErrUnknownMethod = errors.New("unknown resolution method")
)

// Ref identifies a resolution method: a policy name, an optional direct
// implementation reference (looked up in the registry when nil), and
// static extra arguments passed to every policy call.
type Ref struct {
	Name string
	Impl Resolver
	Args []string
}

// Resolve returns the method's resolver, consulting the registry when the
// reference carries no direct implementation.
func (r Ref) Resolve() (Resolver, error) {
	if r.Impl != nil {
		return r.Impl, nil
	}
	return Lookup(r.Name)
}

// Pair is one unit of work for a step call: the local record set for a
// key and the peer's record set for the same key. An empty Remote means
// the key is absent on the peer, which is a valid outcome.
type Pair struct {
	Local  []store.Record
	Remote []store.Record
}

// Init carries the arguments of a policy's init call.
type Init struct {
	Table      string
	Attributes []string
	Args       []string
}

// Resolver is the contract every resolution policy implements: one init
// call establishing private state for a table, then step calls processing
// batches of record pairs.
type Resolver interface {
	Init(ctx context.Context, in Init) (Result, error)
	Step(ctx context.Context, pairs []Pair, state any, args []string) (Result, error)
}

// ResultKind discriminates the result shapes a policy may return. The
// zero value is deliberately invalid: anything but Stop or Continue is a
// contract violation.
type ResultKind int

const (
	// KindStop terminates the table's reconciliation immediately and
	// successfully.
	KindStop ResultKind = iota + 1
	// KindContinue accepts new state and proceeds, optionally applying
	// actions and switching strategy.
	KindContinue
)

// Result is the uniform return value of init and step calls.
type Result struct {
	Kind    ResultKind
	Actions []store.Action
	// Strategy switches the active strategy for subsequent batches.
	// Empty or Unchanged keeps the current one.
	Strategy Strategy
	State    any
}

// Stop builds the terminal result: no further batches are sent.
func Stop() Result {
	return Result{Kind: KindStop}
}

// Continue accepts new state with no side effects.
func Continue(state any) Result {
	return Result{Kind: KindContinue, State: state}
}

// ContinueActions accepts new state and applies actions to both copies.
func ContinueActions(state any, actions ...store.Action) Result {
	return Result{Kind: KindContinue, State: state, Actions: actions}
}

// Switch accepts new state, applies actions, and switches the active
// strategy for subsequent batches.
func Switch(state any, s Strategy, actions ...store.Action) Result {
	return Result{Kind: KindContinue, State: state, Actions: actions, Strategy: s}
}

// Valid reports whether the result has one of the recognized shapes.
func (r Result) Valid() bool {
	switch r.Kind {
	case KindStop:
		return true
	case KindContinue:
		return true
	default:
		return false
	}
}

// Session is the per-table mutable context threaded through one table's
// reconciliation. It is owned exclusively by the fold driving that table
// and discarded when reconciliation completes or aborts.
type Session struct {
	Method     Ref
	State      any
	Table      string
	Attributes []string
	Peer       string
	Strategy   Strategy
	// Progress is an optional marker batchers may maintain, e.g. the last
	// key handed to the policy.
	Progress []byte
}

// Absorb folds a continue result into the session: new state always, a
// strategy switch when the result names one. Returns an error for an
// unrecognized result shape.
func (s *Session) Absorb(r Result) error {
	if !r.Valid() {
		return fmt.Errorf("%w (kind %d)", ErrBadResult, r.Kind)
	}
	if r.Kind == KindStop {
		return nil
	}
	s.State = r.State
	if r.Strategy != "" && r.Strategy != Unchanged {
		s.Strategy = r.Strategy
	}
	return nil
}
