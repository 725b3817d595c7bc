package strategy

import (
	"context"

	"stitch/internal/clock"
	"stitch/internal/store"
)

// Built-in policy names.
const (
	NoActionName    = "no_action"
	LastVersionName = "last_version"
)

// NoAction is the trivial policy: it stops at init time, so the table's
// copies are left exactly as the partition left them and no keys are
// processed.
type NoAction struct{}

func (NoAction) Init(_ context.Context, _ Init) (Result, error) {
	return Stop(), nil
}

func (NoAction) Step(_ context.Context, _ []Pair, state any, _ []string) (Result, error) {
	return Continue(state), nil
}

// LastVersion resolves each key by vector-clock dominance: the dominant
// record set wins and is written to both copies. A key absent on the peer
// re-propagates the local records. Concurrent versions keep the local
// copy and mirror it, preserving the two-island limitation rather than
// inventing stronger semantics.
type LastVersion struct{}

func (LastVersion) Init(_ context.Context, _ Init) (Result, error) {
	return Continue(nil), nil
}

func (LastVersion) Step(_ context.Context, pairs []Pair, state any, _ []string) (Result, error) {
	var actions []store.Action
	for _, p := range pairs {
		if winner := pickWinner(p); winner != nil {
			actions = append(actions, store.WriteAction(winner...))
		}
	}
	if len(actions) == 0 {
		return Continue(state), nil
	}
	return ContinueActions(state, actions...), nil
}

func pickWinner(p Pair) []store.Record {
	if len(p.Remote) == 0 {
		return p.Local
	}
	switch versionOf(p.Remote).Compare(versionOf(p.Local)) {
	case clock.After:
		return p.Remote
	case clock.Equal:
		// Already converged, nothing to mirror.
		return nil
	default:
		// Local dominates, or the versions are concurrent: local wins.
		return p.Local
	}
}

// versionOf merges the record set's versions into one clock. Set tables
// carry a single record; merging keeps bag-shaped sets comparable.
func versionOf(recs []store.Record) clock.VectorClock {
	vc := clock.New()
	for _, r := range recs {
		vc.Merge(r.Version)
	}
	return vc
}
