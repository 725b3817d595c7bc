package strategy

import (
	"fmt"
	"sync"
)

var (
	regMu    sync.RWMutex
	registry = make(map[string]Resolver)
)

// Register makes a resolver available under a policy name. External
// policies register at init time; registering a duplicate name panics,
// matching the usual driver-registry convention.
func Register(name string, r Resolver) {
	regMu.Lock()
	defer regMu.Unlock()

	if _, dup := registry[name]; dup {
		panic("strategy: Register called twice for " + name)
	}
	registry[name] = r
}

// Lookup returns the resolver registered under name.
func Lookup(name string) (Resolver, error) {
	regMu.RLock()
	defer regMu.RUnlock()

	r, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
	}
	return r, nil
}

func init() {
	Register(NoActionName, NoAction{})
	Register(LastVersionName, LastVersion{})
}
