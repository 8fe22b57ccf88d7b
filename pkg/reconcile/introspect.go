package reconcile

import (
	"github.com/aretw0/introspection"
)

// ReconcilerState exposes internal state for observability.
type ReconcilerState struct {
	StoreType string `json:"store_type"`
	Pushes    int    `json:"pushes"`
	Failures  int    `json:"failures"`
}

// State implements introspection.Introspectable.
func (r *Reconciler) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	storeType := "unknown"
	if r.Store != nil {
		storeType = "store"
		if comp, ok := r.Store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
	}

	return ReconcilerState{
		StoreType: storeType,
		Pushes:    r.pushes,
		Failures:  r.failures,
	}
}

// ComponentType implements introspection.Component.
func (r *Reconciler) ComponentType() string {
	return "reconciler"
}

var _ introspection.Introspectable = (*Reconciler)(nil)
var _ introspection.Component = (*Reconciler)(nil)
