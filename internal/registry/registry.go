// Package registry implements the adapter registry: enumerates
// adapters available on a network and resolves keys to instances.
package registry

import (
	"github.com/pkg/errors"

	"github.com/dexpricer/core/internal/adapter"
	"github.com/dexpricer/core/internal/routeopt"
	"github.com/dexpricer/core/internal/telemetry"
)

// Registry maps a venue key to its constructed adapter instance. One
// Registry exists per process per network; adapter instances are
// constructed once at load and are safe to invoke concurrently from
// multiple requests thereafter.
type Registry struct {
	byKey    map[string]adapter.Adapter
	keys     []string
	pipeline routeopt.Pipeline
}

// New builds a Registry from a fixed set of adapters and an optional
// route-optimizer pipeline (nil/empty is identity).
func New(adapters []adapter.Adapter, pipeline routeopt.Pipeline) *Registry {
	r := &Registry{
		byKey:    make(map[string]adapter.Adapter, len(adapters)),
		keys:     make([]string, 0, len(adapters)),
		pipeline: pipeline,
	}

	for _, a := range adapters {
		r.byKey[a.Key()] = a
		r.keys = append(r.keys, a.Key())
	}

	return r
}

// GetAllDexKeys returns every registered venue key, in registration order.
func (r *Registry) GetAllDexKeys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)

	return out
}

// GetDexByKey resolves key to its adapter instance, or
// telemetry.ErrInvalidDexKey wrapped with the offending key.
func (r *Registry) GetDexByKey(key string) (adapter.Adapter, error) {
	a, ok := r.byKey[key]
	if !ok {
		return nil, errors.Wrap(telemetry.ErrInvalidDexKey, key)
	}

	return a, nil
}

// GetDexsSupportingFeeOnTransfer filters keys down to adapters whose
// Capabilities().IsFeeOnTransferSupported is true. Unknown keys are
// silently ignored rather than erroring.
func (r *Registry) GetDexsSupportingFeeOnTransfer(keys []string) []adapter.Adapter {
	out := make([]adapter.Adapter, 0, len(keys))

	for _, k := range keys {
		a, ok := r.byKey[k]
		if !ok {
			continue
		}

		if a.Capabilities().IsFeeOnTransferSupported {
			out = append(out, a)
		}
	}

	return out
}

// OptimizeRate runs the registered route-optimizer pipeline over ur.
func (r *Registry) OptimizeRate(ur routeopt.UnoptimizedRate) routeopt.UnoptimizedRate {
	return r.pipeline.Apply(ur)
}
