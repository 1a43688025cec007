// Package phase removes per-antenna phase offsets from CSI tensors.
// Calibration strategies are registered by name so new methods can be
// added without touching callers.
package phase

import (
	"fmt"
	"sort"
	"sync"

	"github.com/wisense/csiprep/csi"
)

// Calibrator removes unknown phase offsets from a tensor.
type Calibrator interface {
	Calibrate(t *csi.Tensor) (*csi.Tensor, error)
}

// Factory builds a calibrator. autoSelect requests the strategy's own
// reference-antenna selection heuristic instead of a fixed reference.
type Factory func(autoSelect bool) Calibrator

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		"conjugate": func(autoSelect bool) Calibrator {
			ref := 0
			if autoSelect {
				ref = AutoSelect
			}
			return &Conjugate{RefLink: ref}
		},
	}
)

// Register adds a calibration strategy under the given method name.
func Register(method string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[method] = factory
}

// For returns the calibrator registered under method.
func For(method string, autoSelect bool) (Calibrator, error) {
	registryMu.RLock()
	factory, ok := registry[method]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown phase calibration method %q (have %v)", method, Methods())
	}
	return factory(autoSelect), nil
}

// Methods lists the registered method names, sorted.
func Methods() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	methods := make([]string, 0, len(registry))
	for name := range registry {
		methods = append(methods, name)
	}
	sort.Strings(methods)
	return methods
}
