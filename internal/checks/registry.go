package checks

import (
	"fmt"
	"sync"
)

var (
	registry []Check
	ids      = make(map[string]struct{})
	mu       sync.RWMutex
)

// Register adds a check. Registration order is execution order; the precheck
// stage depends on it, so checks register from a single init.
func Register(c Check) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := ids[c.ID()]; exists {
		panic(fmt.Sprintf("check %s already registered", c.ID()))
	}
	ids[c.ID()] = struct{}{}
	registry = append(registry, c)
}

// List returns the registered checks in registration order.
func List() []Check {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Check, len(registry))
	copy(out, registry)
	return out
}
