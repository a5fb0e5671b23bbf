package action

import (
	"fmt"
	"sync"
)

// Registry holds the configured action instances. Iteration follows
// registration order, which is config order.
type Registry struct {
	mu    sync.RWMutex
	index map[string]int
	list  []Action
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a. An empty or repeated ID is rejected.
func (r *Registry) Register(a Action) error {
	id := a.ID()
	if id == "" {
		return fmt.Errorf("%w: action has no id", ErrInvalidConfig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.index[id]; dup {
		return fmt.Errorf("%w: action %s registered twice", ErrInvalidConfig, id)
	}
	r.index[id] = len(r.list)
	r.list = append(r.list, a)
	return nil
}

// Get returns the action registered as id, or nil.
func (r *Registry) Get(id string) Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i, ok := r.index[id]; ok {
		return r.list[i]
	}
	return nil
}

func (r *Registry) Has(id string) bool {
	return r.Get(id) != nil
}

// GetAll returns a copy of the registered actions.
func (r *Registry) GetAll() []Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Action(nil), r.list...)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.list)
}
