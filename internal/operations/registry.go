package operations

import (
	"fmt"
	"sync"
)

// Registry holds the stages of a run in execution order
type Registry struct {
	mu    sync.RWMutex
	steps []Step
	byID  map[string]Step
}

// NewRegistry creates a new Step registry
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]Step),
	}
}

// Register appends a Step. IDs must be unique.
func (r *Registry) Register(step Step) error {
	if step == nil {
		return fmt.Errorf("cannot register nil step")
	}
	id := step.ID()
	if id == "" {
		return fmt.Errorf("step ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; exists {
		return fmt.Errorf("step with ID %s already registered", id)
	}
	r.byID[id] = step
	r.steps = append(r.steps, step)
	return nil
}

// Get retrieves a Step by ID
func (r *Registry) Get(id string) (Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	step, ok := r.byID[id]
	if !ok {
		return nil, &OperationError{Type: ErrorTypeNotFound, Step: id, Message: "step not found"}
	}
	return step, nil
}

// List returns all registered steps in execution order
func (r *Registry) List() []Step {
	r.mu.RLock()
	defer r.mu.RUnlock()

	steps := make([]Step, len(r.steps))
	copy(steps, r.steps)
	return steps
}

// Count returns the number of registered steps
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.steps)
}
