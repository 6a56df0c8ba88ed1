package feature

import (
	"errors"
	"fmt"
	"sync"
)

// Sentinel errors for registry operations.
var (
	// ErrUnresolved is returned when a configured feature name has no
	// registered descriptor. It indicates broken configuration, not a
	// runtime condition.
	ErrUnresolved = errors.New("feature not registered")

	// ErrDuplicate is returned when registering a name twice.
	ErrDuplicate = errors.New("feature already registered")

	// ErrEmptyName is returned when registering a descriptor with no name.
	ErrEmptyName = errors.New("feature name cannot be empty")
)

// UnresolvedError reports the specific feature name that failed to resolve.
type UnresolvedError struct {
	Name string
}

// Error implements the error interface.
func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("feature %q not registered", e.Name)
}

// Is allows errors.Is to match UnresolvedError with ErrUnresolved.
func (e *UnresolvedError) Is(target error) bool {
	return target == ErrUnresolved
}

// Registry maps feature names to descriptors.
// It is safe for concurrent use; registration normally happens once at
// startup and lookups dominate afterward.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Descriptor
	order  []string
}

// NewRegistry creates an empty feature registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Descriptor),
	}
}

// Register adds a descriptor under its name.
func (r *Registry) Register(d Descriptor) error {
	if d.Name() == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[d.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, d.Name())
	}
	r.byName[d.Name()] = d
	r.order = append(r.order, d.Name())
	return nil
}

// Resolve returns the descriptor registered under name.
func (r *Registry) Resolve(name string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byName[name]
	if !ok {
		return nil, &UnresolvedError{Name: name}
	}
	return d, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[name]
	return ok
}

// Names returns all registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Count returns the number of registered features.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
