// Package backend parses JSON text into the generic value trees the validator
// works on. Numbers are always decoded as json.Number so that integer and
// decimal values keep their exact textual form.
package backend

import (
	"slices"
	"sync"
)

const (
	// StdName selects the encoding/json decoder.
	StdName = "json"
	// TextName selects the go-json-experiment jsontext token decoder.
	TextName = "jsonv2"
)

// Backend turns JSON text into a value tree of map[string]any, []any, string,
// bool, nil and json.Number.
type Backend interface {
	Name() string
	Parse(data []byte) (any, error)
}

// Registry holds the available backends and the one currently in use.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
	active   string
}

// NewRegistry creates a Registry with the built-in backends, using StdName.
func NewRegistry() *Registry {
	r := &Registry{backends: make(map[string]Backend)}
	r.Register(Std{})
	r.Register(Text{})
	r.active = StdName
	return r
}

// Register adds or replaces a backend.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[b.Name()] = b
}

// Use makes the named backend active.
func (r *Registry) Use(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.backends[name]; !ok {
		return &NonexistentBackendError{Name: name, Available: r.namesLocked()}
	}
	r.active = name
	return nil
}

// Active returns the name of the active backend.
func (r *Registry) Active() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Names returns the registered backend names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.backends))
	for n := range r.backends {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Parse parses data with the active backend.
func (r *Registry) Parse(data []byte) (any, error) {
	r.mu.RLock()
	b, ok := r.backends[r.active]
	name := r.active
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownBackendError{Name: name}
	}

	v, err := b.Parse(data)
	if err != nil {
		return nil, &ParseError{Backend: name, Wrapped: err}
	}
	return v, nil
}
