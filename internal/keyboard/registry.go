package keyboard

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps layout names to layouts.
type Registry struct {
	layouts map[string]*Layout
}

// NewRegistry returns a registry holding the built-in layouts.
func NewRegistry() *Registry {
	r := &Registry{layouts: map[string]*Layout{}}
	q := Qwerty()
	r.layouts[q.Name()] = q
	return r
}

// Register adds a layout. Names must be unique.
func (r *Registry) Register(l *Layout) error {
	if l == nil {
		return fmt.Errorf("%w: nil layout", ErrInvalidLayout)
	}
	if _, ok := r.layouts[l.Name()]; ok {
		return fmt.Errorf("%w: layout %q is already registered", ErrInvalidLayout, l.Name())
	}
	r.layouts[l.Name()] = l
	return nil
}

// Lookup finds a layout by case-insensitive name.
func (r *Registry) Lookup(name string) (*Layout, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if l, ok := r.layouts[key]; ok {
		return l, nil
	}
	return nil, &UnsupportedLayoutError{Name: name, Available: r.Names()}
}

// Names returns the registered layout names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.layouts))
	for name := range r.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
