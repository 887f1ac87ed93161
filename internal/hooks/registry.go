// Package hooks provides an ordered registry of named actions and filters.
//
// Handlers are registered while the process starts up. Once the registry is
// frozen it is read only and safe for concurrent use.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// DefaultPriority is used by Add* calls without an explicit priority.
const DefaultPriority = 10

var (
	ErrFrozen      = errors.New("hook registry is frozen")
	ErrNilHandler  = errors.New("hook handler must not be nil")
	ErrEmptyHookID = errors.New("hook name must not be empty")
)

// Action runs for its side effects.
type Action func(ctx context.Context) error

// Filter transforms a value passed through the hook chain.
type Filter func(ctx context.Context, value any) (any, error)

type entry[T any] struct {
	priority int
	handler  T
}

type Registry struct {
	mu      sync.RWMutex
	frozen  bool
	order   []string
	actions map[string][]entry[Action]
	filters map[string][]entry[Filter]
}

func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string][]entry[Action]),
		filters: make(map[string][]entry[Filter]),
	}
}

// AddAction registers fn under name with the default priority.
func (r *Registry) AddAction(name string, fn Action) error {
	return r.AddActionWithPriority(name, DefaultPriority, fn)
}

// AddActionWithPriority registers fn under name. Lower priorities run
// first; equal priorities run in registration order.
func (r *Registry) AddActionWithPriority(name string, priority int, fn Action) error {
	if fn == nil {
		return ErrNilHandler
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkAdd(name); err != nil {
		return err
	}

	r.actions[name] = insert(r.actions[name], entry[Action]{priority: priority, handler: fn})

	return nil
}

// AddFilter registers fn under name with the default priority.
func (r *Registry) AddFilter(name string, fn Filter) error {
	return r.AddFilterWithPriority(name, DefaultPriority, fn)
}

func (r *Registry) AddFilterWithPriority(name string, priority int, fn Filter) error {
	if fn == nil {
		return ErrNilHandler
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkAdd(name); err != nil {
		return err
	}

	r.filters[name] = insert(r.filters[name], entry[Filter]{priority: priority, handler: fn})

	return nil
}

// Freeze makes the registry read only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frozen = true
}

// Names returns the hook names in the order they were first registered.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}

// Do runs the actions registered under name and stops at the first error.
func (r *Registry) Do(ctx context.Context, name string) error {
	r.mu.RLock()
	actions := slices.Clone(r.actions[name])
	r.mu.RUnlock()

	for i, a := range actions {
		if err := a.handler(ctx); err != nil {
			return fmt.Errorf("running action %d of %q: %w", i, name, err)
		}
	}

	return nil
}

// Apply threads value through the filters registered under name.
func (r *Registry) Apply(ctx context.Context, name string, value any) (any, error) {
	r.mu.RLock()
	filters := slices.Clone(r.filters[name])
	r.mu.RUnlock()

	for i, f := range filters {
		var err error
		value, err = f.handler(ctx, value)
		if err != nil {
			return nil, fmt.Errorf("applying filter %d of %q: %w", i, name, err)
		}
	}

	return value, nil
}

func (r *Registry) checkAdd(name string) error {
	if r.frozen {
		return ErrFrozen
	}
	if name == "" {
		return ErrEmptyHookID
	}

	if !slices.Contains(r.order, name) {
		r.order = append(r.order, name)
	}

	return nil
}

// insert keeps entries sorted by priority, after existing entries of the
// same priority.
func insert[T any](entries []entry[T], e entry[T]) []entry[T] {
	i := len(entries)
	for i > 0 && entries[i-1].priority > e.priority {
		i--
	}

	return slices.Insert(entries, i, e)
}
