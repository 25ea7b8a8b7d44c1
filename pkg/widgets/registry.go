package widgets

import (
	"sort"
	"strings"
	"sync"
)

// Built-in widget kinds understood by the panel runtime.
const (
	KindText         Kind = "text"
	KindVariableList Kind = "variable-list"
	KindList         Kind = "list"
	KindBadge        Kind = "badge"
)

// Kind identifies how the panel displays a collected field.
type Kind string

// Registry maps widget kinds to the front-end constructors the panel runtime
// instantiates for them. Later registrations for the same kind replace earlier
// ones so applications can swap a built-in widget for their own.
type Registry struct {
	mu           sync.RWMutex
	constructors map[Kind]string
}

// NewRegistry constructs a registry with the built-in widget kinds
// registered.
func NewRegistry() *Registry {
	reg := &Registry{constructors: make(map[Kind]string)}
	reg.registerBuiltins()
	return reg
}

// Register associates a widget kind with the JavaScript constructor name used
// by the panel runtime. Blank kinds or constructors are ignored.
func (r *Registry) Register(kind Kind, constructor string) {
	if r == nil {
		return
	}
	trimmedKind := Kind(strings.TrimSpace(string(kind)))
	trimmed := strings.TrimSpace(constructor)
	if trimmedKind == "" || trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.constructors == nil {
		r.constructors = make(map[Kind]string)
	}
	r.constructors[trimmedKind] = trimmed
}

// Resolve returns the constructor registered for kind.
func (r *Registry) Resolve(kind Kind) (string, bool) {
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	constructor, ok := r.constructors[kind]
	return constructor, ok
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []Kind {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]Kind, 0, len(r.constructors))
	for kind := range r.constructors {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Constructors returns a copy of the kind to constructor mapping, keyed by the
// string form of each kind so it serialises directly into panel bootstrap
// data.
func (r *Registry) Constructors() map[string]string {
	if r == nil {
		return map[string]string{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.constructors))
	for kind, constructor := range r.constructors {
		out[string(kind)] = constructor
	}
	return out
}

func (r *Registry) registerBuiltins() {
	r.Register(KindText, "DebugBar.Widgets.TextWidget")
	r.Register(KindVariableList, "DebugBar.Widgets.VariableListWidget")
	r.Register(KindList, "DebugBar.Widgets.ListWidget")
	r.Register(KindBadge, "DebugBar.Widgets.BadgeWidget")
}
