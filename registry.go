package entitymarshal

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Registry holds entity class definitions and their resolved schemas.
// Schemas are resolved lazily on first construction of an entity of a
// class and cached for the registry's lifetime; a cached schema is never
// mutated. Schema computation is deterministic, so the check-then-resolve
// pattern under the write lock memoizes exactly once.
//
// A Registry is an explicitly constructed instance; pass it to whatever
// assembles entities. The package-level Define/New/Reset wrappers operate
// on a shared default registry for convenience.
type Registry struct {
	mu      sync.RWMutex
	defs    map[string]Definition
	schemas map[string]*Schema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:    make(map[string]Definition),
		schemas: make(map[string]*Schema),
	}
}

// Define registers an entity class definition. The definition's type
// expressions are not resolved until the first New for the class, so
// mutually referencing classes may be defined in any order.
func (r *Registry) Define(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("%w: class name required", ErrInvalidType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.defs[def.Name]; ok {
		return fmt.Errorf("%w: %s", ErrClassDefined, def.Name)
	}

	// Copy the mutable maps so later caller mutation cannot leak in.
	stored := def
	stored.Properties = make(map[string]string, len(def.Properties))
	for name, expr := range def.Properties {
		stored.Properties[name] = expr
	}
	if def.Defaults != nil {
		stored.Defaults = make(map[string]any, len(def.Defaults))
		for name, v := range def.Defaults {
			stored.Defaults[name] = v
		}
	}

	r.defs[def.Name] = stored
	return nil
}

// Defined reports whether a class has been registered.
func (r *Registry) Defined(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[name]
	return ok
}

// New constructs an entity of the given class, resolving and caching the
// class schema on first use. Declared defaults are applied through the
// normal coercion path.
func (r *Registry) New(class string) (*Entity, error) {
	s, err := r.schemaFor(class)
	if err != nil {
		return nil, err
	}

	e := &Entity{
		registry: r,
		schema:   s,
		values:   make(map[string]any),
	}

	for _, name := range s.Properties() {
		dv, ok := s.defaults[name]
		if !ok {
			continue
		}
		if err := e.Set(name, dv); err != nil {
			return nil, err
		}
	}

	emitEntityCreated(context.Background(), class, len(s.props))
	return e, nil
}

// schemaFor returns the cached schema for a class, resolving it once.
func (r *Registry) schemaFor(class string) (*Schema, error) {
	// Fast path: read-lock cache check
	r.mu.RLock()
	if s, ok := r.schemas[class]; ok {
		r.mu.RUnlock()
		return s, nil
	}
	r.mu.RUnlock()

	// Slow path: resolve and cache with write-lock
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check pattern
	if s, ok := r.schemas[class]; ok {
		return s, nil
	}

	def, ok := r.defs[class]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, class)
	}

	start := time.Now()
	s, err := resolveSchema(def, func(name string) bool {
		_, defined := r.defs[name]
		return defined
	})
	if err != nil {
		return nil, err
	}

	r.schemas[class] = s
	emitSchemaResolved(context.Background(), class, len(s.props), time.Since(start))
	return s, nil
}

// resolveSchema resolves every declared expression of a definition.
// A single unresolvable expression fails the whole class.
func resolveSchema(def Definition, defined classLookup) (*Schema, error) {
	s := &Schema{
		class:        def.Name,
		props:        make(map[string]PropertySpec, len(def.Properties)),
		defaults:     def.Defaults,
		wildcard:     PropertySpec{Declared: "mixed", Kind: KindMixed},
		allowDynamic: def.AllowDynamic,
		graceful:     def.Graceful,
	}

	for name, expr := range def.Properties {
		spec, err := resolveType(expr, def.Name, name, defined)
		if err != nil {
			return nil, err
		}
		if name == Wildcard {
			s.wildcard = spec
			continue
		}
		s.props[name] = spec
	}

	return s, nil
}

var (
	defaultRegistry   = NewRegistry()
	defaultRegistryMu sync.RWMutex
)

// Default returns the shared default registry.
func Default() *Registry {
	defaultRegistryMu.RLock()
	defer defaultRegistryMu.RUnlock()
	return defaultRegistry
}

// Define registers a class definition with the default registry.
func Define(def Definition) error {
	return Default().Define(def)
}

// New constructs an entity of a class defined in the default registry.
func New(class string) (*Entity, error) {
	return Default().New(class)
}

// Reset replaces the default registry with an empty one.
// This is primarily useful for test isolation.
func Reset() {
	defaultRegistryMu.Lock()
	defer defaultRegistryMu.Unlock()
	defaultRegistry = NewRegistry()
}
