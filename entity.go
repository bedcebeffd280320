package entitymarshal

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Entity is an instance of a defined class. It owns its property value
// store and shares its class's resolved schema; all mutation routes
// through the coercion engine. Entities are not safe for concurrent use.
type Entity struct {
	registry *Registry
	schema   *Schema
	values   map[string]any

	// dynamic holds specs synthesized from the wildcard for properties
	// set on a dynamic-permitting instance outside its declared schema.
	dynamic map[string]PropertySpec
}

// Class returns the entity's class name.
func (e *Entity) Class() string {
	return e.schema.class
}

// Graceful reports whether the entity suppresses validation and
// unknown-property errors.
func (e *Entity) Graceful() bool {
	return e.schema.graceful
}

// AllowsDynamic reports whether the entity accepts undeclared properties.
func (e *Entity) AllowsDynamic() bool {
	return e.schema.allowDynamic
}

// spec returns the resolved spec for a property, declared or dynamic.
func (e *Entity) spec(name string) (PropertySpec, bool) {
	if s, ok := e.schema.props[name]; ok {
		return s, true
	}
	if e.dynamic != nil {
		if s, ok := e.dynamic[name]; ok {
			return s, true
		}
	}
	return PropertySpec{}, false
}

// Set coerces a value into a property's declared type and stores it.
//
// Unknown names synthesize a spec from the wildcard on dynamic-permitting
// entities and fail with ErrUnknownProperty otherwise (silently ignored
// in graceful mode). A failed coercion leaves the prior value in place.
func (e *Entity) Set(name string, value any) error {
	spec, known := e.spec(name)
	if !known {
		switch {
		case e.schema.allowDynamic:
			spec = e.schema.wildcard
		case e.schema.graceful:
			return nil
		default:
			return newPropertyError(ErrUnknownProperty, e.schema.class, name, "")
		}
	}

	coerced, err := coerceValue(e.registry, value, spec, name, e.schema.class, e.schema.graceful)
	if err != nil {
		return err
	}

	if !known {
		if e.dynamic == nil {
			e.dynamic = make(map[string]PropertySpec)
		}
		e.dynamic[name] = spec
	}
	e.values[name] = coerced
	return nil
}

// Get returns a property's current value. Declared-but-unset properties
// read as nil; the second return is false only for unknown names.
func (e *Entity) Get(name string) (any, bool) {
	if _, ok := e.spec(name); !ok {
		return nil, false
	}
	return e.values[name], true
}

// TypeOf returns the declared type string for a property, reconstructing
// the element[] notation when a generic element is present.
func (e *Entity) TypeOf(name string) (string, error) {
	spec, ok := e.spec(name)
	if !ok {
		return "", newPropertyError(ErrUnknownProperty, e.schema.class, name, "")
	}
	return spec.DeclaredForm(), nil
}

// Properties returns the entity's known property names, declared and
// dynamic, in sorted order.
func (e *Entity) Properties() []string {
	names := make([]string, 0, len(e.schema.props)+len(e.dynamic))
	for name := range e.schema.props {
		names = append(names, name)
	}
	for name := range e.dynamic {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Import bulk-applies a key/value source through per-property coercion.
//
// Non-dynamic entities import strictly their declared property set:
// extraneous source keys are ignored and absent declared keys are set to
// nil. Dynamic-permitting entities import every supplied key. Sources may
// be string-keyed maps, structs, entities, or MapExporter implementors;
// anything else fails with ErrImportSource.
func (e *Entity) Import(src any) error {
	start := time.Now()

	m, err := normalizeSource(src)
	if err != nil {
		emitImportComplete(context.Background(), e.schema.class, 0, time.Since(start), err)
		return err
	}

	var names []string
	if e.schema.allowDynamic {
		names = make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)
	} else {
		names = e.schema.Properties()
	}

	for _, name := range names {
		if err := e.Set(name, m[name]); err != nil {
			emitImportComplete(context.Background(), e.schema.class, len(names), time.Since(start), err)
			return err
		}
	}

	emitImportComplete(context.Background(), e.schema.class, len(names), time.Since(start), nil)
	return nil
}

// Export returns a deep copy of the entity's properties as a plain map.
// Nested entities export recursively; declared-but-unset properties
// export as nil.
func (e *Entity) Export() map[string]any {
	out := make(map[string]any, len(e.schema.props)+len(e.dynamic))
	for _, name := range e.Properties() {
		out[name] = exportValue(e.values[name])
	}
	return out
}

// Clone returns a deep copy of the entity. The clone shares the resolved
// schema but owns an independent value store.
func (e *Entity) Clone() *Entity {
	c := &Entity{
		registry: e.registry,
		schema:   e.schema,
		values:   make(map[string]any, len(e.values)),
	}
	if e.dynamic != nil {
		c.dynamic = make(map[string]PropertySpec, len(e.dynamic))
		for name, spec := range e.dynamic {
			c.dynamic[name] = spec
		}
	}
	for name, v := range e.values {
		c.values[name] = cloneValue(v)
	}
	return c
}

// normalizeSource reduces an arbitrary import source to a string-keyed
// map. Struct sources decode through mapstructure; entities export their
// property store.
func normalizeSource(src any) (map[string]any, error) {
	switch s := src.(type) {
	case nil:
		return nil, newImportError("nil source", nil)
	case map[string]any:
		return s, nil
	case *Entity:
		return s.Export(), nil
	}

	if exp, ok := src.(MapExporter); ok {
		return exp.MarshalMap(), nil
	}

	rv := reflect.ValueOf(src)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, newImportError("nil source", nil)
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, newImportError(fmt.Sprintf("map keyed by %s", rv.Type().Key()), nil)
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, nil

	case reflect.Struct:
		out := make(map[string]any)
		if err := mapstructure.Decode(rv.Interface(), &out); err != nil {
			return nil, newImportError(fmt.Sprintf("struct %s", rv.Type()), err)
		}
		return out, nil
	}

	return nil, newImportError(fmt.Sprintf("source of kind %s", rv.Kind()), nil)
}
