package entitymarshal

import "sort"

// Wildcard is the property name that declares the default type for
// undeclared properties on dynamic-permitting entities.
const Wildcard = "*"

// Definition declares an entity class: its property type expressions,
// default values, and behavior flags. Definitions are registered with a
// Registry and resolved into a Schema on first construction.
type Definition struct {
	// Name is the class name. Type expressions reference it directly.
	Name string

	// Properties maps property names to declared type expressions.
	// The Wildcard entry, if present, types undeclared properties on
	// dynamic-permitting entities.
	Properties map[string]string

	// Defaults maps property names to initial values. Defaults flow
	// through the same coercion path as Set.
	Defaults map[string]any

	// AllowDynamic permits properties outside the declared schema.
	AllowDynamic bool

	// Graceful suppresses unknown-property and validation errors,
	// keeping best-effort values instead.
	Graceful bool
}

// PropertySpec is a resolved type expression. Immutable once resolved.
type PropertySpec struct {
	// Declared is the original expression, alias-preserving for display.
	Declared string

	// Kind is the validation classification of the base type.
	Kind Kind

	// Class names the entity class for KindEntity specs.
	Class string

	// Element is the resolved element type for collection specs.
	Element *PropertySpec
}

// DeclaredForm returns the display form of the spec, reconstructing the
// element[] notation when an element type is present. array<Foo> and
// Foo[] both render as Foo[].
func (s PropertySpec) DeclaredForm() string {
	if s.Element != nil {
		return s.Element.Declared + "[]"
	}
	return s.Declared
}

// Schema is the resolved type metadata for an entity class: one
// PropertySpec per declared property plus the wildcard spec. Schemas are
// computed once per class and shared across instances; they are never
// mutated after resolution.
type Schema struct {
	class        string
	props        map[string]PropertySpec
	defaults     map[string]any
	wildcard     PropertySpec
	allowDynamic bool
	graceful     bool
}

// Class returns the entity class name the schema describes.
func (s *Schema) Class() string {
	return s.class
}

// Spec returns the resolved spec for a declared property.
func (s *Schema) Spec(name string) (PropertySpec, bool) {
	spec, ok := s.props[name]
	return spec, ok
}

// Properties returns the declared property names in sorted order.
func (s *Schema) Properties() []string {
	names := make([]string, 0, len(s.props))
	for name := range s.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
