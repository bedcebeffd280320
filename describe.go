package entitymarshal

import (
	"reflect"
	"strings"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register definition tags with sentinel
	sentinel.Tag("marshal")
	sentinel.Tag("default")
}

// DescribeOption adjusts a struct-derived definition.
type DescribeOption func(*Definition)

// WithName overrides the class name derived from the struct type.
func WithName(name string) DescribeOption {
	return func(d *Definition) {
		d.Name = name
	}
}

// WithDynamic marks the definition as dynamic-permitting.
func WithDynamic() DescribeOption {
	return func(d *Definition) {
		d.AllowDynamic = true
	}
}

// WithGraceful enables graceful mode on the definition.
func WithGraceful() DescribeOption {
	return func(d *Definition) {
		d.Graceful = true
	}
}

// WithWildcard sets the wildcard type expression for dynamic properties.
func WithWildcard(expr string) DescribeOption {
	return func(d *Definition) {
		d.Properties[Wildcard] = expr
	}
}

// Describe derives a Definition from a struct type's exported fields.
//
// A `marshal:"<expression>"` tag declares the field's type expression
// explicitly; `marshal:"-"` excludes the field. Untagged fields derive an
// expression from the Go type. A `default:"<value>"` tag supplies the
// property's default, coerced at construction like any other value.
func Describe[T any](opts ...DescribeOption) (Definition, error) {
	spec := sentinel.Scan[T]()

	def := Definition{
		Name:       spec.TypeName,
		Properties: make(map[string]string, len(spec.Fields)),
		Defaults:   make(map[string]any),
	}

	for _, field := range spec.Fields {
		expr, tagged := field.Tags["marshal"]
		if expr == "-" {
			continue
		}
		if !tagged || expr == "" {
			expr = exprForType(field.ReflectType)
			if expr == "" {
				return Definition{}, newTypeError(ErrInvalidType, spec.TypeName, field.Name, field.Type)
			}
		}
		def.Properties[field.Name] = expr

		if dv, ok := field.Tags["default"]; ok {
			def.Defaults[field.Name] = dv
		}
	}

	for _, opt := range opts {
		opt(&def)
	}

	return def, nil
}

// exprForType derives a type expression from a Go type. Returns "" for
// types with no sensible expression (channels, funcs).
func exprForType(rt reflect.Type) string {
	switch rt.Kind() {
	case reflect.Bool:
		return "bool"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.String:
		return "string"
	case reflect.Interface:
		return "mixed"
	case reflect.Pointer:
		return exprForType(rt.Elem())
	case reflect.Map:
		return "array"
	case reflect.Slice, reflect.Array:
		elem := exprForType(rt.Elem())
		// Nested collections have no expression form; fall back to a
		// plain untyped array.
		if elem == "" || elem == "array" || strings.HasSuffix(elem, "[]") {
			return "array"
		}
		return elem + "[]"
	case reflect.Struct:
		return rt.Name()
	}
	return ""
}
