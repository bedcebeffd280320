package entitymarshal

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/spf13/cast"
)

// coerceValue validates, casts, and converts a raw value into the
// declared type. On failure the returned error carries the access path;
// in graceful mode the best-effort value is returned instead.
//
// The order of operations matters: nil passes unconditionally, scalar
// casts run before collection/object conversion, and the final kind check
// sees the possibly cast/converted value.
func coerceValue(r *Registry, value any, spec PropertySpec, path, class string, graceful bool) (any, error) {
	if isNilValue(value) {
		return nil, nil
	}
	if spec.Kind == KindNull {
		// Declared null erases whatever was supplied.
		return nil, nil
	}

	v := value

	if spec.Element == nil && spec.Kind.scalar() && isScalarValue(v) {
		// Cast failures fall through to final validation so graceful
		// mode can keep the original value.
		if cv, ok := safeCast(v, spec.Kind); ok {
			v = cv
		}
	}

	if spec.Element != nil {
		coerced, handled, err := coerceElements(r, v, *spec.Element, path, class, graceful)
		if err != nil {
			return nil, err
		}
		if handled {
			v = coerced
		}
	}

	if spec.Element == nil && (spec.Kind == KindObject || spec.Kind == KindEntity) {
		converted, err := coerceObject(r, v, spec, path, class)
		if err != nil {
			return nil, err
		}
		v = converted
	}

	if validateKind(v, spec) {
		return v, nil
	}
	if graceful {
		return v, nil
	}
	return nil, newPropertyError(ErrValidation, class, path,
		fmt.Sprintf("value of type %T is not assignable to %s", v, spec.DeclaredForm()))
}

// coerceElements coerces every element of a collection value against the
// element spec. Element access paths are annotated with the element key.
// A single failing element fails the whole collection.
func coerceElements(r *Registry, value any, elem PropertySpec, path, class string, graceful bool) (any, bool, error) {
	switch src := value.(type) {
	case []any:
		out := make([]any, len(src))
		for i, ev := range src {
			cv, err := coerceValue(r, ev, elem, fmt.Sprintf("%s[%d]", path, i), class, graceful)
			if err != nil {
				return nil, false, err
			}
			out[i] = cv
		}
		return out, true, nil

	case map[string]any:
		keys := make([]string, 0, len(src))
		for k := range src {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(src))
		for _, k := range keys {
			cv, err := coerceValue(r, src[k], elem, fmt.Sprintf("%s[%s]", path, k), class, graceful)
			if err != nil {
				return nil, false, err
			}
			out[k] = cv
		}
		return out, true, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			cv, err := coerceValue(r, rv.Index(i).Interface(), elem, fmt.Sprintf("%s[%d]", path, i), class, graceful)
			if err != nil {
				return nil, false, err
			}
			out[i] = cv
		}
		return out, true, nil

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false, nil
		}
		keys := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			keys = append(keys, iter.Key().String())
		}
		sort.Strings(keys)
		out := make(map[string]any, rv.Len())
		for _, k := range keys {
			mv := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))
			cv, err := coerceValue(r, mv.Interface(), elem, fmt.Sprintf("%s[%s]", path, k), class, graceful)
			if err != nil {
				return nil, false, err
			}
			out[k] = cv
		}
		return out, true, nil
	}

	// Not collection-shaped; final validation decides.
	return nil, false, nil
}

// coerceObject converts map-shaped values into typed entities or generic
// key/value structures. Values that already are entities, and values that
// are not map-shaped at all, pass through to final validation.
func coerceObject(r *Registry, value any, spec PropertySpec, path, class string) (any, error) {
	if _, ok := value.(*Entity); ok {
		return value, nil
	}

	m, err := normalizeSource(value)
	if err != nil {
		return value, nil
	}

	if spec.Kind == KindEntity {
		ent, err := r.New(spec.Class)
		if err != nil {
			return nil, newPropertyError(ErrValidation, class, path, err.Error())
		}
		if err := ent.Import(m); err != nil {
			return nil, newPropertyError(ErrValidation, class, path, err.Error())
		}
		return ent, nil
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out, nil
}

// safeCast attempts a conservative scalar cast. The cast result is
// accepted only when it round-trips without loss; values that would be
// silently truncated are rejected.
func safeCast(v any, k Kind) (any, bool) {
	switch k {
	case KindBool:
		b, err := cast.ToBoolE(v)
		return b, err == nil

	case KindInt:
		n, err := cast.ToInt64E(v)
		if err != nil {
			return nil, false
		}
		switch f := v.(type) {
		case float64:
			if float64(n) != f {
				return nil, false
			}
		case float32:
			if float32(n) != f {
				return nil, false
			}
		}
		return n, true

	case KindFloat:
		f, err := cast.ToFloat64E(v)
		return f, err == nil

	case KindString:
		s, err := cast.ToStringE(v)
		return s, err == nil
	}

	return nil, false
}

// validateKind reports whether a coerced value satisfies the declared
// kind, or is an instance of the declared class for entity specs.
func validateKind(v any, spec PropertySpec) bool {
	if v == nil {
		return true
	}

	switch spec.Kind {
	case KindMixed:
		return true

	case KindNull:
		return false

	case KindBool:
		_, ok := v.(bool)
		return ok

	case KindInt:
		switch reflect.ValueOf(v).Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return true
		}
		return false

	case KindFloat:
		switch v.(type) {
		case float32, float64:
			return true
		}
		return false

	case KindString:
		_, ok := v.(string)
		return ok

	case KindArray:
		switch reflect.ValueOf(v).Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return true
		}
		return false

	case KindObject:
		if _, ok := v.(*Entity); ok {
			return true
		}
		switch reflect.ValueOf(v).Kind() {
		case reflect.Map, reflect.Struct:
			return true
		}
		return false

	case KindEntity:
		ent, ok := v.(*Entity)
		return ok && ent.Class() == spec.Class
	}

	return false
}

// isScalarValue reports whether a value has a castable scalar kind.
func isScalarValue(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// isNilValue reports whether a value is nil, including typed nils.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
