package entitymarshal

import (
	"errors"
	"testing"
)

func coerceTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := r.Define(Definition{
		Name: "ObjectProperty",
		Properties: map[string]string{
			"name":  "string",
			"value": "mixed",
		},
	}); err != nil {
		t.Fatalf("Define() error: %v", err)
	}
	return r
}

func TestSafeCast(t *testing.T) {
	tests := []struct {
		name  string
		value any
		kind  Kind
		want  any
		ok    bool
	}{
		{"string to int", "67890", KindInt, int64(67890), true},
		{"fractional string to int", "67.5", KindInt, nil, false},
		{"whole float to int", 67.0, KindInt, int64(67), true},
		{"fractional float to int", 67.5, KindInt, nil, false},
		{"garbage string to int", "abc", KindInt, nil, false},
		{"int to string", 42, KindString, "42", true},
		{"string to float", "3.5", KindFloat, 3.5, true},
		{"int to float", 3, KindFloat, 3.0, true},
		{"string to bool", "true", KindBool, true, true},
		{"int to bool", 1, KindBool, true, true},
		{"garbage string to bool", "67890", KindBool, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := safeCast(tt.value, tt.kind)
			if ok != tt.ok {
				t.Fatalf("safeCast(%v, %s) ok = %v, want %v", tt.value, tt.kind, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("safeCast(%v, %s) = %v (%T), want %v (%T)", tt.value, tt.kind, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestCoerceValue_NilPassesAnyType(t *testing.T) {
	r := coerceTestRegistry(t)

	for _, expr := range []string{"integer", "string", "ObjectProperty", "integer[]", "null"} {
		spec, err := resolveType(expr, "Test", "prop", r.Defined)
		if err != nil {
			t.Fatalf("resolveType(%q) error: %v", expr, err)
		}
		got, err := coerceValue(r, nil, spec, "prop", "Test", false)
		if err != nil {
			t.Errorf("coerceValue(nil, %q) error: %v", expr, err)
		}
		if got != nil {
			t.Errorf("coerceValue(nil, %q) = %v, want nil", expr, got)
		}
	}
}

func TestCoerceValue_NullErasure(t *testing.T) {
	r := coerceTestRegistry(t)
	spec := PropertySpec{Declared: "null", Kind: KindNull}

	got, err := coerceValue(r, "anything", spec, "prop", "Test", false)
	if err != nil {
		t.Fatalf("coerceValue() error: %v", err)
	}
	if got != nil {
		t.Errorf("null-typed property should erase value, got %v", got)
	}
}

func TestCoerceValue_ScalarValidation(t *testing.T) {
	r := coerceTestRegistry(t)
	spec := PropertySpec{Declared: "integer", Kind: KindInt}

	_, err := coerceValue(r, "67.5", spec, "testInt", "Test", false)
	if err == nil {
		t.Fatal("coerceValue(\"67.5\", integer) should fail")
	}
	if !errors.Is(err, ErrValidation) {
		t.Errorf("error should be ErrValidation, got %v", err)
	}

	var propErr *PropertyError
	if !errors.As(err, &propErr) {
		t.Fatalf("error should be *PropertyError, got %T", err)
	}
	if propErr.Path != "testInt" {
		t.Errorf("PropertyError.Path = %q, want %q", propErr.Path, "testInt")
	}
}

func TestCoerceValue_GracefulKeepsOriginal(t *testing.T) {
	r := coerceTestRegistry(t)
	spec := PropertySpec{Declared: "integer", Kind: KindInt}

	got, err := coerceValue(r, "67.5", spec, "testInt", "Test", true)
	if err != nil {
		t.Fatalf("coerceValue() graceful error: %v", err)
	}
	if got != "67.5" {
		t.Errorf("graceful mode should keep original value, got %v", got)
	}
}

func TestCoerceValue_Elements(t *testing.T) {
	r := coerceTestRegistry(t)
	elem := PropertySpec{Declared: "integer", Kind: KindInt}
	spec := PropertySpec{Declared: "integer[]", Kind: KindArray, Element: &elem}

	got, err := coerceValue(r, []any{"1", 2, 3.0}, spec, "testInts", "Test", false)
	if err != nil {
		t.Fatalf("coerceValue() error: %v", err)
	}

	vals, ok := got.([]any)
	if !ok {
		t.Fatalf("coerced value = %T, want []any", got)
	}
	want := []int64{1, 2, 3}
	for i, w := range want {
		if vals[i] != w {
			t.Errorf("element %d = %v (%T), want %v", i, vals[i], vals[i], w)
		}
	}
}

func TestCoerceValue_TypedSliceSource(t *testing.T) {
	r := coerceTestRegistry(t)
	elem := PropertySpec{Declared: "integer", Kind: KindInt}
	spec := PropertySpec{Declared: "integer[]", Kind: KindArray, Element: &elem}

	got, err := coerceValue(r, []string{"1", "2"}, spec, "testInts", "Test", false)
	if err != nil {
		t.Fatalf("coerceValue() error: %v", err)
	}
	vals := got.([]any)
	if vals[0] != int64(1) || vals[1] != int64(2) {
		t.Errorf("coerced elements = %v, want [1 2]", vals)
	}
}

func TestCoerceValue_ElementPathInError(t *testing.T) {
	r := coerceTestRegistry(t)
	elem := PropertySpec{Declared: "integer", Kind: KindInt}
	spec := PropertySpec{Declared: "integer[]", Kind: KindArray, Element: &elem}

	_, err := coerceValue(r, []any{1, "bad", 3}, spec, "testInts", "Test", false)
	if err == nil {
		t.Fatal("coerceValue() should fail on bad element")
	}

	var propErr *PropertyError
	if !errors.As(err, &propErr) {
		t.Fatalf("error should be *PropertyError, got %T", err)
	}
	if propErr.Path != "testInts[1]" {
		t.Errorf("PropertyError.Path = %q, want %q", propErr.Path, "testInts[1]")
	}
}

func TestCoerceValue_MapElements(t *testing.T) {
	r := coerceTestRegistry(t)
	elem := PropertySpec{Declared: "integer", Kind: KindInt}
	spec := PropertySpec{Declared: "integer[]", Kind: KindArray, Element: &elem}

	got, err := coerceValue(r, map[string]any{"a": "1", "b": 2}, spec, "testInts", "Test", false)
	if err != nil {
		t.Fatalf("coerceValue() error: %v", err)
	}
	vals, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("coerced value = %T, want map[string]any", got)
	}
	if vals["a"] != int64(1) || vals["b"] != int64(2) {
		t.Errorf("coerced elements = %v, want map[a:1 b:2]", vals)
	}
}

func TestCoerceValue_EntityFromMap(t *testing.T) {
	r := coerceTestRegistry(t)
	spec := PropertySpec{Declared: "ObjectProperty", Kind: KindEntity, Class: "ObjectProperty"}

	got, err := coerceValue(r, map[string]any{"name": "n", "value": 1}, spec, "testObject", "Test", false)
	if err != nil {
		t.Fatalf("coerceValue() error: %v", err)
	}

	ent, ok := got.(*Entity)
	if !ok {
		t.Fatalf("coerced value = %T, want *Entity", got)
	}
	if ent.Class() != "ObjectProperty" {
		t.Errorf("Class() = %q, want %q", ent.Class(), "ObjectProperty")
	}
	if name, _ := ent.Get("name"); name != "n" {
		t.Errorf("name = %v, want %q", name, "n")
	}
}

func TestCoerceValue_EntityInstancePasses(t *testing.T) {
	r := coerceTestRegistry(t)
	spec := PropertySpec{Declared: "ObjectProperty", Kind: KindEntity, Class: "ObjectProperty"}

	ent, err := r.New("ObjectProperty")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	got, err := coerceValue(r, ent, spec, "testObject", "Test", false)
	if err != nil {
		t.Fatalf("coerceValue() error: %v", err)
	}
	if got != ent {
		t.Error("existing entity instance should pass through unchanged")
	}
}

func TestCoerceValue_GenericObjectFromMap(t *testing.T) {
	r := coerceTestRegistry(t)
	spec := PropertySpec{Declared: "object", Kind: KindObject}

	got, err := coerceValue(r, map[string]any{"k": "v"}, spec, "prop", "Test", false)
	if err != nil {
		t.Fatalf("coerceValue() error: %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("coerced value = %T, want map[string]any", got)
	}
	if m["k"] != "v" {
		t.Errorf("m[k] = %v, want %q", m["k"], "v")
	}
}

func TestCoerceValue_ScalarRejectedForObject(t *testing.T) {
	r := coerceTestRegistry(t)
	spec := PropertySpec{Declared: "ObjectProperty", Kind: KindEntity, Class: "ObjectProperty"}

	_, err := coerceValue(r, "scalar", spec, "testObject", "Test", false)
	if err == nil {
		t.Fatal("coerceValue() should reject scalar for entity type")
	}
	if !errors.Is(err, ErrValidation) {
		t.Errorf("error should be ErrValidation, got %v", err)
	}
}

func TestCoerceValue_MixedAcceptsAnything(t *testing.T) {
	r := coerceTestRegistry(t)
	spec := PropertySpec{Declared: "mixed", Kind: KindMixed}

	for _, v := range []any{1, "s", []any{1}, map[string]any{"k": 1}, true} {
		got, err := coerceValue(r, v, spec, "prop", "Test", false)
		if err != nil {
			t.Errorf("coerceValue(%v, mixed) error: %v", v, err)
		}
		_ = got
	}
}
