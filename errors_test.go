package entitymarshal

import (
	"errors"
	"testing"
)

func TestTypeError_Is(t *testing.T) {
	err := newTypeError(ErrInvalidType, "PropertyEntity", "testInt", "int|string")

	if !errors.Is(err, ErrInvalidType) {
		t.Error("TypeError should unwrap to ErrInvalidType")
	}
	if errors.Is(err, ErrValidation) {
		t.Error("TypeError should not match ErrValidation")
	}
}

func TestTypeError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "full context",
			err:  newTypeError(ErrInvalidType, "PropertyEntity", "testInt", "int|string"),
			want: `invalid type "int|string" (class PropertyEntity, property testInt)`,
		},
		{
			name: "property only",
			err:  &TypeError{Err: ErrInvalidType, Property: "testInt", Expr: "Unknown"},
			want: `invalid type "Unknown" (property testInt)`,
		},
		{
			name: "expression only",
			err:  &TypeError{Err: ErrInvalidType, Expr: "Unknown"},
			want: `invalid type "Unknown"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPropertyError_Is(t *testing.T) {
	err := newPropertyError(ErrValidation, "PropertyEntity", "testInts[1]", "not an integer")

	if !errors.Is(err, ErrValidation) {
		t.Error("PropertyError should unwrap to ErrValidation")
	}
	if errors.Is(err, ErrUnknownProperty) {
		t.Error("PropertyError should not match ErrUnknownProperty")
	}
}

func TestPropertyError_Message(t *testing.T) {
	err := newPropertyError(ErrValidation, "PropertyEntity", "testInts[1]", "not an integer")

	want := "validation failed at testInts[1]: not an integer"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestPropertyError_NoDetail(t *testing.T) {
	err := &PropertyError{Err: ErrUnknownProperty, Class: "PropertyEntity", Path: "bogus"}

	want := "unknown property at bogus"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestPropertyError_Unwrap(t *testing.T) {
	err := &PropertyError{Err: ErrValidation, Path: "testInt"}

	if unwrapped := err.Unwrap(); unwrapped != ErrValidation {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrValidation)
	}
}

func TestImportError_Is(t *testing.T) {
	err := newImportError("source of kind int", nil)

	if !errors.Is(err, ErrImportSource) {
		t.Error("ImportError should unwrap to ErrImportSource")
	}
}

func TestImportError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "detail only",
			err:  newImportError("source of kind int", nil),
			want: "invalid import source: source of kind int",
		},
		{
			name: "detail and cause",
			err:  newImportError("struct main.T", errors.New("decode failed")),
			want: "invalid import source: struct main.T: decode failed",
		},
		{
			name: "bare",
			err:  &ImportError{Err: ErrImportSource},
			want: "invalid import source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSnapshotError_Is(t *testing.T) {
	err := newSnapshotError(errors.New("digest mismatch"))

	if !errors.Is(err, ErrSnapshot) {
		t.Error("SnapshotError should unwrap to ErrSnapshot")
	}
}

func TestSnapshotError_Message(t *testing.T) {
	err := newSnapshotError(errors.New("digest mismatch"))

	want := "snapshot failed: digest mismatch"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestSnapshotError_NoCause(t *testing.T) {
	err := &SnapshotError{Err: ErrSnapshot}

	want := "snapshot failed"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorsAs_TypeError(t *testing.T) {
	err := newTypeError(ErrInvalidType, "PropertyEntity", "testInt", "int|string")

	var typeErr *TypeError
	if !errors.As(err, &typeErr) {
		t.Fatal("errors.As should extract *TypeError")
	}
	if typeErr.Class != "PropertyEntity" {
		t.Errorf("Class = %q, want %q", typeErr.Class, "PropertyEntity")
	}
	if typeErr.Expr != "int|string" {
		t.Errorf("Expr = %q, want %q", typeErr.Expr, "int|string")
	}
}

func TestErrorsAs_PropertyError(t *testing.T) {
	err := newPropertyError(ErrValidation, "PropertyEntity", "testObjects[1]", "bad element")

	var propErr *PropertyError
	if !errors.As(err, &propErr) {
		t.Fatal("errors.As should extract *PropertyError")
	}
	if propErr.Path != "testObjects[1]" {
		t.Errorf("Path = %q, want %q", propErr.Path, "testObjects[1]")
	}
	if propErr.Class != "PropertyEntity" {
		t.Errorf("Class = %q, want %q", propErr.Class, "PropertyEntity")
	}
}
