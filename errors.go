package entitymarshal

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrInvalidType indicates a declared type expression is unparseable
	// or references an unknown type.
	ErrInvalidType = errors.New("invalid type")

	// ErrUnknownClass indicates an entity class has not been defined.
	ErrUnknownClass = errors.New("unknown class")

	// ErrClassDefined indicates an entity class is already defined.
	ErrClassDefined = errors.New("class already defined")

	// ErrUnknownProperty indicates a set or import targeted a property
	// absent from a non-dynamic entity's schema.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrValidation indicates a value failed type validation after
	// casting attempts.
	ErrValidation = errors.New("validation failed")

	// ErrImportSource indicates a bulk import was given a source that is
	// neither map-shaped nor struct-shaped.
	ErrImportSource = errors.New("invalid import source")

	// ErrSnapshot indicates a snapshot could not be encoded, decoded, or
	// failed its integrity check.
	ErrSnapshot = errors.New("snapshot failed")
)

// TypeError represents a type-resolution error.
// It wraps a sentinel error with the class, property, and expression that
// failed to resolve. Raised at schema-resolution time, on first
// construction of an entity of the offending class.
type TypeError struct {
	Err      error  // Underlying sentinel error (ErrInvalidType)
	Class    string // Class whose schema was being resolved
	Property string // Property that declared the expression
	Expr     string // Offending type expression
}

func (e *TypeError) Error() string {
	if e.Class != "" && e.Property != "" {
		return fmt.Sprintf("%s %q (class %s, property %s)", e.Err.Error(), e.Expr, e.Class, e.Property)
	}
	if e.Property != "" {
		return fmt.Sprintf("%s %q (property %s)", e.Err.Error(), e.Expr, e.Property)
	}
	return fmt.Sprintf("%s %q", e.Err.Error(), e.Expr)
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

// PropertyError represents a per-operation property error.
// Path carries the access path of the failing value, including the
// element key for collection elements (e.g., "scores[1]").
type PropertyError struct {
	Err    error  // Underlying sentinel error (ErrValidation, ErrUnknownProperty)
	Class  string // Entity class the operation targeted
	Path   string // Property access path
	Detail string // Human-readable cause, if any
}

func (e *PropertyError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s at %s: %s", e.Err.Error(), e.Path, e.Detail)
	}
	return fmt.Sprintf("%s at %s", e.Err.Error(), e.Path)
}

func (e *PropertyError) Unwrap() error {
	return e.Err
}

// ImportError represents a rejected bulk-import source.
type ImportError struct {
	Err    error  // Underlying sentinel error (ErrImportSource)
	Detail string // Description of the rejected source
	Cause  error  // Original error from source normalization, if any
}

func (e *ImportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Err.Error(), e.Detail, e.Cause)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Detail)
	}
	return e.Err.Error()
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// SnapshotError represents a snapshot encode/decode failure.
type SnapshotError struct {
	Err   error // Underlying sentinel error (ErrSnapshot)
	Cause error // Original error from the codec or integrity check
}

func (e *SnapshotError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}

// newTypeError creates a TypeError for unresolvable type expressions.
func newTypeError(sentinel error, class, property, expr string) error {
	return &TypeError{
		Err:      sentinel,
		Class:    class,
		Property: property,
		Expr:     expr,
	}
}

// newPropertyError creates a PropertyError for per-operation failures.
func newPropertyError(sentinel error, class, path, detail string) error {
	return &PropertyError{
		Err:    sentinel,
		Class:  class,
		Path:   path,
		Detail: detail,
	}
}

// newImportError creates an ImportError for rejected import sources.
func newImportError(detail string, cause error) error {
	return &ImportError{
		Err:    ErrImportSource,
		Detail: detail,
		Cause:  cause,
	}
}

// newSnapshotError creates a SnapshotError for encode/decode failures.
func newSnapshotError(cause error) error {
	return &SnapshotError{
		Err:   ErrSnapshot,
		Cause: cause,
	}
}
