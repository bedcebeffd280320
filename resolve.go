package entitymarshal

import (
	"regexp"
	"strings"
)

// genericPattern matches the array<Element> declaration form.
var genericPattern = regexp.MustCompile(`(?i)^array<(.+)>$`)

// classLookup reports whether a class name is defined. Resolution runs
// under the registry's lock, so the lookup must not re-enter it.
type classLookup func(name string) bool

// resolveType parses a declared type expression into a PropertySpec.
//
// An expression ending in [] or matching array<...> yields a collection
// spec with the inner token resolved as the element type. Anything else
// resolves as a bare base type: a scalar/native alias or a defined class
// name. Union expressions are rejected; mixed is the explicit sentinel
// for multi-typed properties.
func resolveType(expr, class, property string, defined classLookup) (PropertySpec, error) {
	raw := strings.TrimSpace(expr)
	if raw == "" {
		return PropertySpec{}, newTypeError(ErrInvalidType, class, property, expr)
	}
	if strings.Contains(raw, "|") {
		return PropertySpec{}, newTypeError(ErrInvalidType, class, property, raw)
	}

	var elemExpr string
	if strings.HasSuffix(raw, "[]") {
		elemExpr = strings.TrimSpace(raw[:len(raw)-2])
	} else if m := genericPattern.FindStringSubmatch(raw); m != nil {
		elemExpr = strings.TrimSpace(m[1])
	}

	if elemExpr != "" {
		elem, err := resolveBase(elemExpr, class, property, defined)
		if err != nil {
			return PropertySpec{}, err
		}
		return PropertySpec{Declared: raw, Kind: KindArray, Element: &elem}, nil
	}

	return resolveBase(raw, class, property, defined)
}

// resolveBase resolves a bare type token: a native alias or a class name.
func resolveBase(token, class, property string, defined classLookup) (PropertySpec, error) {
	if strings.Contains(token, "|") {
		return PropertySpec{}, newTypeError(ErrInvalidType, class, property, token)
	}
	if k, ok := kindForAlias(strings.ToLower(token)); ok {
		return PropertySpec{Declared: token, Kind: k}, nil
	}
	if defined != nil && defined(token) {
		return PropertySpec{Declared: token, Kind: KindEntity, Class: token}, nil
	}
	return PropertySpec{}, newTypeError(ErrInvalidType, class, property, token)
}

// storedSpec rebuilds a PropertySpec from snapshot type metadata without
// consulting the registry. Stored tokens were validated when the schema
// was first resolved, so class references are trusted here.
func storedSpec(declared, element string) PropertySpec {
	if element != "" {
		elem := storedBase(element)
		return PropertySpec{Declared: declared, Kind: KindArray, Element: &elem}
	}
	return storedBase(declared)
}

// storedBase classifies a stored bare token.
func storedBase(token string) PropertySpec {
	if k, ok := kindForAlias(strings.ToLower(token)); ok {
		return PropertySpec{Declared: token, Kind: k}
	}
	return PropertySpec{Declared: token, Kind: KindEntity, Class: token}
}
