// Package testing provides test fixtures for entitymarshal.
package testing

import (
	"github.com/codeblanche/entitymarshal"
)

// ObjectDefinition returns the "ObjectProperty" fixture class: a simple
// two-property entity used as an element type in collection tests.
func ObjectDefinition() entitymarshal.Definition {
	return entitymarshal.Definition{
		Name: "ObjectProperty",
		Properties: map[string]string{
			"name":  "string",
			"value": "mixed",
		},
	}
}

// PropertyDefinition returns the "PropertyEntity" fixture class covering
// every declared-type form: scalars, aliases, untyped and typed
// collections, nested entities, mixed, and the null sentinel.
func PropertyDefinition() entitymarshal.Definition {
	return entitymarshal.Definition{
		Name: "PropertyEntity",
		Properties: map[string]string{
			"testBool":    "boolean",
			"testInt":     "integer",
			"testFloat":   "float",
			"testString":  "string",
			"testMixed":   "mixed",
			"testArray":   "array",
			"testInts":    "integer[]",
			"testStrings": "array<string>",
			"testObject":  "ObjectProperty",
			"testObjects": "ObjectProperty[]",
			"testNull":    "null",
		},
	}
}

// DynamicDefinition returns a dynamic-permitting fixture class with an
// integer wildcard.
func DynamicDefinition() entitymarshal.Definition {
	return entitymarshal.Definition{
		Name: "DynamicEntity",
		Properties: map[string]string{
			"declared": "string",
			"*":        "integer",
		},
		AllowDynamic: true,
	}
}

// GracefulDefinition returns a graceful-mode fixture class.
func GracefulDefinition() entitymarshal.Definition {
	return entitymarshal.Definition{
		Name: "GracefulEntity",
		Properties: map[string]string{
			"testInt":    "integer",
			"testString": "string",
		},
		Graceful: true,
	}
}

// RegisterFixtures defines every fixture class on a registry.
func RegisterFixtures(r *entitymarshal.Registry) error {
	for _, def := range []entitymarshal.Definition{
		ObjectDefinition(),
		PropertyDefinition(),
		DynamicDefinition(),
		GracefulDefinition(),
	} {
		if err := r.Define(def); err != nil {
			return err
		}
	}
	return nil
}
