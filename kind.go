package entitymarshal

// Kind classifies the validation behavior of a resolved type.
type Kind string

const (
	// KindBool validates boolean values.
	KindBool Kind = "bool"

	// KindInt validates integer values.
	KindInt Kind = "int"

	// KindFloat validates floating-point values.
	KindFloat Kind = "float"

	// KindString validates string values.
	KindString Kind = "string"

	// KindArray validates collection values (slices, arrays, maps).
	KindArray Kind = "array"

	// KindObject validates generic key/value structures and entities.
	KindObject Kind = "object"

	// KindMixed accepts any value.
	KindMixed Kind = "mixed"

	// KindNull erases values: coercion always produces nil.
	KindNull Kind = "null"

	// KindEntity validates instances of a specific entity class.
	KindEntity Kind = "entity"
)

// kindAliases maps declared type tokens to their validation kind.
var kindAliases = map[string]Kind{
	"bool":     KindBool,
	"boolean":  KindBool,
	"int":      KindInt,
	"integer":  KindInt,
	"long":     KindInt,
	"double":   KindFloat,
	"float":    KindFloat,
	"real":     KindFloat,
	"string":   KindString,
	"array":    KindArray,
	"object":   KindObject,
	"mixed":    KindMixed,
	"resource": KindMixed,
	"callable": KindMixed,
	"null":     KindNull,
}

// kindForAlias returns the validation kind for a lowercased type token.
func kindForAlias(token string) (Kind, bool) {
	k, ok := kindAliases[token]
	return k, ok
}

// scalar reports whether the kind admits a safe scalar cast.
func (k Kind) scalar() bool {
	switch k {
	case KindBool, KindInt, KindFloat, KindString:
		return true
	}
	return false
}
