// Package entitymarshal provides schema-driven entity marshaling with
// runtime type coercion.
//
// Entity classes are declared at runtime as named definitions mapping
// property names to type expressions. A registry resolves each class's
// schema once, caches it, and routes every property set, bulk import, and
// snapshot restore through a coercion engine that validates, casts, and
// converts raw values into the declared types.
//
// # Type Expressions
//
// A property's type is declared as a string expression:
//
//	bool, boolean              - boolean
//	int, integer, long         - integer
//	float, double, real        - floating point
//	string                     - string
//	array                      - untyped collection
//	object                     - generic key/value structure
//	mixed, resource, callable  - anything goes
//	null                       - always null (explicit erasure)
//	ClassName                  - a defined entity class
//	ClassName[]                - typed collection, per-element coercion
//	array<ClassName>           - same as ClassName[]
//
// Union expressions (int|string) are rejected; declare mixed instead.
//
// # Basic Usage
//
//	reg := entitymarshal.NewRegistry()
//	reg.Define(entitymarshal.Definition{
//	    Name: "User",
//	    Properties: map[string]string{
//	        "name":   "string",
//	        "age":    "integer",
//	        "scores": "integer[]",
//	    },
//	})
//
//	user, _ := reg.New("User")
//	user.Set("age", "42")        // safe cast, stores int64(42)
//	user.Set("age", "42.5")      // ErrValidation, prior value kept
//	user.Import(map[string]any{"name": "Alice", "scores": []any{"1", 2}})
//
// # Coercion Rules
//
// Values pass through the coercion engine in order:
//
//  1. nil always passes regardless of declared type (nullable by default)
//  2. scalar targets attempt a safe cast: the cast is kept only when it
//     round-trips without loss ("67890" -> 67890, "67.5" -> error)
//  3. typed collections coerce every element, annotating error paths with
//     the element key (scores[1])
//  4. map-shaped values coerce into entity instances for class-typed
//     properties, or generic maps for object-typed ones
//  5. a final kind/instance check rejects anything left over
//
// # Graceful Mode
//
// A definition with Graceful set suppresses unknown-property and
// validation errors, keeping the best-effort value instead.
//
// # Dynamic Properties
//
// A definition with AllowDynamic set accepts properties outside its
// declared schema. Undeclared properties are typed by the wildcard
// expression (Properties["*"], default mixed).
//
// # Snapshots
//
// Snapshot captures property values together with the resolved type
// metadata so that Restore rebuilds a working entity without re-running
// class discovery. Payloads are integrity-checked with a BLAKE2b digest
// and encoded through a pluggable Codec.
//
// # Codec Providers
//
// The following codec implementations are available as subpackages:
//
//   - json - JSON encoding (application/json)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//
// # Struct-Derived Definitions
//
// Describe scans a Go struct and produces a Definition from its fields,
// honoring `marshal:"<expression>"` and `default:"<value>"` tags:
//
//	type User struct {
//	    Name   string `marshal:"string"`
//	    Age    int    `marshal:"integer" default:"18"`
//	    Scores []int
//	}
//
//	def, _ := entitymarshal.Describe[User]()
package entitymarshal

// Codec provides content-type aware marshaling for snapshots.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// MapExporter allows import sources to bypass reflection-based
// normalization. When a source implements this interface, Import calls
// MarshalMap instead of decoding the value's fields through reflection.
type MapExporter interface {
	// MarshalMap returns the source's properties as a key/value map.
	MarshalMap() map[string]any
}
