package entitymarshal

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"time"

	"golang.org/x/crypto/blake2b"
)

// snapshotProperty carries one property's declared type metadata.
type snapshotProperty struct {
	Type    string `json:"type" yaml:"type" msgpack:"type"`
	Element string `json:"element,omitempty" yaml:"element,omitempty" msgpack:"element,omitempty"`
}

// snapshotBody is the decoded form of a snapshot: resolved type metadata
// plus property values. Restoring rebuilds the schema from Properties
// before replaying Values, so no class discovery runs on restore.
type snapshotBody struct {
	Class      string                      `json:"class" yaml:"class" msgpack:"class"`
	Dynamic    bool                        `json:"dynamic,omitempty" yaml:"dynamic,omitempty" msgpack:"dynamic,omitempty"`
	Graceful   bool                        `json:"graceful,omitempty" yaml:"graceful,omitempty" msgpack:"graceful,omitempty"`
	Wildcard   string                      `json:"wildcard,omitempty" yaml:"wildcard,omitempty" msgpack:"wildcard,omitempty"`
	Properties map[string]snapshotProperty `json:"properties" yaml:"properties" msgpack:"properties"`
	Values     map[string]any              `json:"values" yaml:"values" msgpack:"values"`
}

// snapshotEnvelope wraps the encoded body with its integrity digest.
type snapshotEnvelope struct {
	Digest []byte `json:"digest" yaml:"digest" msgpack:"digest"`
	Body   []byte `json:"body" yaml:"body" msgpack:"body"`
}

// Snapshot serializes the entity's property values together with its
// resolved type metadata. The payload is digested with BLAKE2b-256 so
// Restore can reject corrupted data.
func (e *Entity) Snapshot(ctx context.Context, c Codec) ([]byte, error) {
	start := time.Now()

	body := snapshotBody{
		Class:      e.schema.class,
		Dynamic:    e.schema.allowDynamic,
		Graceful:   e.schema.graceful,
		Wildcard:   e.schema.wildcard.Declared,
		Properties: make(map[string]snapshotProperty, len(e.schema.props)+len(e.dynamic)),
		Values:     e.Export(),
	}
	for _, name := range e.Properties() {
		spec, _ := e.spec(name)
		p := snapshotProperty{Type: spec.Declared}
		if spec.Element != nil {
			p.Element = spec.Element.Declared
		}
		body.Properties[name] = p
	}

	payload, err := c.Marshal(body)
	if err != nil {
		err = newSnapshotError(err)
		emitSnapshotEncoded(ctx, c.ContentType(), e.schema.class, 0, time.Since(start), err)
		return nil, err
	}

	sum := blake2b.Sum256(payload)
	data, err := c.Marshal(snapshotEnvelope{Digest: sum[:], Body: payload})
	if err != nil {
		err = newSnapshotError(err)
		emitSnapshotEncoded(ctx, c.ContentType(), e.schema.class, 0, time.Since(start), err)
		return nil, err
	}

	emitSnapshotEncoded(ctx, c.ContentType(), e.schema.class, len(data), time.Since(start), nil)
	return data, nil
}

// Restore rebuilds an entity from snapshot data. Type metadata is
// restored first, directly from the stored expressions, then values
// replay through the normal coercion path. Class-typed property values
// resolve nested entities against this registry.
func (r *Registry) Restore(ctx context.Context, c Codec, data []byte) (*Entity, error) {
	start := time.Now()

	var env snapshotEnvelope
	if err := c.Unmarshal(data, &env); err != nil {
		err = newSnapshotError(err)
		emitSnapshotDecoded(ctx, c.ContentType(), "", len(data), time.Since(start), err)
		return nil, err
	}

	sum := blake2b.Sum256(env.Body)
	if !bytes.Equal(sum[:], env.Digest) {
		err := newSnapshotError(errors.New("digest mismatch"))
		emitSnapshotDecoded(ctx, c.ContentType(), "", len(data), time.Since(start), err)
		return nil, err
	}

	var body snapshotBody
	if err := c.Unmarshal(env.Body, &body); err != nil {
		err = newSnapshotError(err)
		emitSnapshotDecoded(ctx, c.ContentType(), "", len(data), time.Since(start), err)
		return nil, err
	}

	s := &Schema{
		class:        body.Class,
		props:        make(map[string]PropertySpec, len(body.Properties)),
		wildcard:     PropertySpec{Declared: "mixed", Kind: KindMixed},
		allowDynamic: body.Dynamic,
		graceful:     body.Graceful,
	}
	if body.Wildcard != "" {
		s.wildcard = storedSpec(body.Wildcard, "")
	}
	for name, p := range body.Properties {
		s.props[name] = storedSpec(p.Type, p.Element)
	}

	e := &Entity{
		registry: r,
		schema:   s,
		values:   make(map[string]any),
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := e.Set(name, body.Values[name]); err != nil {
			emitSnapshotDecoded(ctx, c.ContentType(), body.Class, len(data), time.Since(start), err)
			return nil, err
		}
	}

	emitSnapshotDecoded(ctx, c.ContentType(), body.Class, len(data), time.Since(start), nil)
	return e, nil
}

// Restore rebuilds an entity from snapshot data using the default
// registry.
func Restore(ctx context.Context, c Codec, data []byte) (*Entity, error) {
	return Default().Restore(ctx, c, data)
}
