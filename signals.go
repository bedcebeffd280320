package entitymarshal

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for marshaling events.
var (
	SignalSchemaResolved  = capitan.NewSignal("entitymarshal.schema.resolved", "Class schema resolved and cached")
	SignalEntityCreated   = capitan.NewSignal("entitymarshal.entity.created", "Entity instantiated")
	SignalImportComplete  = capitan.NewSignal("entitymarshal.import.complete", "Bulk import finished")
	SignalSnapshotEncoded = capitan.NewSignal("entitymarshal.snapshot.encoded", "Entity snapshot written")
	SignalSnapshotDecoded = capitan.NewSignal("entitymarshal.snapshot.decoded", "Entity snapshot restored")
)

// Keys for typed event data.
var (
	KeyClass         = capitan.NewStringKey("class")
	KeyContentType   = capitan.NewStringKey("content_type")
	KeyPropertyCount = capitan.NewIntKey("property_count")
	KeySize          = capitan.NewIntKey("size")
	KeyDuration      = capitan.NewDurationKey("duration")
	KeyError         = capitan.NewErrorKey("error")
)

// emitSchemaResolved emits an event when a class schema is resolved.
func emitSchemaResolved(ctx context.Context, class string, properties int, duration time.Duration) {
	capitan.Emit(ctx, SignalSchemaResolved,
		KeyClass.Field(class),
		KeyPropertyCount.Field(properties),
		KeyDuration.Field(duration),
	)
}

// emitEntityCreated emits an event when an entity is constructed.
func emitEntityCreated(ctx context.Context, class string, properties int) {
	capitan.Emit(ctx, SignalEntityCreated,
		KeyClass.Field(class),
		KeyPropertyCount.Field(properties),
	)
}

// emitImportComplete emits an event when a bulk import finishes.
func emitImportComplete(ctx context.Context, class string, properties int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyClass.Field(class),
		KeyPropertyCount.Field(properties),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalImportComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalImportComplete, fields...)
	}
}

// emitSnapshotEncoded emits an event when a snapshot is written.
func emitSnapshotEncoded(ctx context.Context, contentType, class string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyClass.Field(class),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSnapshotEncoded, fields...)
	} else {
		capitan.Emit(ctx, SignalSnapshotEncoded, fields...)
	}
}

// emitSnapshotDecoded emits an event when a snapshot is restored.
func emitSnapshotDecoded(ctx context.Context, contentType, class string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyClass.Field(class),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSnapshotDecoded, fields...)
	} else {
		capitan.Emit(ctx, SignalSnapshotDecoded, fields...)
	}
}
