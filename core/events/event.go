package events

// Event is a typed state change raised by the platform engine, such as a
// round lock or a payments batch. Concrete event structs live alongside in
// this package and render themselves into wire attributes.
type Event interface {
	EventType() string
}

// Emitter receives engine events; indexers and the daemon log sink plug in
// here.
type Emitter interface {
	Emit(Event)
}

// NoopEmitter discards all events. The engine defaults to it so emission is
// strictly optional.
type NoopEmitter struct{}

func (NoopEmitter) Emit(Event) {}
