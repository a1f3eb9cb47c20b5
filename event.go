package hfsm

import "strings"

// reservedPrefix marks event names owned by the engine. Events carrying such
// names cannot be passed to Machine.Trigger.
const reservedPrefix = "."

const (
	// startEventName keys the implicit transition out of the synthesized
	// initial pseudo-state.
	startEventName = ".start"
	// completionEventName keys transitions that fire automatically once a
	// composite state's children have all finished.
	completionEventName = ".completion"
)

// Event is a trigger identity plus an optional application payload. Two
// events name the same trigger when their names are equal; payloads are
// inspected by guards only.
type Event struct {
	name string
	data any
}

// NewEvent returns an event for the given trigger name, optionally carrying
// a payload. Names starting with "." are reserved for internal dispatch.
func NewEvent(name string, maybeData ...any) Event {
	var data any
	if len(maybeData) > 0 {
		data = maybeData[0]
	}
	return Event{name: name, data: data}
}

func (e Event) Name() string { return e.name }

func (e Event) Data() any { return e.data }

// WithData returns a copy of the event carrying the given payload.
func (e Event) WithData(data any) Event {
	e.data = data
	return e
}

func (e Event) isInternal() bool {
	return strings.HasPrefix(e.name, reservedPrefix)
}

func (e Event) isStart() bool { return e.name == startEventName }

func newStartEvent(data any) Event {
	return Event{name: startEventName, data: data}
}

func newCompletionEvent(data any) Event {
	return Event{name: completionEventName, data: data}
}
