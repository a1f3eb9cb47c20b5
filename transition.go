package hfsm

import "github.com/statomata/hfsm/kind"

// GuardFunc gates whether a matched transition actually fires. Guards must
// be side-effect free as far as the engine is concerned; they may be
// evaluated on any dispatching goroutine.
type GuardFunc func(event Event) bool

// GuardData adapts a payload-typed predicate into a GuardFunc. The
// transition only matches when the event carries a payload of type T; a
// missing or differently-typed payload never matches. The type check is
// bound here, at registration, rather than per dispatch.
func GuardData[T any](fn func(data T) bool) GuardFunc {
	return func(event Event) bool {
		data, ok := event.Data().(T)
		if !ok {
			return false
		}
		return fn(data)
	}
}

// EndPoint is a transition destination: a state plus the history marker
// describing how to enter it.
type EndPoint struct {
	state   *State
	history kind.History
}

// To targets a state with a plain, history-free entry.
func To(state *State) EndPoint {
	return EndPoint{state: state, history: kind.HistoryNone}
}

// ToShallow targets a state through its shallow-history marker.
func ToShallow(state *State) EndPoint {
	return EndPoint{state: state, history: kind.HistoryShallow}
}

// ToDeep targets a state through its deep-history marker.
func ToDeep(state *State) EndPoint {
	return EndPoint{state: state, history: kind.HistoryDeep}
}

func (p EndPoint) State() *State { return p.state }

func (p EndPoint) History() kind.History { return p.history }

func (p EndPoint) IsFinal() bool { return p.state.IsFinal() }

// Transition binds a trigger name and an optional guard to a destination
// end point. A container scans its transitions in declaration order and
// fires the first one whose trigger and guard both match.
type Transition struct {
	trigger string
	guard   GuardFunc
	target  EndPoint
}

func (t Transition) Trigger() string { return t.trigger }

func (t Transition) Target() EndPoint { return t.target }

// IsToFinal reports whether taking this transition finishes the machine.
func (t Transition) IsToFinal() bool { return t.target.IsFinal() }

func (t Transition) isCompletion() bool { return t.trigger == completionEventName }

func (t Transition) isAllowed(event Event) bool {
	if t.trigger != event.Name() {
		return false
	}
	if t.guard == nil {
		return true
	}
	return t.guard(event)
}
