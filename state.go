package hfsm

import (
	"github.com/google/uuid"

	"github.com/statomata/hfsm/kind"
)

// State is a pure identity: a kind, a display name, and a process-unique
// synthetic id. Behavior lives on the Container that wraps it.
type State struct {
	kind kind.Kind
	name string
	id   string
}

// NewState returns a normal user-defined state.
func NewState(name string) *State {
	return &State{kind: kind.Normal, name: name, id: uuid.NewString()}
}

// NewFinal returns a final pseudo-state. All final states compare equal to
// each other, so distinct instances may be used as a shared terminal marker.
func NewFinal() *State {
	return &State{kind: kind.Final, name: "final", id: uuid.NewString()}
}

func newInitialState() *State {
	return &State{kind: kind.Initial, name: "initial", id: uuid.NewString()}
}

func (s *State) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

func (s *State) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

func (s *State) Kind() kind.Kind {
	if s == nil {
		return kind.Normal
	}
	return s.kind
}

func (s *State) IsFinal() bool { return s != nil && s.kind == kind.Final }

func (s *State) IsInitial() bool { return s != nil && s.kind == kind.Initial }

// Equal reports whether two states are the same identity. Final states are
// compared by kind only; all other states by their synthetic id.
func (s *State) Equal(other *State) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.kind == kind.Final && other.kind == kind.Final {
		return true
	}
	return s.id == other.id
}
