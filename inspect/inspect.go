// Package inspect defines the read-only structural view of a machine that
// external collaborators (diagram generators, debug adapters, documentation
// tooling) consume. Snapshots are deep copies: traversing or retaining one
// can never mutate the machine it was taken from.
package inspect

import "github.com/statomata/hfsm/kind"

// Snapshot captures one machine: its identity, every container it owns
// (including the synthesized initial and final ones), and the name of the
// container that was current when the snapshot was taken.
type Snapshot struct {
	Name       string
	ID         string
	Current    string
	Containers []Container
}

// Container captures one state container.
type Container struct {
	State       State
	Transitions []Transition
	Children    []Snapshot
}

// State captures a state identity.
type State struct {
	ID   string
	Name string
	Kind kind.Kind
}

// Transition captures one outgoing transition.
type Transition struct {
	Trigger string
	Target  State
	History kind.History
	ToFinal bool
}

// Find returns the container wrapping the named state, if present.
func (s Snapshot) Find(name string) (Container, bool) {
	for _, c := range s.Containers {
		if c.State.Name == name {
			return c, true
		}
	}
	return Container{}, false
}
