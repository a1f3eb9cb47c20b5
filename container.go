package hfsm

import (
	"github.com/statomata/hfsm/kind"
	"github.com/statomata/hfsm/pkg/set"
)

// Action is an entry, exit, or do behavior attached to a state. Actions run
// on whichever goroutine is dispatching the owning machine; a returned error
// aborts the current dispatch and is wrapped with the state's name and slot.
type Action func(event Event) error

// Container wraps a state with its behavior: the action slots, the outgoing
// transitions, and the child machines the state owns. Containers are
// immutable once built; the only mutable field is the run-time bookkeeping
// of which child machines are currently active, which is touched exclusively
// under the owning machine's dispatch lock.
type Container struct {
	state       *State
	entry       Action
	exit        Action
	do          Action
	transitions []Transition
	children    []*Machine

	// active survives the container's own exit so that history end points
	// can resume it later.
	active set.Set[*Machine]
}

// State returns the identity this container wraps.
func (c *Container) State() *State { return c.state }

// Transitions returns a copy of the container's outgoing transitions in
// declaration order.
func (c *Container) Transitions() []Transition {
	out := make([]Transition, len(c.transitions))
	copy(out, c.transitions)
	return out
}

// Children returns a copy of the container's declared child machines.
func (c *Container) Children() []*Machine {
	out := make([]*Machine, len(c.children))
	copy(out, c.children)
	return out
}

func newContainer(state *State) *Container {
	return &Container{state: state, active: set.New[*Machine]()}
}

// start implements the entry protocol. With a shallow marker and previously
// active children it re-enters each active child's current state one level
// deep; with a deep marker it leaves the whole active subtree frozen. In
// both resume paths the container's own entry action does not run. Otherwise
// entry and do fire and every declared child machine starts fresh.
func (c *Container) start(event Event, history kind.History) error {
	if history == kind.HistoryShallow && c.active.Size() > 0 {
		for _, child := range c.children {
			if !c.active.Contains(child) {
				continue
			}
			if err := child.resumeCurrent(event); err != nil {
				return err
			}
		}
		return nil
	}
	if history == kind.HistoryDeep && c.active.Size() > 0 {
		return nil
	}
	if c.entry != nil {
		if err := c.entry(event); err != nil {
			return newActionError(c.state.Name(), SlotEntry, err)
		}
	}
	if c.do != nil {
		if err := c.do(event); err != nil {
			return newActionError(c.state.Name(), SlotDo, err)
		}
	}
	return c.startChildren(event)
}

// startChildren restarts every declared child machine from its own initial
// state, replacing any prior active-child bookkeeping.
func (c *Container) startChildren(event Event) error {
	c.active.Clear()
	for _, child := range c.children {
		if err := child.restart(event); err != nil {
			return err
		}
		c.active.Add(child)
	}
	return nil
}

// dispatch implements the event protocol: active children see the event
// first and absorb it entirely when any of them handles it. Local
// transitions are evaluated only afterwards, against the completion event
// when this dispatch drained the last active child, otherwise against the
// original event. A matching transition runs the exit action and hands the
// end point up; handled is false for transitions to final even though a
// state change occurred, so callers detect the change via the end point.
func (c *Container) dispatch(event Event) (bool, *EndPoint, error) {
	hadActive := c.active.Size() > 0
	if hadActive {
		handled := false
		for _, child := range c.children {
			if !c.active.Contains(child) {
				continue
			}
			childHandled, err := child.deliver(event)
			if err != nil {
				return false, nil, err
			}
			if child.HasFinished() {
				c.active.Remove(child)
			}
			if childHandled {
				handled = true
			}
		}
		if handled {
			return true, nil, nil
		}
	}
	effective := event
	if hadActive && c.active.Size() == 0 {
		effective = newCompletionEvent(event.Data())
	}
	for i := range c.transitions {
		if !c.transitions[i].isAllowed(effective) {
			continue
		}
		if c.exit != nil {
			if err := c.exit(effective); err != nil {
				return false, nil, newActionError(c.state.Name(), SlotExit, err)
			}
		}
		target := c.transitions[i].target
		return !target.IsFinal(), &target, nil
	}
	return false, nil, nil
}

func (c *Container) hasCompletionTransition() bool {
	for _, t := range c.transitions {
		if t.isCompletion() {
			return true
		}
	}
	return false
}

// ContainerBuilder accumulates a state's configuration and produces one
// immutable Container on Build. All methods return the builder for
// chaining; configuration errors are collected and surfaced by Build.
type ContainerBuilder struct {
	state       *State
	entry       Action
	exit        Action
	do          Action
	transitions []Transition
	children    []*Machine
	err         error
}

// Configure starts a builder for the given state.
func Configure(state *State) *ContainerBuilder {
	b := &ContainerBuilder{state: state}
	if state == nil {
		b.fail(newConfigError("", "cannot configure a nil state"))
	} else if state.Kind() != kind.Normal {
		b.fail(newConfigError(state.Name(), "only normal states own actions, transitions, or children"))
	}
	return b
}

func (b *ContainerBuilder) fail(err *Error) {
	if b.err == nil {
		b.err = err
	}
}

// OnEntry sets the action run when the state is entered fresh.
func (b *ContainerBuilder) OnEntry(action Action) *ContainerBuilder {
	b.entry = action
	return b
}

// OnExit sets the action run when a local transition leaves the state.
func (b *ContainerBuilder) OnExit(action Action) *ContainerBuilder {
	b.exit = action
	return b
}

// Do sets the action run after entry completes, before children start.
func (b *ContainerBuilder) Do(action Action) *ContainerBuilder {
	b.do = action
	return b
}

// Permit declares an outgoing transition keyed on the given trigger.
// Transitions are evaluated in declaration order; the first match wins.
func (b *ContainerBuilder) Permit(trigger string, target EndPoint, maybeGuard ...GuardFunc) *ContainerBuilder {
	if NewEvent(trigger).isInternal() {
		b.fail(newConfigError(b.state.Name(), "trigger %q uses the reserved %q prefix", trigger, reservedPrefix))
		return b
	}
	return b.permit(trigger, target, maybeGuard...)
}

// PermitCompletion declares a transition that fires automatically once all
// of the state's child machines have finished. Machines reject completion
// transitions on states without children at construction.
func (b *ContainerBuilder) PermitCompletion(target EndPoint, maybeGuard ...GuardFunc) *ContainerBuilder {
	return b.permit(completionEventName, target, maybeGuard...)
}

func (b *ContainerBuilder) permit(trigger string, target EndPoint, maybeGuard ...GuardFunc) *ContainerBuilder {
	var guard GuardFunc
	if len(maybeGuard) > 0 {
		guard = maybeGuard[0]
	}
	if target.State() == nil {
		b.fail(newConfigError(b.state.Name(), "transition on %q has no destination", trigger))
		return b
	}
	if target.State().IsInitial() {
		b.fail(newConfigError(b.state.Name(), "the initial pseudo-state cannot be a destination"))
		return b
	}
	b.transitions = append(b.transitions, Transition{trigger: trigger, guard: guard, target: target})
	return b
}

// Child declares child machines owned by this state. They start fresh on
// every history-free entry and receive events before local transitions.
func (b *ContainerBuilder) Child(machines ...*Machine) *ContainerBuilder {
	for _, m := range machines {
		if m == nil {
			b.fail(newConfigError(b.state.Name(), "cannot own a nil child machine"))
			return b
		}
		b.children = append(b.children, m)
	}
	return b
}

// Build produces the immutable container, or the first configuration error
// recorded while chaining.
func (b *ContainerBuilder) Build() (*Container, error) {
	if b.err != nil {
		return nil, b.err
	}
	c := newContainer(b.state)
	c.entry = b.entry
	c.exit = b.exit
	c.do = b.do
	c.transitions = make([]Transition, len(b.transitions))
	copy(c.transitions, b.transitions)
	c.children = make([]*Machine, len(b.children))
	copy(c.children, b.children)
	return c, nil
}

// MustBuild is Build for configuration known statically correct; it panics
// on configuration errors.
func (b *ContainerBuilder) MustBuild() *Container {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}
