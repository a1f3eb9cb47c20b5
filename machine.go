package hfsm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"

	"github.com/statomata/hfsm/inspect"
	"github.com/statomata/hfsm/kind"
	"github.com/statomata/hfsm/pkg/telemetry"
)

// StateChangedFunc observes the current-container switch. It runs at the
// point the pointer is updated, before the destination's entry action.
type StateChangedFunc func(m *Machine, from, to *State)

// TriggeredFunc observes every public trigger, handled or not, with the
// state that was current when the event arrived.
type TriggeredFunc func(m *Machine, at *State, event Event, handled bool)

// ErrorFunc receives failures from the asynchronous worker. The worker
// keeps draining subsequent events after reporting.
type ErrorFunc func(m *Machine, event Event, err error)

// Machine drives an object through state changes in response to events. It
// owns the full set of containers reachable from the declared start state,
// a synthesized initial container, and, when any transition targets a final
// state, a synthesized final container. One event is fully processed at a
// time per machine.
type Machine struct {
	name string
	id   string

	containers map[string]*Container
	order      []*Container
	initial    *Container
	final      *Container

	mu       sync.Mutex
	current  *Container
	snapshot atomic.Pointer[State]

	logger       *slog.Logger
	tracer       trace.Tracer
	stateChanged StateChangedFunc
	triggered    TriggeredFunc
	onError      ErrorFunc

	runner *runner
}

// Option configures a machine at construction.
type Option func(*Machine)

// WithLogger sets the structured logger; slog.Default() otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) { m.logger = logger }
}

// WithTracer sets the tracer that spans each dispatch; a no-op tracer
// otherwise.
func WithTracer(tracer trace.Tracer) Option {
	return func(m *Machine) { m.tracer = tracer }
}

// WithStateChanged registers the state-changed notification.
func WithStateChanged(fn StateChangedFunc) Option {
	return func(m *Machine) { m.stateChanged = fn }
}

// WithTriggered registers the triggered notification.
func WithTriggered(fn TriggeredFunc) Option {
	return func(m *Machine) { m.triggered = fn }
}

// WithErrorHandler registers the asynchronous failure handler. Without one,
// worker failures are logged.
func WithErrorHandler(fn ErrorFunc) Option {
	return func(m *Machine) { m.onError = fn }
}

// Async selects the asynchronous discipline: Trigger enqueues the event on
// the machine's single sequential worker and returns immediately.
func Async() Option {
	return func(m *Machine) { m.runner = newRunner() }
}

// New builds a machine from a declared start container and any other
// declared containers. States that appear only as transition destinations
// are wrapped in default containers; a final container is synthesized iff
// some transition targets a final state. Configuration misuse fails here,
// not at trigger time.
func New(name string, start *Container, others []*Container, opts ...Option) (*Machine, error) {
	if start == nil {
		return nil, newConfigError("", "machine %q has no start container", name)
	}
	m := &Machine{
		name:       name,
		id:         uuid.NewString(),
		containers: map[string]*Container{},
		logger:     slog.Default(),
		tracer:     telemetry.NewProvider().Tracer("hfsm"),
	}
	for _, opt := range opts {
		opt(m)
	}

	declared := append([]*Container{start}, others...)
	for _, c := range declared {
		if c == nil || c.state == nil {
			return nil, newConfigError("", "machine %q declares a nil container", name)
		}
		if _, dup := m.containers[c.state.id]; dup {
			return nil, newConfigError(c.state.Name(), "state declared by more than one container")
		}
		m.add(c)
	}

	m.initial = newContainer(newInitialState())
	m.initial.transitions = []Transition{{trigger: startEventName, target: To(start.state)}}
	m.add(m.initial)

	// Close the state set over transition destinations.
	for _, c := range declared {
		for _, t := range c.transitions {
			dst := t.target.state
			switch {
			case dst.IsFinal():
				if m.final == nil {
					m.final = newContainer(dst)
					m.add(m.final)
				}
			case dst.IsInitial():
				return nil, newConfigError(c.state.Name(), "the initial pseudo-state cannot be a destination")
			default:
				if _, ok := m.containers[dst.id]; !ok {
					m.add(newContainer(dst))
				}
			}
		}
	}

	for _, c := range m.order {
		if c.hasCompletionTransition() && len(c.children) == 0 {
			return nil, newConfigError(c.state.Name(), "completion transitions require child machines")
		}
	}

	m.current = m.initial
	m.snapshot.Store(m.initial.state)
	return m, nil
}

func (m *Machine) add(c *Container) {
	m.containers[c.state.id] = c
	m.order = append(m.order, c)
}

// Name returns the machine's name.
func (m *Machine) Name() string { return m.name }

// ID returns the machine's process-unique id.
func (m *Machine) ID() string { return m.id }

// Current returns the state of the current container. Safe to call from any
// goroutine without blocking on in-flight dispatch.
func (m *Machine) Current() *State { return m.snapshot.Load() }

// IsRunning reports whether the current state is neither the initial nor a
// final pseudo-state.
func (m *Machine) IsRunning() bool { return m.Current().Kind() == kind.Normal }

// HasFinished reports whether the machine has collapsed into a final state.
func (m *Machine) HasFinished() bool { return m.Current().Kind() == kind.Final }

// Start moves the machine from the initial pseudo-state to the declared
// start state, running its entry action and starting its children. Starting
// a finished machine is legal and loops it back to the declared start state.
func (m *Machine) Start() error {
	m.mu.Lock()
	if m.current.state.Kind() == kind.Normal {
		m.mu.Unlock()
		return newConfigError(m.current.state.Name(), "machine %q is already running", m.name)
	}
	m.current = m.initial
	m.snapshot.Store(m.initial.state)
	_, err := m.dispatchLocked(newStartEvent(nil))
	m.mu.Unlock()
	if m.runner != nil {
		m.runner.open()
	}
	return err
}

// Trigger feeds one event to the machine. Synchronous machines process it
// on the calling goroutine and return whether it was handled; note that the
// transition collapsing the machine into a final state reports handled
// false even though the state changed, so consumers should also check
// HasFinished. Asynchronous machines enqueue the event and report true
// immediately.
func (m *Machine) Trigger(event Event) (bool, error) {
	if event.isInternal() {
		return false, newConfigError("", "event %q is reserved for internal dispatch", event.Name())
	}
	if m.runner != nil {
		m.runner.submit(m, event)
		return true, nil
	}
	return m.triggerEvent(event)
}

// triggerEvent is the dispatch core shared by both disciplines: one event
// fully processed at a time under the machine's lock.
func (m *Machine) triggerEvent(event Event) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dispatchLocked(event)
}

func (m *Machine) dispatchLocked(event Event) (bool, error) {
	_, span := m.tracer.Start(context.Background(), "hfsm.dispatch", trace.WithAttributes(
		attribute.String("machine.name", m.name),
		attribute.String("event", event.Name()),
		attribute.String("state", m.current.state.Name()),
	))
	defer span.End()

	before := m.current
	handled, target, err := before.dispatch(event)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	if !event.isStart() {
		if err := m.notifyTriggered(before.state, event, handled); err != nil {
			span.RecordError(err)
			return handled, err
		}
	}
	if target == nil {
		return handled, nil
	}
	next := m.containerFor(target.State())
	if next == nil {
		err := newConfigError(target.State().Name(), "destination is not part of machine %q", m.name)
		span.RecordError(err)
		return handled, err
	}
	m.current = next
	m.snapshot.Store(next.state)
	m.logger.Debug("state changed",
		"machine", m.name,
		"from", before.state.Name(),
		"to", next.state.Name(),
		"event", event.Name(),
	)
	span.AddEvent("transition")
	if err := m.notifyStateChanged(before.state, next.state); err != nil {
		span.RecordError(err)
		return handled, err
	}
	if err := next.start(event, target.History()); err != nil {
		span.RecordError(err)
		return handled, err
	}
	return handled, nil
}

// containerFor resolves a destination state to its owning container. Final
// destinations all resolve to the one synthesized final container.
func (m *Machine) containerFor(s *State) *Container {
	if s.IsFinal() {
		return m.final
	}
	return m.containers[s.ID()]
}

// deliver forwards an event from a parent container to this child machine
// through the child's own discipline.
func (m *Machine) deliver(event Event) (bool, error) {
	if m.runner != nil {
		m.runner.submit(m, event)
		return true, nil
	}
	return m.triggerEvent(event)
}

// restart forces the machine back through its initial pseudo-state,
// regardless of where it currently is. Used when a parent container enters
// fresh and its declared children must start from scratch.
func (m *Machine) restart(event Event) error {
	m.mu.Lock()
	m.current = m.initial
	m.snapshot.Store(m.initial.state)
	_, err := m.dispatchLocked(newStartEvent(event.Data()))
	m.mu.Unlock()
	if m.runner != nil {
		m.runner.open()
	}
	return err
}

// resumeCurrent re-enters the current container one level deep, as required
// by a shallow-history resumption at the parent.
func (m *Machine) resumeCurrent(event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.start(event, kind.HistoryNone)
}

// SetCurrent force-sets the current state without running transitions or
// entry actions. Intended for recovery and testing only; observers still
// receive the state-changed notification.
func (m *Machine) SetCurrent(s *State) error {
	return m.override(s, false)
}

// Resume force-sets the current state and starts its declared children
// fresh, without running the state's own entry action. Intended for
// reconstructing machine position after an external restart.
func (m *Machine) Resume(s *State) error {
	return m.override(s, true)
}

func (m *Machine) override(s *State, startChildren bool) error {
	if s == nil {
		return newConfigError("", "cannot force-set a nil state")
	}
	m.mu.Lock()
	next := m.containerFor(s)
	if next == nil {
		m.mu.Unlock()
		return newConfigError(s.Name(), "state is not part of machine %q", m.name)
	}
	prev := m.current
	m.current = next
	m.snapshot.Store(next.state)
	err := m.notifyStateChanged(prev.state, next.state)
	if err == nil && startChildren {
		err = next.startChildren(newStartEvent(nil))
	}
	m.mu.Unlock()
	if m.runner != nil {
		m.runner.open()
	}
	return err
}

// Inspect returns a deep read-only snapshot of the machine's structure for
// external collaborators.
func (m *Machine) Inspect() inspect.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := inspect.Snapshot{
		Name:    m.name,
		ID:      m.id,
		Current: m.current.state.Name(),
	}
	for _, c := range m.order {
		snap.Containers = append(snap.Containers, inspectContainer(c))
	}
	return snap
}

func inspectContainer(c *Container) inspect.Container {
	out := inspect.Container{State: inspectState(c.state)}
	for _, t := range c.transitions {
		out.Transitions = append(out.Transitions, inspect.Transition{
			Trigger: t.trigger,
			Target:  inspectState(t.target.state),
			History: t.target.history,
			ToFinal: t.IsToFinal(),
		})
	}
	for _, child := range c.children {
		out.Children = append(out.Children, child.Inspect())
	}
	return out
}

func inspectState(s *State) inspect.State {
	return inspect.State{ID: s.ID(), Name: s.Name(), Kind: s.Kind()}
}

func (m *Machine) notifyTriggered(at *State, event Event, handled bool) (err error) {
	if m.triggered == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = newActionError(at.Name(), SlotTriggered, panicError(r))
		}
	}()
	m.triggered(m, at, event, handled)
	return nil
}

func (m *Machine) notifyStateChanged(from, to *State) (err error) {
	if m.stateChanged == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = newActionError(to.Name(), SlotStateChanged, panicError(r))
		}
	}()
	m.stateChanged(m, from, to)
	return nil
}

func (m *Machine) reportError(event Event, err error) {
	if m.onError != nil {
		m.onError(m, event, err)
		return
	}
	m.logger.Error("event processing failed",
		"machine", m.name,
		"event", event.Name(),
		"error", err,
	)
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}
