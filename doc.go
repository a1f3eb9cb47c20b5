// Package hfsm is a hierarchical finite-state-machine execution engine.
// Applications declare states, guarded transitions, entry/exit/do actions,
// and nested child machines through container builders, wire the containers
// into a Machine, and drive it by calling Start and Trigger.
//
// Events thread down through a state's active children before the state's
// own transitions are evaluated, shallow and deep history end points resume
// previously active substructure, and each machine processes one event at a
// time. Machines come in two disciplines chosen at construction: the
// synchronous one runs every action on the triggering goroutine, the
// asynchronous one (Async option) enqueues events on a dedicated sequential
// worker and returns immediately.
//
// The engine owns no timers, persistence, or I/O; scheduling is entirely
// the embedding application's concern.
package hfsm
