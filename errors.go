package hfsm

import "fmt"

// Slot names the action whose failure produced an Error.
type Slot string

const (
	SlotEntry        Slot = "OnEntry"
	SlotExit         Slot = "OnExit"
	SlotDo           Slot = "Do"
	SlotStateChanged Slot = "StateChanged"
	SlotTriggered    Slot = "Triggered"
)

// Error is the single error kind surfaced by the engine: configuration
// misuse caught at build time, invocation misuse caught at trigger time,
// and failures of application-supplied actions and callbacks.
type Error struct {
	msg   string
	state string
	slot  Slot
	cause error
}

func (e *Error) Error() string {
	switch {
	case e.slot != "" && e.cause != nil:
		return fmt.Sprintf("state %q: %s action failed: %v", e.state, e.slot, e.cause)
	case e.state != "":
		return fmt.Sprintf("state %q: %s", e.state, e.msg)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

// StateName returns the name of the state the error is attributed to, if
// any.
func (e *Error) StateName() string { return e.state }

// Slot identifies the failed action for action errors; empty for misuse
// errors.
func (e *Error) Slot() Slot { return e.slot }

func newConfigError(state, format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...), state: state}
}

func newActionError(state string, slot Slot, cause error) *Error {
	return &Error{state: state, slot: slot, cause: cause}
}
