// Package kind enumerates the closed classification of states and history
// markers used by the hfsm engine.
package kind

// Kind classifies a state. The taxonomy is closed: user code only ever
// creates Normal and Final states, Initial is synthesized per machine.
type Kind uint8

const (
	Normal Kind = iota
	Initial
	Final
)

func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Initial:
		return "initial"
	case Final:
		return "final"
	}
	return "unknown"
}

// History marks how a transition's destination is entered. It is carried on
// the end point, not on the state, so the same state can be targeted both
// with and without resumption semantics.
type History uint8

const (
	// HistoryNone enters the destination fresh.
	HistoryNone History = iota
	// HistoryShallow resumes the destination's previously active children
	// one level deep; deeper descendants start fresh.
	HistoryShallow
	// HistoryDeep resumes the destination's entire previously active
	// descendant subtree without running any entry action in it.
	HistoryDeep
)

func (h History) String() string {
	switch h {
	case HistoryNone:
		return "none"
	case HistoryShallow:
		return "shallow"
	case HistoryDeep:
		return "deep"
	}
	return "unknown"
}
