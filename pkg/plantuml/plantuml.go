// Package plantuml renders a machine snapshot as a PlantUML state diagram.
// It consumes only the inspect views, never the engine itself.
package plantuml

import (
	"fmt"
	"io"
	"strings"

	"github.com/statomata/hfsm/inspect"
	"github.com/statomata/hfsm/kind"
)

// Generate writes the PlantUML source for the given machine snapshot.
func Generate(w io.Writer, snap inspect.Snapshot) error {
	builder := &strings.Builder{}
	fmt.Fprintf(builder, "@startuml %s\n", sanitize(snap.Name))
	generateMachine(builder, 0, snap)
	builder.WriteString("@enduml\n")
	_, err := io.WriteString(w, builder.String())
	return err
}

func generateMachine(builder *strings.Builder, depth int, snap inspect.Snapshot) {
	indent := strings.Repeat("  ", depth)
	for _, container := range snap.Containers {
		switch container.State.Kind {
		case kind.Initial, kind.Final:
			// rendered through their arrows below
		default:
			generateState(builder, depth, container)
		}
	}
	for _, container := range snap.Containers {
		source := stateID(container.State)
		for _, transition := range container.Transitions {
			fmt.Fprintf(builder, "%s%s --> %s%s%s\n",
				indent, source, targetID(transition), historyTag(transition.History), label(transition))
		}
	}
}

func generateState(builder *strings.Builder, depth int, container inspect.Container) {
	indent := strings.Repeat("  ", depth)
	id := stateID(container.State)
	if len(container.Children) == 0 {
		fmt.Fprintf(builder, "%sstate %s\n", indent, id)
		return
	}
	fmt.Fprintf(builder, "%sstate %s {\n", indent, id)
	for _, child := range container.Children {
		fmt.Fprintf(builder, "%s  state %s {\n", indent, sanitize(child.Name))
		generateMachine(builder, depth+2, child)
		fmt.Fprintf(builder, "%s  }\n", indent)
	}
	fmt.Fprintf(builder, "%s}\n", indent)
}

func stateID(s inspect.State) string {
	switch s.Kind {
	case kind.Initial:
		return "[*]"
	case kind.Final:
		return "[*]"
	}
	return sanitize(s.Name)
}

func targetID(t inspect.Transition) string {
	if t.ToFinal {
		return "[*]"
	}
	return sanitize(t.Target.Name)
}

func historyTag(h kind.History) string {
	switch h {
	case kind.HistoryShallow:
		return "[H]"
	case kind.HistoryDeep:
		return "[H*]"
	}
	return ""
}

func label(t inspect.Transition) string {
	if strings.HasPrefix(t.Trigger, ".") {
		return ""
	}
	return " : " + t.Trigger
}

func sanitize(name string) string {
	replacer := strings.NewReplacer(" ", "_", "-", "_", "/", "_")
	return replacer.Replace(name)
}
