package plantuml_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statomata/hfsm"
	"github.com/statomata/hfsm/pkg/plantuml"
)

func TestGenerate(t *testing.T) {
	childState := hfsm.NewState("grinding")
	child, err := hfsm.New("grinder",
		hfsm.Configure(childState).Permit("Done", hfsm.To(hfsm.NewFinal())).MustBuild(),
		nil,
	)
	require.NoError(t, err)

	idle := hfsm.NewState("idle")
	brewing := hfsm.NewState("brewing")
	m, err := hfsm.New("coffee",
		hfsm.Configure(idle).Permit("Brew", hfsm.ToDeep(brewing)).MustBuild(),
		[]*hfsm.Container{
			hfsm.Composite(brewing, child).PermitCompletion(hfsm.To(idle)).MustBuild(),
		},
	)
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, plantuml.Generate(&out, m.Inspect()))
	diagram := out.String()

	assert.True(t, strings.HasPrefix(diagram, "@startuml coffee\n"))
	assert.True(t, strings.HasSuffix(diagram, "@enduml\n"))
	assert.Contains(t, diagram, "state idle\n")
	assert.Contains(t, diagram, "state brewing {")
	assert.Contains(t, diagram, "state grinder {")
	assert.Contains(t, diagram, "idle --> brewing[H*] : Brew")
	assert.Contains(t, diagram, "[*] --> idle")
	assert.Contains(t, diagram, "grinding --> [*] : Done")
}
