package kind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/statomata/hfsm/kind"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "normal", kind.Normal.String())
	assert.Equal(t, "initial", kind.Initial.String())
	assert.Equal(t, "final", kind.Final.String())
	assert.Equal(t, "unknown", kind.Kind(99).String())
}

func TestHistoryString(t *testing.T) {
	assert.Equal(t, "none", kind.HistoryNone.String())
	assert.Equal(t, "shallow", kind.HistoryShallow.String())
	assert.Equal(t, "deep", kind.HistoryDeep.String())
	assert.Equal(t, "unknown", kind.History(99).String())
}
