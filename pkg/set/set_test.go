package set_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/statomata/hfsm/pkg/set"
)

func TestSet(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		s := set.New[string]("a", "b", "c")
		assert.Equal(t, 3, s.Size())
		assert.True(t, s.Contains("a"))
		assert.True(t, s.Contains("b"))
		assert.True(t, s.Contains("c"))
	})

	t.Run("Add", func(t *testing.T) {
		s := set.New[string]()
		s.Add("test")
		s.Add("test")
		assert.Equal(t, 1, s.Size())
		assert.True(t, s.Contains("test"))
	})

	t.Run("Remove", func(t *testing.T) {
		s := set.New[string]("test")
		s.Remove("test")
		assert.Equal(t, 0, s.Size())
		assert.False(t, s.Contains("test"))
	})

	t.Run("Clear", func(t *testing.T) {
		s := set.New[int](1, 2, 3)
		s.Clear()
		assert.Equal(t, 0, s.Size())
	})

	t.Run("Items", func(t *testing.T) {
		s := set.New[int](1, 2, 3)
		var items []int
		for item := range s.Items() {
			items = append(items, item)
		}
		slices.Sort(items)
		assert.Equal(t, []int{1, 2, 3}, items)
	})
}
