// File: internal/directory/selection_test.go
package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelection_Toggle(t *testing.T) {
	s := NewSelection()

	s.Toggle("u1")
	assert.True(t, s.Has("u1"))
	assert.Equal(t, 1, s.Count())

	s.Toggle("u1")
	assert.False(t, s.Has("u1"))
	assert.Equal(t, 0, s.Count())
}

func TestSelection_ToggleAllSelectsWhenAnyMissing(t *testing.T) {
	s := NewSelection()
	s.Toggle("u1")

	s.ToggleAll([]string{"u1", "u2", "u3"})

	assert.Equal(t, 3, s.Count())
	for _, id := range []string{"u1", "u2", "u3"} {
		assert.True(t, s.Has(id))
	}
}

func TestSelection_DoubleToggleAllEmpties(t *testing.T) {
	s := NewSelection()
	visible := []string{"u1", "u2"}

	s.ToggleAll(visible)
	assert.Equal(t, 2, s.Count())

	s.ToggleAll(visible)
	assert.Equal(t, 0, s.Count())
}

func TestSelection_ToggleAllOnEmptyVisibleIsNoOp(t *testing.T) {
	s := NewSelection()
	s.Toggle("u1")

	s.ToggleAll(nil)
	s.ToggleAll([]string{})

	assert.Equal(t, 1, s.Count())
	assert.True(t, s.Has("u1"))
}

func TestSelection_ToggleAllOnlyAffectsVisible(t *testing.T) {
	s := NewSelection()
	s.Toggle("hidden")

	s.ToggleAll([]string{"u1", "u2"})
	assert.True(t, s.Has("hidden"), "off-screen selection must survive")
	assert.Equal(t, 3, s.Count())

	s.ToggleAll([]string{"u1", "u2"})
	assert.True(t, s.Has("hidden"))
	assert.Equal(t, 1, s.Count())
}

func TestSelection_Clear(t *testing.T) {
	s := NewSelection()
	s.ToggleAll([]string{"u1", "u2"})

	s.Clear()
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.IDs())
}
