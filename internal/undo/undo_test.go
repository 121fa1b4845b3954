package undo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	name  string
	value *int
	delta int
	fail  bool
}

func (c *counter) Undo() error {
	if c.fail {
		return errors.New("boom")
	}
	*c.value -= c.delta
	return nil
}

func (c *counter) Redo() error {
	*c.value += c.delta
	return nil
}

func (c *counter) Journal() string { return c.name }

func TestHistoryUndoRedo(t *testing.T) {
	value := 0
	h := New(0)

	for i, d := range []int{1, 10, 100} {
		value += d
		h.Push(&counter{name: string(rune('a' + i)), value: &value, delta: d})
	}
	require.Equal(t, 111, value)

	j, err := h.Undo()
	require.NoError(t, err)
	assert.Equal(t, "c", j)
	assert.Equal(t, 11, value)

	j, err = h.Redo()
	require.NoError(t, err)
	assert.Equal(t, "c", j)
	assert.Equal(t, 111, value)

	for h.CanUndo() {
		_, err := h.Undo()
		require.NoError(t, err)
	}
	assert.Equal(t, 0, value)

	_, err = h.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)
}

func TestHistoryPushDropsRedo(t *testing.T) {
	value := 0
	h := New(0)

	value++
	h.Push(&counter{name: "a", value: &value, delta: 1})
	value += 2
	h.Push(&counter{name: "b", value: &value, delta: 2})

	_, err := h.Undo()
	require.NoError(t, err)
	assert.True(t, h.CanRedo())

	value += 5
	h.Push(&counter{name: "c", value: &value, delta: 5})

	assert.False(t, h.CanRedo())
	assert.Equal(t, []string{"a", "c"}, h.Journals())

	_, err = h.Redo()
	assert.ErrorIs(t, err, ErrNothingToRedo)
}

func TestHistoryLimit(t *testing.T) {
	value := 0
	h := New(2)
	for i := 0; i < 4; i++ {
		value++
		h.Push(&counter{name: string(rune('a' + i)), value: &value, delta: 1})
	}

	assert.Equal(t, []string{"c", "d"}, h.Journals())
	assert.Equal(t, 1, h.Idx)
}

func TestHistoryUndoFailureKeepsIndex(t *testing.T) {
	value := 1
	h := New(0)
	h.Push(&counter{name: "bad", value: &value, delta: 1, fail: true})

	_, err := h.Undo()
	require.Error(t, err)
	assert.Equal(t, 0, h.Idx)
	assert.Equal(t, 1, value)
}
