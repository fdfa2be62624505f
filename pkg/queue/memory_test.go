package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueue(t *testing.T) {
	q := NewInMemoryQueue(3)

	require.NoError(t, q.Enqueue("a"))
	require.NoError(t, q.Enqueue("b"))
	require.NoError(t, q.Enqueue("c"))
	assert.Equal(t, 3, q.Size())

	assert.Error(t, q.Enqueue("d"), "a full queue rejects new items")

	messages, err := q.ReadAllMessages()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a", "b", "c"}, messages, "items drain in insertion order")
	assert.Equal(t, 0, q.Size())

	messages, err = q.ReadAllMessages()
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestInMemoryQueue_ClearQueue(t *testing.T) {
	q := NewInMemoryQueue(4)
	require.NoError(t, q.Enqueue(1))
	require.NoError(t, q.Enqueue(2))

	require.NoError(t, q.ClearQueue())
	assert.Equal(t, 0, q.Size())
	require.NoError(t, q.Enqueue(3))
	assert.Equal(t, 1, q.Size())
}
