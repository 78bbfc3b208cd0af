package resolver

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewQueueRejectsBadCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		_, err := NewQueue(capacity)
		require.ErrorIs(t, err, ErrInvalidCapacity)
	}
}

func TestQueueFIFO(t *testing.T) {
	q, err := NewQueue(3)
	require.NoError(t, err)

	require.True(t, q.Enqueue("10.0.0.1"))
	require.True(t, q.Enqueue("10.0.0.2"))
	require.True(t, q.Enqueue("10.0.0.3"))

	for _, want := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		got, ok := q.Dequeue()
		require.True(t, ok)
		require.Equal(t, want, got)
	}

	_, ok := q.Dequeue()
	require.False(t, ok)
}

func TestQueueBoundedAdmission(t *testing.T) {
	const capacity = 4
	q, err := NewQueue(capacity)
	require.NoError(t, err)

	for i := 0; i < capacity; i++ {
		require.True(t, q.Enqueue(fmt.Sprintf("10.0.0.%d", i)))
	}
	require.True(t, q.Full())
	require.False(t, q.Enqueue("10.0.0.99"))
	require.Equal(t, capacity, q.Len())
}

func TestQueueWrapAround(t *testing.T) {
	q, err := NewQueue(2)
	require.NoError(t, err)

	// Drive head and tail past the end of the buffer a few times.
	for i := 0; i < 5; i++ {
		a := fmt.Sprintf("192.0.2.%d", i)
		b := fmt.Sprintf("198.51.100.%d", i)
		require.True(t, q.Enqueue(a))
		require.True(t, q.Enqueue(b))
		require.True(t, q.Full())

		got, ok := q.Dequeue()
		require.True(t, ok)
		require.Equal(t, a, got)
		got, ok = q.Dequeue()
		require.True(t, ok)
		require.Equal(t, b, got)
		require.True(t, q.Empty())
	}
}

func TestQueueFind(t *testing.T) {
	q, err := NewQueue(3)
	require.NoError(t, err)

	require.False(t, q.Find("10.0.0.1"))

	q.Enqueue("10.0.0.1")
	q.Enqueue("10.0.0.2")
	require.True(t, q.Find("10.0.0.1"))
	require.True(t, q.Find("10.0.0.2"))
	require.False(t, q.Find("10.0.0.3"))

	// Membership follows the live region, not historical contents.
	q.Dequeue()
	require.False(t, q.Find("10.0.0.1"))
	require.True(t, q.Find("10.0.0.2"))
}

func TestQueueSizeAccounting(t *testing.T) {
	q, err := NewQueue(2)
	require.NoError(t, err)

	require.True(t, q.Empty())
	require.Equal(t, 0, q.Len())
	require.Equal(t, 2, q.Cap())

	q.Enqueue("10.0.0.1")
	require.Equal(t, 1, q.Len())
	require.False(t, q.Empty())
	require.False(t, q.Full())

	q.Enqueue("10.0.0.2")
	require.True(t, q.Full())

	q.Dequeue()
	q.Dequeue()
	require.True(t, q.Empty())
	require.Equal(t, 2, q.Cap())
}
