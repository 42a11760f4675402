package frontier_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/llmsforge/ingest/internal/frontier"
)

func TestStackLIFOOrder(t *testing.T) {
	s := frontier.NewStack[int]()
	s.Push(1)
	s.Push(2)
	s.Push(3)

	v, ok := s.Pop()
	require.True(t, ok)
	require.Equal(t, 3, v)

	v, ok = s.Pop()
	require.True(t, ok)
	require.Equal(t, 2, v)

	require.Equal(t, 1, s.Size())
}

func TestStackPopEmpty(t *testing.T) {
	s := frontier.NewStack[string]()
	_, ok := s.Pop()
	require.False(t, ok)
}
