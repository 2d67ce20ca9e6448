package crawler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontierFIFO(t *testing.T) {
	f := newFrontier(10)
	require.True(t, f.push("a"))
	require.True(t, f.push("b"))
	require.True(t, f.push("c"))

	for _, want := range []string{"a", "b", "c"} {
		got, ok := f.pop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := f.pop()
	assert.False(t, ok)
}

func TestFrontierCapacity(t *testing.T) {
	f := newFrontier(3)
	for i := 0; i < 3; i++ {
		require.True(t, f.push(fmt.Sprintf("url-%d", i)))
	}

	assert.False(t, f.push("overflow"))
	assert.Equal(t, 3, f.pending())
}

func TestFrontierRejectsDuplicates(t *testing.T) {
	f := newFrontier(10)
	require.True(t, f.push("a"))

	assert.False(t, f.push("a"), "pending URL must not enqueue twice")

	got, ok := f.pop()
	require.True(t, ok)
	require.Equal(t, "a", got)
	assert.False(t, f.push("a"), "visited URL must not enqueue again")
}

func TestFrontierRejectsEmpty(t *testing.T) {
	f := newFrontier(10)
	assert.False(t, f.push(""))
}

func TestFrontierVisitedCount(t *testing.T) {
	f := newFrontier(10)
	f.push("a")
	f.push("b")
	f.pop()

	assert.Equal(t, 1, f.visitedCount())
	assert.Equal(t, 1, f.pending())
}
