package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet_Basics(t *testing.T) {
	s := New("a", "b")
	s.Add("c")
	require.True(t, s.Has("c"))
	s.Delete("a")
	require.False(t, s.Has("a"))
}

func TestSet_DifferenceAndSorted(t *testing.T) {
	disk := New("c.md", "a.md", "b.md")
	nav := New("a.md")

	require.Equal(t, []string{"b.md", "c.md"}, Sorted(disk.Difference(nav)))

	nav.AddAll(New("b.md", "c.md"))
	require.Empty(t, disk.Difference(nav))
}
