package foundation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	ok := Ok(21)
	require.True(t, ok.IsOk())
	require.Equal(t, 21, ok.Value())

	boom := errors.New("boom")
	failed := FromTuple(7, boom)
	require.False(t, failed.IsOk())
	require.Equal(t, 0, failed.Value())
	require.ErrorIs(t, failed.Err(), boom)

	require.ErrorIs(t, Fail[int](nil).Err(), ErrNoValue)
}

func TestNormalizer(t *testing.T) {
	type color string
	n := NewNormalizer(map[string]color{"dark_red": "dr", "blue": "b"})

	v, ok := n.Normalize("  Dark-Red ")
	require.True(t, ok)
	require.Equal(t, color("dr"), v)

	_, ok = n.Normalize("green")
	require.False(t, ok)

	_, err := n.NormalizeWithError("green")
	require.ErrorIs(t, err, ErrUnknownValue)
	require.Contains(t, err.Error(), "blue, dark_red")
}
