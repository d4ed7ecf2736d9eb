package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter(t *testing.T) {
	in := []byte("# Title\n\n[a](b.md)\n")
	fm, body, start, had, err := Split(in)
	require.NoError(t, err)
	require.False(t, had)
	require.Nil(t, fm)
	require.Equal(t, in, body)
	require.Zero(t, start)
}

func TestSplit_WithFrontmatter(t *testing.T) {
	in := []byte("---\ntitle: Guide\n---\n# Guide\n")
	fm, body, start, had, err := Split(in)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "title: Guide\n", string(fm))
	require.Equal(t, "# Guide\n", string(body))
	require.Equal(t, "# Guide\n", string(in[start:]))
}

func TestSplit_CRLF(t *testing.T) {
	in := []byte("---\r\ntitle: x\r\n---\r\nbody\r\n")
	_, body, _, had, err := Split(in)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "body\r\n", string(body))
}

func TestSplit_EmptyFrontmatter(t *testing.T) {
	_, body, start, had, err := Split([]byte("---\n---\nbody"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "body", string(body))
	require.Equal(t, 8, start)
}

func TestSplit_MissingClosingDelimiter(t *testing.T) {
	in := []byte("---\ntitle: x\nno close\n")
	_, body, start, had, err := Split(in)
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	require.False(t, had)
	require.Equal(t, in, body)
	require.Zero(t, start)
}
