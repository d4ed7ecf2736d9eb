package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustNormalise(t *testing.T, raw string) NormalisedLink {
	t.Helper()
	n, ok := Normalise(raw, "")
	require.True(t, ok, raw)
	return n
}

func TestNormalise_Equivalences(t *testing.T) {
	require.Equal(t, mustNormalise(t, "page.md"), mustNormalise(t, "page.md#section"))
	require.Equal(t, mustNormalise(t, "page.md"), mustNormalise(t, "page"))
	require.Equal(t, mustNormalise(t, "dir.md"), mustNormalise(t, "dir/"))
	require.Equal(t, "dir.md", mustNormalise(t, "dir/").Path)
}

func TestNormalise_External(t *testing.T) {
	for _, raw := range []string{"https://example.com/x", "http://a", "mailto:me@example.com", "//cdn.example.com/a.js", "ftp://host/f"} {
		n := mustNormalise(t, raw)
		require.True(t, n.External, raw)
	}
	require.False(t, mustNormalise(t, "httpd-config.md").External)
}

func TestNormalise_Skipped(t *testing.T) {
	for _, raw := range []string{"", "#anchor", "/", "file.pdf", "img.png"} {
		_, ok := Normalise(raw, "")
		require.False(t, ok, raw)
	}
}

func TestNormalise_DecodesAndStripsQuery(t *testing.T) {
	require.Equal(t, "my page.md", mustNormalise(t, "my%20page.md").Path)
	require.Equal(t, "page.md", mustNormalise(t, "page.md?x=1").Path)
}

func TestNormalise_CustomExtension(t *testing.T) {
	n, ok := Normalise("page", ".markdown")
	require.True(t, ok)
	require.Equal(t, "page.markdown", n.Path)
}

func TestNormaliseImage(t *testing.T) {
	got, ok := NormaliseImage("img/a.png#x")
	require.True(t, ok)
	require.Equal(t, "img/a.png", got)

	_, ok = NormaliseImage("data:image/png;base64,AAA")
	require.False(t, ok)
	_, ok = NormaliseImage("https://example.com/a.png")
	require.False(t, ok)
}
