package markdown

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// DefaultExtension is the content file extension links are normalised to.
const DefaultExtension = ".md"

var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)

// NormalisedLink is a link target ready for resolution. External links are
// always valid and carry no path.
type NormalisedLink struct {
	Path     string
	External bool
}

// IsExternal reports whether target carries a URL scheme or is
// protocol-relative.
func IsExternal(target string) bool {
	t := strings.TrimSpace(target)
	return strings.HasPrefix(t, "//") || schemePattern.MatchString(t)
}

// Normalise prepares a raw link target for resolution. It reports false for
// targets with nothing to check: same-page anchors and non-content files.
// ext is the content extension; empty selects DefaultExtension.
func Normalise(raw, ext string) (NormalisedLink, bool) {
	if ext == "" {
		ext = DefaultExtension
	}
	link := stripFragment(raw)
	if link == "" {
		return NormalisedLink{}, false
	}
	if IsExternal(link) {
		return NormalisedLink{External: true}, true
	}
	link = unescape(link)

	if strings.HasSuffix(link, "/") {
		link = strings.TrimRight(link, "/")
		if link == "" {
			return NormalisedLink{}, false
		}
		return NormalisedLink{Path: link + ext}, true
	}

	switch path.Ext(link) {
	case ext:
		return NormalisedLink{Path: link}, true
	case "":
		return NormalisedLink{Path: link + ext}, true
	default:
		return NormalisedLink{}, false
	}
}

// NormaliseImage prepares a raw image target. It reports false for
// external, inline data and empty targets.
func NormaliseImage(raw string) (string, bool) {
	target := stripFragment(raw)
	if target == "" || IsExternal(target) {
		return "", false
	}
	return unescape(target), true
}

func stripFragment(raw string) string {
	link, _, _ := strings.Cut(raw, "#")
	link, _, _ = strings.Cut(link, "?")
	return strings.TrimSpace(link)
}

func unescape(p string) string {
	if !strings.Contains(p, "%") {
		return p
	}
	if decoded, err := url.PathUnescape(p); err == nil {
		return decoded
	}
	return p
}
