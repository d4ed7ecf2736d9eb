package markdown

import "regexp"

var cssURLPattern = regexp.MustCompile(`url\(\s*(['"]?)([^'")]+)(['"]?)\s*\)`)

// ExtractStylesheet returns the url(...) targets of a stylesheet as image
// references. External and inline data targets are skipped.
func ExtractStylesheet(content []byte) []Reference {
	loc := newLocator(content, 0)
	var out []Reference
	for _, m := range cssURLPattern.FindAllSubmatchIndex(content, -1) {
		start, end := m[4], m[5]
		for start < end && (content[start] == ' ' || content[start] == '\t') {
			start++
		}
		for end > start && (content[end-1] == ' ' || content[end-1] == '\t') {
			end--
		}
		target := string(content[start:end])
		if _, ok := NormaliseImage(target); !ok {
			continue
		}
		out = append(out, Reference{Kind: KindImage, Target: target, Start: start, End: end, Line: loc.line(start)})
	}
	return out
}
