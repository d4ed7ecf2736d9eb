package markdown

import (
	"bytes"
	"slices"
	"sort"
)

// locator converts body offsets into document offsets and line numbers.
type locator struct {
	content   []byte
	bodyStart int
	newlines  []int
	cursor    int
}

func newLocator(content []byte, bodyStart int) *locator {
	l := &locator{content: content, bodyStart: bodyStart, cursor: bodyStart}
	for i, b := range content {
		if b == '\n' {
			l.newlines = append(l.newlines, i)
		}
	}
	return l
}

// line returns the 1-based line of an absolute offset.
func (l *locator) line(offset int) int {
	return sort.SearchInts(l.newlines, offset) + 1
}

// reference locates target as a destination at or after the body offset
// anchor. A negative anchor searches from the end of the previous match.
func (l *locator) reference(kind Kind, target string, anchor int) Reference {
	from := l.cursor
	if anchor >= 0 {
		from = l.bodyStart + anchor
	}
	ref := Reference{Kind: kind, Target: target, Start: -1, End: -1, Line: l.line(from)}

	start := findDestination(l.content, target, from)
	if start < 0 {
		start = findDestination(l.content, target, l.bodyStart)
	}
	if start >= 0 {
		ref.Start = start
		ref.End = start + len(target)
		ref.Line = l.line(start)
		l.cursor = ref.End
	}
	return ref
}

// within converts a reference whose offsets are relative to base (a body
// offset) into document coordinates.
func (l *locator) within(ref Reference, base int) Reference {
	if ref.Start < 0 {
		ref.Line = l.line(l.bodyStart + base)
		return ref
	}
	ref.Start += l.bodyStart + base
	ref.End += l.bodyStart + base
	ref.Line = l.line(ref.Start)
	return ref
}

// findDestination returns the offset of the first occurrence of target at
// or after from that is positioned like a destination rather than link text.
func findDestination(content []byte, target string, from int) int {
	if target == "" || from >= len(content) {
		return -1
	}
	needle := []byte(target)
	for pos := max(from, 0); pos < len(content); {
		idx := bytes.Index(content[pos:], needle)
		if idx < 0 {
			return -1
		}
		at := pos + idx
		if at == 0 || isDestinationLead(content[at-1]) {
			return at
		}
		pos = at + 1
	}
	return -1
}

func isDestinationLead(b byte) bool {
	switch b {
	case '(', '<', ' ', '\t', '"', '\'', '=', '\n':
		return true
	}
	return false
}

func sortByPosition(refs []Reference) {
	slices.SortStableFunc(refs, func(a, b Reference) int {
		if a.Line != b.Line {
			return a.Line - b.Line
		}
		return a.Start - b.Start
	})
}
