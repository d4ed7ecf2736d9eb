// Package markdown extracts link and image references from documentation
// sources and normalises link targets.
package markdown

import (
	"bytes"
	"errors"
	"regexp"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/navaudit/internal/frontmatter"
)

var footnotePattern = regexp.MustCompile(`\[\^[^\]]+\]`)

func newParser() goldmark.Markdown {
	// Footnote syntax must not be mistaken for reference-style links.
	return goldmark.New(goldmark.WithExtensions(extension.Footnote))
}

// ParseBody parses a Markdown body (frontmatter already removed) into a Goldmark AST.
func ParseBody(body []byte) gmast.Node {
	return newParser().Parser().Parse(text.NewReader(body), parser.WithContext(parser.NewContext()))
}

// Extract returns every link and image reference in content with its line
// and byte offsets. Front matter is skipped; offsets and lines refer to the
// full content.
func Extract(content []byte, opts Options) (Document, error) {
	_, body, bodyStart, _, err := frontmatter.Split(content)
	if err != nil && !errors.Is(err, frontmatter.ErrMissingClosingDelimiter) {
		return Document{}, err
	}

	loc := newLocator(content, bodyStart)
	doc := Document{Footnotes: HasFootnotes(content)}

	root := ParseBody(body)
	seen := make(map[refKey]bool)
	add := func(ref Reference) {
		key := refKey{kind: ref.Kind, target: ref.Target, start: ref.Start}
		if ref.Start >= 0 && seen[key] {
			return
		}
		seen[key] = true
		switch ref.Kind {
		case KindImage:
			doc.Images = append(doc.Images, ref)
		default:
			doc.Links = append(doc.Links, ref)
		}
	}

	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.Link:
			add(loc.reference(KindLink, string(node.Destination), anchorOffset(node)))
		case *gmast.Image:
			add(loc.reference(KindImage, string(node.Destination), anchorOffset(node)))
		case *gmast.AutoLink:
			if node.AutoLinkType == gmast.AutoLinkURL {
				add(loc.reference(KindLink, string(node.URL(body)), anchorOffset(node)))
			}
		case *gmast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				for _, ref := range htmlReferences(seg.Value(body)) {
					add(loc.within(ref, seg.Start))
				}
			}
		case *gmast.HTMLBlock:
			for _, frag := range htmlBlockFragments(node, body) {
				for _, ref := range htmlReferences(frag.raw) {
					add(loc.within(ref, frag.start))
				}
			}
		}
		return gmast.WalkContinue, nil
	})

	if !opts.SkipPermissive {
		for _, ref := range extractPermissive(body) {
			add(loc.within(ref, 0))
		}
		sortByPosition(doc.Links)
		sortByPosition(doc.Images)
	}

	return doc, nil
}

// HasFootnotes reports whether content uses footnote references or definitions.
func HasFootnotes(content []byte) bool {
	return footnotePattern.Match(content)
}

type refKey struct {
	kind   Kind
	target string
	start  int
}

type fragment struct {
	raw   []byte
	start int
}

// htmlBlockFragments returns the HTML block text as one fragment per
// contiguous run of lines so offsets stay exact.
func htmlBlockFragments(node *gmast.HTMLBlock, body []byte) []fragment {
	var out []fragment
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if n := len(out); n > 0 && out[n-1].start+len(out[n-1].raw) == seg.Start {
			out[n-1].raw = append(out[n-1].raw, seg.Value(body)...)
			continue
		}
		out = append(out, fragment{raw: bytes.Clone(seg.Value(body)), start: seg.Start})
	}
	if node.HasClosure() {
		seg := node.ClosureLine
		out = append(out, fragment{raw: bytes.Clone(seg.Value(body)), start: seg.Start})
	}
	return out
}

// anchorOffset returns a body offset at or before where a node's
// destination appears: its first text segment, or the start of the
// enclosing block when the node has no text.
func anchorOffset(n gmast.Node) int {
	offset := -1
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if t, ok := c.(*gmast.Text); ok && entering {
			offset = t.Segment.Start
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	if offset >= 0 {
		return offset
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == gmast.TypeBlock && p.Lines().Len() > 0 {
			return p.Lines().At(0).Start
		}
	}
	return -1
}
