package markdown

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlReferences returns anchor and image targets found in a raw HTML
// fragment. Offsets are relative to raw.
func htmlReferences(raw []byte) []Reference {
	if !bytes.Contains(raw, []byte("<")) {
		return nil
	}
	root, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil
	}

	var out []Reference
	cursor := 0
	goquery.NewDocumentFromNode(root).Find("a[href], img[src]").Each(func(_ int, sel *goquery.Selection) {
		node := sel.Get(0)
		kind, attr := KindLink, "href"
		if node.DataAtom == atom.Img {
			kind, attr = KindImage, "src"
		}
		target, _ := sel.Attr(attr)
		ref := Reference{Kind: kind, Target: target, Start: -1, End: -1}
		if start := findDestination(raw, target, cursor); start >= 0 {
			ref.Start, ref.End = start, start+len(target)
			cursor = ref.End
		}
		out = append(out, ref)
	})
	return out
}
