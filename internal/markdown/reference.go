package markdown

// Kind distinguishes page links from image references.
type Kind string

const (
	KindLink  Kind = "link"
	KindImage Kind = "image"
)

// Reference is a raw link or image target found in a document. Start and End
// are byte offsets of Target within the document, or -1 when the target text
// could not be located verbatim (for example after entity decoding).
type Reference struct {
	Kind   Kind
	Target string
	Line   int
	Start  int
	End    int
}

// Document holds every reference found in one document, in document order.
type Document struct {
	Links     []Reference
	Images    []Reference
	Footnotes bool
}

// Options controls extraction.
type Options struct {
	// SkipPermissive disables the line scanner that recovers destinations
	// containing whitespace, which CommonMark does not accept.
	SkipPermissive bool
}
