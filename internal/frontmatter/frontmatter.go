// Package frontmatter separates YAML front matter from a Markdown body.
package frontmatter

import (
	"bytes"
	"errors"
)

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// bodyStart is the byte offset of body within content, so positions found in
// body can be mapped back to the original document. If the document does not
// start with a frontmatter delimiter, had is false and body is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, bodyStart int, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, 0, false, nil
	}

	fmStart := len(open)
	closeLine := []byte("---" + nl)
	if bytes.HasPrefix(content[fmStart:], closeLine) {
		start := fmStart + len(closeLine)
		return []byte{}, content[start:], start, true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[fmStart:], closeSeq)
	if idx < 0 {
		// A closing delimiter at EOF without a trailing newline is still valid.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(content, tail) {
			end := len(content) - len(tail)
			return content[fmStart : end+len(nl)], []byte{}, len(content), true, nil
		}
		return nil, content, 0, false, ErrMissingClosingDelimiter
	}

	fmEnd := fmStart + idx + len(nl)
	start := fmStart + idx + len(closeSeq)
	return content[fmStart:fmEnd], content[start:], start, true, nil
}

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
