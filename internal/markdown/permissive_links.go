package markdown

import "strings"

// extractPermissive recovers link and image destinations that contain
// whitespace. CommonMark rejects them but the site generator accepts them,
// so they must still be audited. Offsets are relative to body.
func extractPermissive(body []byte) []Reference {
	inCodeBlock := false
	activeFence := ""

	out := make([]Reference, 0)
	lineStart := 0
	for _, line := range strings.SplitAfter(string(body), "\n") {
		offset := lineStart
		lineStart += len(line)
		line = strings.TrimRight(line, "\r\n")

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "```")
			continue
		}
		if strings.HasPrefix(trimmed, "~~~") {
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "~~~")
			continue
		}
		if inCodeBlock || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			continue
		}

		clean := blankInlineCodeSpans(line)
		for _, ref := range scanLine(clean) {
			ref.Start += offset
			ref.End += offset
			out = append(out, ref)
		}
	}

	return out
}

func scanLine(line string) []Reference {
	var out []Reference
	for i := 0; i+1 < len(line); i++ {
		if line[i] != ']' || line[i+1] != '(' {
			continue
		}
		open := strings.LastIndexByte(line[:i], '[')
		if open < 0 {
			continue
		}
		kind := KindLink
		if open > 0 && line[open-1] == '!' {
			kind = KindImage
		}
		end := strings.IndexByte(line[i+2:], ')')
		if end < 0 {
			continue
		}
		start := i + 2
		target := line[start : start+end]
		target, start = trimDestination(target, start)
		if !containsWhitespace(target) {
			continue
		}
		out = append(out, Reference{Kind: kind, Target: target, Start: start, End: start + len(target)})
	}
	out = append(out, referenceDefinition(line)...)
	return out
}

// trimDestination drops angle brackets and a trailing quoted title.
func trimDestination(target string, start int) (string, int) {
	lead := len(target) - len(strings.TrimLeft(target, " \t"))
	target = strings.TrimSpace(target)
	start += lead
	if strings.HasPrefix(target, "<") {
		if end := strings.IndexByte(target, '>'); end > 0 {
			return target[1:end], start + 1
		}
	}
	for _, q := range []string{` "`, ` '`} {
		if before, _, ok := strings.Cut(target, q); ok {
			target = strings.TrimRight(before, " \t")
		}
	}
	return target, start
}

func referenceDefinition(line string) []Reference {
	lead := len(line) - len(strings.TrimLeft(line, " \t"))
	trimmed := line[lead:]
	if !strings.HasPrefix(trimmed, "[") {
		return nil
	}

	label, after, ok := strings.Cut(trimmed, "]:")
	if !ok {
		return nil
	}

	// Footnote definitions look like: [^1]: ...
	if strings.HasPrefix(strings.TrimSpace(label), "[^") {
		return nil
	}

	start := lead + len(label) + 2
	target, start := trimDestination(after, start)
	if target == "" || !containsWhitespace(target) {
		return nil
	}

	return []Reference{{Kind: KindLink, Target: target, Start: start, End: start + len(target)}}
}

func containsWhitespace(s string) bool {
	return strings.ContainsAny(s, " \t")
}

func toggleFencedBlock(inCodeBlock bool, activeFence string, fence string) (bool, string) {
	if !inCodeBlock {
		return true, fence
	}
	if activeFence == fence {
		return false, ""
	}
	return inCodeBlock, activeFence
}

// blankInlineCodeSpans replaces code spans with spaces so byte offsets into
// the line remain valid.
func blankInlineCodeSpans(s string) string {
	if !strings.Contains(s, "`") {
		return s
	}

	out := []byte(s)
	for i := 0; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}

		run := 1
		for i+run < len(s) && s[i+run] == '`' {
			run++
		}

		marker := strings.Repeat("`", run)
		closeRel := strings.Index(s[i+run:], marker)
		if closeRel == -1 {
			i += run
			continue
		}

		end := i + run + closeRel + run
		for j := i; j < end; j++ {
			out[j] = ' '
		}
		i = end
	}

	return string(out)
}
