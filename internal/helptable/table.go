// Package helptable reads the external-reference table: a C header that maps
// symbolic help keys to documentation page paths through HELP_URL entries
// and #define string macros.
package helptable

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
	"unicode"

	ferrors "git.home.luguber.info/inful/navaudit/internal/foundation/errors"
)

const entryMacro = "HELP_URL"

var definePattern = regexp.MustCompile(`(?m)^[ \t]*#[ \t]*define[ \t]+([A-Za-z_][A-Za-z0-9_]*)[ \t]+(.*?)[ \t]*$`)

// Entry is one HELP_URL entry. Target is the macro-expanded page path, or
// empty when Err is set.
type Entry struct {
	Key    string
	Expr   string
	Target string
	Line   int
	Err    error
}

// Table is a parsed external-reference table.
type Table struct {
	Path    string
	Entries []Entry
	Macros  map[string]string
}

// Load reads and parses the table at path. Only an unreadable file is an
// error; per-entry problems are recorded on the entries.
func Load(path string) (*Table, error) {
	// #nosec G304 -- path is supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "cannot read external-reference table").
			Fatal().WithContext("path", path).Build()
	}
	t := Parse(data)
	t.Path = path
	return t, nil
}

// Parse parses table source. Macros are expanded in definition order, so a
// macro may only refer to macros defined above it.
func Parse(src []byte) *Table {
	clean := blankComments(src)
	lines := newlineIndex(clean)
	t := &Table{Macros: make(map[string]string)}

	type define struct {
		name, expr string
		at         int
	}
	var defines []define
	for _, m := range definePattern.FindAllSubmatchIndex(clean, -1) {
		defines = append(defines, define{
			name: string(clean[m[2]:m[3]]),
			expr: string(clean[m[4]:m[5]]),
			at:   m[0],
		})
	}

	entries := scanEntries(clean)
	di := 0
	for _, raw := range entries {
		for di < len(defines) && defines[di].at < raw.at {
			d := defines[di]
			if v, err := expand(d.expr, t.Macros); err == nil {
				t.Macros[d.name] = v
			}
			di++
		}
		e := Entry{Key: raw.key, Expr: raw.expr, Line: lineOf(lines, raw.at), Err: raw.err}
		if e.Err == nil {
			e.Target, e.Err = expand(raw.expr, t.Macros)
		}
		if e.Err != nil {
			e.Err = ferrors.WrapError(e.Err, ferrors.CategoryTable, "cannot expand table entry").
				Warning().
				WithContext("key", e.Key).
				WithContext("line", e.Line).
				Build()
		}
		t.Entries = append(t.Entries, e)
	}
	for ; di < len(defines); di++ {
		if v, err := expand(defines[di].expr, t.Macros); err == nil {
			t.Macros[defines[di].name] = v
		}
	}
	return t
}

// ContentPath returns the entry target as a monorepo-relative file path:
// the content directory is inserted after the first segment and ext is
// appended.
func ContentPath(target, contentDir, ext string) string {
	target = strings.Trim(target, "/")
	first, rest, _ := strings.Cut(target, "/")
	return path.Join(first, contentDir, rest) + ext
}

// expand concatenates the quoted literals and macro values of expr.
func expand(expr string, macros map[string]string) (string, error) {
	var b strings.Builder
	s := strings.TrimSpace(expr)
	if s == "" {
		return "", fmt.Errorf("%w: empty expression", ErrMalformedEntry)
	}
	for len(s) > 0 {
		switch {
		case s[0] == ' ' || s[0] == '\t' || s[0] == '\n' || s[0] == '\r':
			s = s[1:]
		case s[0] == '"':
			lit, rest, ok := cutQuoted(s)
			if !ok {
				return "", fmt.Errorf("%w: unterminated string in %q", ErrMalformedEntry, expr)
			}
			b.WriteString(lit)
			s = rest
		default:
			end := strings.IndexAny(s, " \t\r\n\"")
			if end < 0 {
				end = len(s)
			}
			tok := s[:end]
			s = s[end:]
			if v, ok := macros[tok]; ok {
				b.WriteString(v)
				continue
			}
			if isIdentifier(tok) {
				return "", fmt.Errorf("%w: %s", ErrUnresolvedMacro, tok)
			}
			// Bare path text is taken literally.
			b.WriteString(tok)
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// cutQuoted returns the unescaped contents of the leading string literal of
// s and the remainder after it.
func cutQuoted(s string) (string, string, bool) {
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			}
		case '"':
			return b.String(), s[i+1:], true
		case '\n':
			return "", "", false
		default:
			b.WriteByte(s[i])
		}
	}
	return "", "", false
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

type rawEntry struct {
	key  string
	expr string
	at   int
	err  error
}

// scanEntries finds every HELP_URL(key, expr) invocation.
func scanEntries(src []byte) []rawEntry {
	var out []rawEntry
	needle := []byte(entryMacro)
	for pos := 0; ; {
		idx := bytes.Index(src[pos:], needle)
		if idx < 0 {
			return out
		}
		at := pos + idx
		pos = at + len(needle)
		if at > 0 && isIdentByte(src[at-1]) || pos < len(src) && isIdentByte(src[pos]) {
			continue
		}
		if lineStartsWithDefine(src, at) {
			continue
		}
		entry, next := parseInvocation(src, pos)
		entry.at = at
		out = append(out, entry)
		pos = next
	}
}

func parseInvocation(src []byte, pos int) (rawEntry, int) {
	malformed := func(next int) (rawEntry, int) {
		return rawEntry{err: fmt.Errorf("%w: expected %s(\"key\", path)", ErrMalformedEntry, entryMacro)}, next
	}
	i := skipSpace(src, pos)
	if i >= len(src) || src[i] != '(' {
		return malformed(pos)
	}
	i = skipSpace(src, i+1)
	if i >= len(src) || src[i] != '"' {
		return malformed(i)
	}
	key, rest, ok := cutQuoted(string(src[i:]))
	if !ok {
		return malformed(i + 1)
	}
	i = len(src) - len(rest)
	i = skipSpace(src, i)
	if i >= len(src) || src[i] != ',' {
		return malformed(i)
	}
	i++

	start := i
	inString := false
	for ; i < len(src); i++ {
		c := src[i]
		switch {
		case inString && c == '\\':
			i++
		case c == '"':
			inString = !inString
		case !inString && c == ')':
			return rawEntry{key: key, expr: strings.TrimSpace(string(src[start:i]))}, i + 1
		}
	}
	e, _ := malformed(len(src))
	e.key = key
	return e, len(src)
}

func lineStartsWithDefine(src []byte, at int) bool {
	lineStart := bytes.LastIndexByte(src[:at], '\n') + 1
	return bytes.HasPrefix(bytes.TrimLeft(src[lineStart:at], " \t"), []byte("#"))
}

func skipSpace(src []byte, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t' || src[i] == '\n' || src[i] == '\r') {
		i++
	}
	return i
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func newlineIndex(src []byte) []int {
	var idx []int
	for i, b := range src {
		if b == '\n' {
			idx = append(idx, i)
		}
	}
	return idx
}

func lineOf(newlines []int, offset int) int {
	return sort.SearchInts(newlines, offset) + 1
}
