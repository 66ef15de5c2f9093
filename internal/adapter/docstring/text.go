package docstring

import (
	"strings"

	"doctrans/internal/port"
)

// cleandoc splits text into lines, expands tabs, strips the common
// indentation of every line after the first, left-trims the first line and
// drops leading and trailing blank lines.
func cleandoc(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", "    ")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \r")
	}

	margin := -1
	for _, l := range lines[1:] {
		if l == "" {
			continue
		}
		if n := indentOf(l); margin < 0 || n < margin {
			margin = n
		}
	}
	lines[0] = strings.TrimLeft(lines[0], " ")
	if margin > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= margin {
				lines[i] = lines[i][margin:]
			}
		}
	}

	start, end := 0, len(lines)
	for start < end && lines[start] == "" {
		start++
	}
	for end > start && lines[end-1] == "" {
		end--
	}
	return lines[start:end]
}

func indentOf(s string) int {
	return len(s) - len(strings.TrimLeft(s, " "))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func numbered(lines []string, offset int) []port.Line {
	out := make([]port.Line, len(lines))
	for i, l := range lines {
		out[i] = port.Line{No: offset + i + 1, Text: l}
	}
	return out
}

// firstNonBlank returns the index of the first non-blank line, or -1.
func firstNonBlank(block []port.Line) int {
	for i, l := range block {
		if !isBlank(l.Text) {
			return i
		}
	}
	return -1
}

// docBuilder accumulates free text. Lines are joined with a single space;
// a blank line followed by more text starts a new paragraph.
type docBuilder struct {
	paras   []string
	cur     []string
	pending bool
}

func (b *docBuilder) add(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	if b.pending && len(b.cur) > 0 {
		b.paras = append(b.paras, strings.Join(b.cur, " "))
		b.cur = nil
	}
	b.pending = false
	b.cur = append(b.cur, s)
}

func (b *docBuilder) blank() {
	b.pending = true
}

func (b *docBuilder) String() string {
	paras := b.paras
	if len(b.cur) > 0 {
		paras = append(paras, strings.Join(b.cur, " "))
	}
	return strings.Join(paras, "\n\n")
}

// joinDescription keeps description lines as written, collapses runs of
// blank lines and joins the short and long description with one blank line.
func joinDescription(lines []string) string {
	var paras []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			paras = append(paras, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	for _, l := range lines {
		if isBlank(l) {
			flush()
			continue
		}
		cur = append(cur, strings.TrimRight(l, " "))
	}
	flush()
	if len(paras) == 0 {
		return ""
	}
	short := paras[0]
	long := strings.Join(paras[1:], "\n\n")
	if long == "" {
		return short
	}
	return short + "\n\n" + long
}

// topLevelIndex returns the index of the first byte outside brackets and
// quotes for which pred holds, or -1.
func topLevelIndex(s string, pred func(byte) bool) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
			continue
		case '(', '[', '{':
			depth++
			continue
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth == 0 && pred(c) {
			return i
		}
	}
	return -1
}

// matchingParen returns the index of the bracket closing s[open], or -1.
func matchingParen(s string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// looksLikeType reports whether s can be a type expression: non-empty,
// balanced and free of whitespace outside brackets.
func looksLikeType(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if topLevelIndex(s, func(c byte) bool { return c == ' ' }) >= 0 {
		return false
	}
	return strings.Count(s, "[") == strings.Count(s, "]") &&
		strings.Count(s, "(") == strings.Count(s, ")")
}

// indentLines prefixes every non-empty line of s.
func indentLines(s, prefix string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return lines
}

// fieldLines renders head followed by doc, continuing onto indented lines.
func fieldLines(head, doc, contIndent string) []string {
	if doc == "" {
		return []string{head}
	}
	parts := strings.Split(doc, "\n")
	out := []string{head + " " + parts[0]}
	for _, p := range parts[1:] {
		if p == "" {
			out = append(out, "")
			continue
		}
		out = append(out, contIndent+p)
	}
	return out
}

// wrapDocstring joins blocks with blank lines, framed by newlines the way
// triple-quoted docstrings are conventionally laid out.
func wrapDocstring(blocks []string) string {
	var kept []string
	for _, b := range blocks {
		if b != "" {
			kept = append(kept, b)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return "\n" + strings.Join(kept, "\n\n") + "\n"
}
