package pysource

import "strings"

// indentOf returns the visual indentation of a line, with tabs advancing to
// the next multiple of eight.
func indentOf(s string) int {
	n := 0
	for _, c := range s {
		switch c {
		case ' ':
			n++
		case '\t':
			n += 8 - n%8
		default:
			return n
		}
	}
	return n
}

func isCode(line string) bool {
	t := strings.TrimSpace(line)
	return t != "" && !strings.HasPrefix(t, "#")
}

// nextStatement returns the index of the first line at or after from that
// holds code, or len(lines).
func nextStatement(lines []string, from int) int {
	for from < len(lines) && !isCode(lines[from]) {
		from++
	}
	return from
}

// skipQuoted returns the index just past the string literal opening at s[i],
// or len(s) when it does not close on this line.
func skipQuoted(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case q:
			return j + 1
		}
	}
	return len(s)
}

// stripComment drops a trailing # comment that is not inside a string.
func stripComment(s string) string {
	for i := 0; i < len(s); {
		switch s[i] {
		case '\'', '"':
			i = skipQuoted(s, i)
		case '#':
			return strings.TrimRight(s[:i], " \t")
		default:
			i++
		}
	}
	return s
}

// indexTopLevel returns the index of the first sep outside brackets and
// string literals, or -1. An '=' that is part of a comparison does not count.
func indexTopLevel(s string, sep byte) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'', '"':
			i = skipQuoted(s, i) - 1
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		default:
			if c != sep || depth != 0 {
				continue
			}
			if sep == '=' && (i+1 < len(s) && s[i+1] == '=' || i > 0 && strings.IndexByte("=!<>", s[i-1]) >= 0) {
				continue
			}
			return i
		}
	}
	return -1
}

// splitTopLevel splits s at every sep outside brackets and string literals.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	for {
		i := indexTopLevel(s, sep)
		if i < 0 {
			return append(parts, s)
		}
		parts = append(parts, s[:i])
		s = s[i+1:]
	}
}

// matchingParen returns the index of the bracket closing s[open], or -1.
func matchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\'', '"':
			i = skipQuoted(s, i) - 1
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

// quoteState follows triple-quoted strings across lines. open is the
// delimiter still open from earlier lines, if any; the result is the one
// still open after line.
func quoteState(line, open string) string {
	i := 0
	if open != "" {
		end := strings.Index(line, open)
		if end < 0 {
			return open
		}
		i = end + len(open)
	}
	for i < len(line) {
		switch c := line[i]; c {
		case '#':
			return ""
		case '\'', '"':
			q := line[i : i+1]
			if strings.HasPrefix(line[i:], q+q+q) {
				triple := q + q + q
				end := strings.Index(line[i+3:], triple)
				if end < 0 {
					return triple
				}
				i += 3 + end + 3
				continue
			}
			i = skipQuoted(line, i)
		default:
			i++
		}
	}
	return ""
}
