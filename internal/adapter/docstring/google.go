package docstring

import (
	"regexp"
	"strings"

	"doctrans/internal/domain"
	"doctrans/internal/port"
)

var (
	googleHeaderRe = regexp.MustCompile(`^([A-Z][A-Za-z]*(?: [A-Za-z]+)?):$`)
	googleNameRe   = regexp.MustCompile(`^\*{0,2}[A-Za-z_][A-Za-z0-9_]*`)
)

var (
	googleParamHeaders  = map[string]bool{"Args": true, "Arguments": true, "Parameters": true, "Params": true, "Keyword Args": true, "Keyword Arguments": true}
	googleReturnHeaders = map[string]bool{"Returns": true, "Return": true}
	googleOtherHeaders  = map[string]bool{
		"Raises": true, "Yields": true, "Yield": true, "Example": true, "Examples": true,
		"Note": true, "Notes": true, "Todo": true, "Attributes": true, "Warning": true,
		"Warnings": true, "See Also": true, "References": true, "Methods": true,
	}
	googleAnchors = map[string]bool{"Args": true, "Arguments": true, "Returns": true, "Return": true}
)

func googleHeader(line string) (string, bool) {
	m := googleHeaderRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	name := m[1]
	if googleParamHeaders[name] || googleReturnHeaders[name] || googleOtherHeaders[name] {
		return name, true
	}
	return "", false
}

// GoogleGrammar handles `Args:` / `Returns:` indented sections.
type GoogleGrammar struct{}

func NewGoogleGrammar() *GoogleGrammar {
	return &GoogleGrammar{}
}

func (g *GoogleGrammar) Style() domain.Style { return domain.StyleGoogle }

func (g *GoogleGrammar) Sniff(lines []string) int {
	for i, l := range lines {
		if name, ok := googleHeader(l); ok && googleAnchors[name] {
			return i
		}
	}
	return -1
}

// Split assigns each section the lines indented deeper than its header.
// A header with nothing deeper under it, as when it opens the docstring and
// cleandoc has flattened its entries, takes the lines at its own indentation
// up to the next header instead. Sections other than arguments and returns
// stay in the description.
func (g *GoogleGrammar) Split(lines []string) (port.Sections, error) {
	var secs port.Sections
	for i := 0; i < len(lines); {
		name, ok := googleHeader(lines[i])
		if !ok {
			secs.Description = append(secs.Description, lines[i])
			i++
			continue
		}
		head := indentOf(lines[i])
		j := i + 1
		for j < len(lines) && (isBlank(lines[j]) || indentOf(lines[j]) > head) {
			j++
		}
		if !hasText(lines[i+1 : j]) {
			j = flatSectionEnd(lines, i+1, head)
		}
		body := numbered(lines[i+1:j], i+1)
		switch {
		case googleParamHeaders[name]:
			secs.Params = append(nonNil(secs.Params), body...)
		case googleReturnHeaders[name]:
			secs.Returns = append(nonNil(secs.Returns), body...)
		default:
			secs.Description = append(secs.Description, lines[i:j]...)
		}
		i = j
	}
	return secs, nil
}

func hasText(lines []string) bool {
	for _, l := range lines {
		if !isBlank(l) {
			return true
		}
	}
	return false
}

// flatSectionEnd returns the end of a section body written at its header's
// indentation: the next header, or the first line outdented from it.
func flatSectionEnd(lines []string, from, head int) int {
	j := from
	for j < len(lines) {
		if _, ok := googleHeader(lines[j]); ok {
			break
		}
		if !isBlank(lines[j]) && indentOf(lines[j]) < head {
			break
		}
		j++
	}
	return j
}

func nonNil(l []port.Line) []port.Line {
	if l == nil {
		return []port.Line{}
	}
	return l
}

func (g *GoogleGrammar) ParseParams(block []port.Line) ([]domain.Param, error) {
	start := firstNonBlank(block)
	if start < 0 {
		return nil, nil
	}
	entryIndent := indentOf(block[start].Text)

	type entry struct {
		p   domain.Param
		doc docBuilder
	}
	var entries []*entry
	var cur *entry
	for _, l := range block[start:] {
		if isBlank(l.Text) {
			if cur != nil {
				cur.doc.blank()
			}
			continue
		}
		switch n := indentOf(l.Text); {
		case n > entryIndent:
			cur.doc.add(l.Text)
		case n < entryIndent:
			return nil, sectionError(domain.StyleGoogle, SectionParams, l, "line is outdented from the argument list")
		default:
			name, typ, doc, ok := parseGoogleEntry(strings.TrimSpace(l.Text))
			if !ok {
				return nil, sectionError(domain.StyleGoogle, SectionParams, l, "expected `name (type): description`")
			}
			cur = &entry{p: domain.Param{Name: name, Typ: typ}}
			cur.doc.add(doc)
			entries = append(entries, cur)
		}
	}

	params := make([]domain.Param, 0, len(entries))
	for _, e := range entries {
		e.p.Doc = e.doc.String()
		params = append(params, e.p)
	}
	return params, nil
}

// parseGoogleEntry splits `name (type): doc`. The type parenthesis is matched
// bracket-aware so types may themselves contain parentheses or colons.
func parseGoogleEntry(s string) (name, typ, doc string, ok bool) {
	name = googleNameRe.FindString(s)
	if name == "" {
		return "", "", "", false
	}
	rest := strings.TrimLeft(s[len(name):], " ")
	if strings.HasPrefix(rest, "(") {
		end := matchingParen(rest, 0)
		if end < 0 {
			return "", "", "", false
		}
		typ = strings.TrimSpace(rest[1:end])
		rest = strings.TrimLeft(rest[end+1:], " ")
	}
	if !strings.HasPrefix(rest, ":") {
		return "", "", "", false
	}
	return name, typ, strings.TrimSpace(rest[1:]), true
}

func (g *GoogleGrammar) ParseReturns(block []port.Line) (*domain.Param, error) {
	start := firstNonBlank(block)
	if start < 0 {
		return nil, nil
	}
	ret := &domain.Param{Name: domain.ReturnName}
	var doc docBuilder

	first := strings.TrimSpace(block[start].Text)
	switch colon := topLevelIndex(first, func(c byte) bool { return c == ':' }); {
	case colon == len(first)-1 && looksLikeType(first[:colon]):
		ret.Typ = strings.TrimSpace(first[:colon])
	case colon > 0 && looksLikeType(first[:colon]):
		ret.Typ = strings.TrimSpace(first[:colon])
		doc.add(first[colon+1:])
	default:
		doc.add(first)
	}
	if ret.Typ == domain.ReturnName {
		ret.Typ = ""
	}
	for _, l := range block[start+1:] {
		if isBlank(l.Text) {
			doc.blank()
			continue
		}
		doc.add(l.Text)
	}
	ret.Doc = doc.String()
	return ret, nil
}

func (g *GoogleGrammar) Render(ir domain.IR) string {
	blocks := []string{ir.Doc}
	if len(ir.Params) > 0 {
		lines := []string{"Args:"}
		for _, p := range ir.Params {
			head := "  " + p.Name
			if p.Typ != "" {
				head += " (" + p.Typ + ")"
			}
			lines = append(lines, fieldLines(head+":", p.Doc, "    ")...)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	if r := ir.Returns; r != nil {
		typ := r.Typ
		if typ == "" {
			typ = domain.ReturnName
		}
		lines := []string{"Returns:", "  " + typ + ":"}
		if r.Doc != "" {
			lines = append(lines, indentLines(r.Doc, "    ")...)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return wrapDocstring(blocks)
}
