package docstring

import (
	"regexp"
	"strings"

	"doctrans/internal/domain"
	"doctrans/internal/port"
)

var (
	numpyUnderlineRe = regexp.MustCompile(`^-{3,}$`)
	numpyEntryRe     = regexp.MustCompile(`^(\*{0,2}[A-Za-z_]\w*(?:\s*,\s*\*{0,2}[A-Za-z_]\w*)*)\s*(?::\s*(.*))?$`)
	numpyNamedRetRe  = regexp.MustCompile(`^([A-Za-z_]\w*)\s+:\s+(.+)$`)
)

var (
	numpyParamSections  = map[string]bool{"Parameters": true, "Other Parameters": true}
	numpyReturnSections = map[string]bool{"Returns": true}
)

// NumpydocGrammar handles underlined `Parameters` / `Returns` sections.
type NumpydocGrammar struct{}

func NewNumpydocGrammar() *NumpydocGrammar {
	return &NumpydocGrammar{}
}

func (g *NumpydocGrammar) Style() domain.Style { return domain.StyleNumpydoc }

// numpyHeader reports whether lines[i] is a section title underlined by
// lines[i+1].
func numpyHeader(lines []string, i int) (string, bool) {
	if i+1 >= len(lines) {
		return "", false
	}
	title := strings.TrimSpace(lines[i])
	if title == "" || !numpyUnderlineRe.MatchString(strings.TrimSpace(lines[i+1])) {
		return "", false
	}
	return title, true
}

func (g *NumpydocGrammar) Sniff(lines []string) int {
	for i := range lines {
		if title, ok := numpyHeader(lines, i); ok && (title == "Parameters" || title == "Returns") {
			return i
		}
	}
	return -1
}

func (g *NumpydocGrammar) Split(lines []string) (port.Sections, error) {
	var secs port.Sections
	i := 0
	for i < len(lines) {
		if _, ok := numpyHeader(lines, i); ok {
			break
		}
		secs.Description = append(secs.Description, lines[i])
		i++
	}
	for i < len(lines) {
		title, _ := numpyHeader(lines, i)
		j := i + 2
		for j < len(lines) {
			if _, ok := numpyHeader(lines, j); ok {
				break
			}
			j++
		}
		body := numbered(lines[i+2:j], i+2)
		switch {
		case numpyParamSections[title]:
			secs.Params = append(nonNil(secs.Params), body...)
		case numpyReturnSections[title]:
			secs.Returns = append(nonNil(secs.Returns), body...)
		default:
			secs.Description = append(secs.Description, "")
			secs.Description = append(secs.Description, lines[i:j]...)
		}
		i = j
	}
	return secs, nil
}

func (g *NumpydocGrammar) ParseParams(block []port.Line) ([]domain.Param, error) {
	start := firstNonBlank(block)
	if start < 0 {
		return nil, nil
	}
	entryIndent := indentOf(block[start].Text)

	type entry struct {
		names []string
		typ   string
		doc   docBuilder
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
			return nil, sectionError(domain.StyleNumpydoc, SectionParams, l, "line is outdented from the parameter list")
		default:
			m := numpyEntryRe.FindStringSubmatch(strings.TrimSpace(l.Text))
			if m == nil {
				return nil, sectionError(domain.StyleNumpydoc, SectionParams, l, "expected `name : type`")
			}
			cur = &entry{typ: strings.TrimSpace(m[2])}
			for _, n := range strings.Split(m[1], ",") {
				cur.names = append(cur.names, strings.TrimSpace(n))
			}
			entries = append(entries, cur)
		}
	}

	var params []domain.Param
	for _, e := range entries {
		doc := e.doc.String()
		for _, n := range e.names {
			params = append(params, domain.Param{Name: n, Typ: e.typ, Doc: doc})
		}
	}
	return params, nil
}

func (g *NumpydocGrammar) ParseReturns(block []port.Line) (*domain.Param, error) {
	start := firstNonBlank(block)
	if start < 0 {
		return nil, nil
	}
	entryIndent := indentOf(block[start].Text)

	ret := &domain.Param{Name: domain.ReturnName}
	header := strings.TrimSpace(block[start].Text)
	switch m := numpyNamedRetRe.FindStringSubmatch(header); {
	case header == domain.ReturnName:
	case m != nil:
		ret.Typ = strings.TrimSpace(m[2])
	default:
		ret.Typ = header
	}

	var doc docBuilder
	for _, l := range block[start+1:] {
		if isBlank(l.Text) {
			doc.blank()
			continue
		}
		if indentOf(l.Text) <= entryIndent {
			return nil, sectionError(domain.StyleNumpydoc, SectionReturns, l, "more than one return entry")
		}
		doc.add(l.Text)
	}
	ret.Doc = doc.String()
	return ret, nil
}

func (g *NumpydocGrammar) Render(ir domain.IR) string {
	blocks := []string{ir.Doc}
	if len(ir.Params) > 0 {
		lines := []string{"Parameters", "----------"}
		for _, p := range ir.Params {
			head := p.Name
			if p.Typ != "" {
				head += " : " + p.Typ
			}
			lines = append(lines, head)
			if p.Doc != "" {
				lines = append(lines, indentLines(p.Doc, "    ")...)
			}
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	if r := ir.Returns; r != nil {
		lines := []string{"Returns", "-------"}
		if r.Typ != "" {
			lines = append(lines, r.Typ)
		} else {
			lines = append(lines, domain.ReturnName)
		}
		if r.Doc != "" {
			lines = append(lines, indentLines(r.Doc, "    ")...)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return wrapDocstring(blocks)
}
