package docstring

import (
	"regexp"
	"strings"

	"doctrans/internal/domain"
	"doctrans/internal/port"
)

var (
	restFieldRe = regexp.MustCompile(`^:([A-Za-z]+)([^:]*):(.*)$`)
	identRe     = regexp.MustCompile(`^\*{0,2}[A-Za-z_][A-Za-z0-9_]*$`)
)

const fence = "```"

var (
	restParamKinds  = map[string]bool{"param": true, "parameter": true, "arg": true, "argument": true, "key": true, "keyword": true}
	restReturnKinds = map[string]bool{"return": true, "returns": true, "rtype": true}
	restOtherKinds  = map[string]bool{
		"type": true, "raises": true, "raise": true, "except": true, "exception": true,
		"var": true, "ivar": true, "cvar": true, "vartype": true, "meta": true,
		"yield": true, "yields": true, "ytype": true,
	}
)

type restField struct {
	kind string
	arg  string
	body string
}

// parseRestField recognises `:kind arg: body` lines. Unknown kinds are not
// fields, so inline roles and prose such as "Example: foo" stay text.
func parseRestField(s string) (restField, bool) {
	m := restFieldRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return restField{}, false
	}
	kind := strings.ToLower(m[1])
	if !restParamKinds[kind] && !restReturnKinds[kind] && !restOtherKinds[kind] {
		return restField{}, false
	}
	return restField{kind: kind, arg: strings.TrimSpace(m[2]), body: strings.TrimSpace(m[3])}, true
}

// ReSTGrammar handles Sphinx field lists with ```-fenced types.
type ReSTGrammar struct{}

func NewReSTGrammar() *ReSTGrammar {
	return &ReSTGrammar{}
}

func (g *ReSTGrammar) Style() domain.Style { return domain.StyleReST }

func (g *ReSTGrammar) Sniff(lines []string) int {
	for i, l := range lines {
		if f, ok := parseRestField(l); ok && (restParamKinds[f.kind] || restReturnKinds[f.kind] || f.kind == "type") {
			return i
		}
	}
	return -1
}

func (g *ReSTGrammar) Split(lines []string) (port.Sections, error) {
	const (
		groupParams = iota
		groupReturns
		groupSkip
	)
	var secs port.Sections

	first := -1
	for i, l := range lines {
		if _, ok := parseRestField(l); ok {
			first = i
			break
		}
	}
	if first < 0 {
		secs.Description = lines
		return secs, nil
	}
	secs.Description = lines[:first]

	group := groupSkip
	for i := first; i < len(lines); i++ {
		if f, ok := parseRestField(lines[i]); ok {
			switch {
			case restParamKinds[f.kind] || f.kind == "type":
				group = groupParams
			case restReturnKinds[f.kind]:
				group = groupReturns
			default:
				group = groupSkip
			}
		}
		ln := port.Line{No: i + 1, Text: lines[i]}
		switch group {
		case groupParams:
			secs.Params = append(secs.Params, ln)
		case groupReturns:
			secs.Returns = append(secs.Returns, ln)
		}
	}
	return secs, nil
}

func (g *ReSTGrammar) ParseParams(block []port.Line) ([]domain.Param, error) {
	if block == nil {
		return nil, nil
	}
	c := newRestCollector(SectionParams)
	for _, l := range block {
		handled, err := c.common(l)
		if err != nil {
			return nil, err
		}
		if handled {
			continue
		}
		f, _ := parseRestField(l.Text)
		switch {
		case restParamKinds[f.kind]:
			fields := strings.Fields(f.arg)
			if len(fields) == 0 {
				return nil, sectionError(domain.StyleReST, SectionParams, l, "missing parameter name")
			}
			name := fields[len(fields)-1]
			if !identRe.MatchString(name) {
				return nil, sectionError(domain.StyleReST, SectionParams, l, "invalid parameter name")
			}
			e := c.entry(name)
			if e.hasDoc {
				return nil, sectionError(domain.StyleReST, SectionParams, l, "duplicate :param: field")
			}
			e.hasDoc = true
			e.doc.add(f.body)
			c.cur = e
			if len(fields) > 1 {
				if err := c.setType(e, strings.Join(fields[:len(fields)-1], " "), l); err != nil {
					return nil, err
				}
			}
		case f.kind == "type":
			if !identRe.MatchString(f.arg) {
				return nil, sectionError(domain.StyleReST, SectionParams, l, "invalid parameter name")
			}
			e := c.entry(f.arg)
			c.cur = e
			if err := c.setType(e, f.body, l); err != nil {
				return nil, err
			}
		default:
			return nil, sectionError(domain.StyleReST, SectionParams, l, "unexpected :"+f.kind+": field")
		}
	}
	if err := c.finish(); err != nil {
		return nil, err
	}

	params := make([]domain.Param, 0, len(c.entries))
	for _, e := range c.entries {
		params = append(params, e.param())
	}
	return params, nil
}

func (g *ReSTGrammar) ParseReturns(block []port.Line) (*domain.Param, error) {
	if block == nil {
		return nil, nil
	}
	c := newRestCollector(SectionReturns)
	for _, l := range block {
		handled, err := c.common(l)
		if err != nil {
			return nil, err
		}
		if handled {
			continue
		}
		f, _ := parseRestField(l.Text)
		e := c.entry(domain.ReturnName)
		c.cur = e
		switch f.kind {
		case "return", "returns":
			if e.hasDoc {
				return nil, sectionError(domain.StyleReST, SectionReturns, l, "duplicate :return: field")
			}
			e.hasDoc = true
			e.doc.add(f.body)
		case "rtype":
			if err := c.setType(e, f.body, l); err != nil {
				return nil, err
			}
		default:
			return nil, sectionError(domain.StyleReST, SectionReturns, l, "unexpected :"+f.kind+": field")
		}
	}
	if err := c.finish(); err != nil {
		return nil, err
	}
	if len(c.entries) == 0 {
		return nil, nil
	}
	p := c.entries[0].param()
	return &p, nil
}

func (g *ReSTGrammar) Render(ir domain.IR) string {
	blocks := []string{ir.Doc}
	for _, p := range ir.Params {
		lines := fieldLines(":param "+p.Name+":", p.Doc, "    ")
		if p.Typ != "" {
			lines = append(lines, ":type "+p.Name+": "+fence+p.Typ+fence)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	if r := ir.Returns; r != nil {
		var lines []string
		if r.Doc != "" || r.Typ == "" {
			lines = fieldLines(":return:", r.Doc, "    ")
		}
		if r.Typ != "" {
			lines = append(lines, ":rtype: "+fence+r.Typ+fence)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return wrapDocstring(blocks)
}

type restEntry struct {
	name   string
	typ    string
	hasTyp bool
	hasDoc bool
	doc    docBuilder
}

func (e *restEntry) param() domain.Param {
	return domain.Param{Name: e.name, Typ: e.typ, Doc: e.doc.String()}
}

// restCollector gathers field lines into entries keyed by name, in order of
// first mention, tracking multi-line ``` fences.
type restCollector struct {
	section   string
	entries   []*restEntry
	byName    map[string]*restEntry
	cur       *restEntry
	fenced    *restEntry
	fenceBuf  []string
	fenceLine port.Line
}

func newRestCollector(section string) *restCollector {
	return &restCollector{section: section, byName: make(map[string]*restEntry)}
}

func (c *restCollector) entry(name string) *restEntry {
	if e, ok := c.byName[name]; ok {
		return e
	}
	e := &restEntry{name: name}
	c.byName[name] = e
	c.entries = append(c.entries, e)
	return e
}

// common handles open fences, blank lines and continuation text. It reports
// false when l is a field line the caller must interpret.
func (c *restCollector) common(l port.Line) (bool, error) {
	if c.fenced != nil {
		return true, c.continueFence(l)
	}
	if isBlank(l.Text) {
		if c.cur != nil {
			c.cur.doc.blank()
		}
		return true, nil
	}
	if _, ok := parseRestField(l.Text); ok {
		return false, nil
	}
	if c.cur == nil {
		return true, c.err(l, "text before the first field")
	}
	c.cur.doc.add(l.Text)
	return true, nil
}

func (c *restCollector) setType(e *restEntry, body string, l port.Line) error {
	if e.hasTyp {
		return c.err(l, "duplicate type for "+e.name)
	}
	e.hasTyp = true
	switch {
	case strings.HasPrefix(body, fence):
		rest := body[len(fence):]
		if end := strings.Index(rest, fence); end >= 0 {
			if strings.TrimSpace(rest[end+len(fence):]) != "" {
				return c.err(l, "text after closing ``` fence")
			}
			e.typ = restType(rest[:end])
			return nil
		}
		c.fenced, c.fenceLine = e, l
		c.fenceBuf = []string{strings.TrimSpace(rest)}
	case strings.HasPrefix(body, "`") || strings.HasSuffix(body, "`"):
		if len(body) < 2 || !strings.HasPrefix(body, "`") || !strings.HasSuffix(body, "`") || strings.Count(body, "`")%2 != 0 {
			return c.err(l, "unbalanced backtick fence")
		}
		e.typ = restType(strings.Trim(body, "`"))
	default:
		e.typ = restType(body)
	}
	return nil
}

// restType cleans a :type: body. A keyword-argument splat such as
// **kwargs names the dict it collects.
func restType(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "**") && identRe.MatchString(s) {
		return "dict"
	}
	return s
}

func (c *restCollector) continueFence(l port.Line) error {
	t := strings.TrimSpace(l.Text)
	end := strings.Index(t, fence)
	if end < 0 {
		c.fenceBuf = append(c.fenceBuf, t)
		return nil
	}
	if strings.TrimSpace(t[end+len(fence):]) != "" {
		return c.err(l, "text after closing ``` fence")
	}
	c.fenceBuf = append(c.fenceBuf, strings.TrimSpace(t[:end]))
	var parts []string
	for _, p := range c.fenceBuf {
		if p != "" {
			parts = append(parts, p)
		}
	}
	c.fenced.typ = restType(strings.Join(parts, " "))
	c.fenced = nil
	return nil
}

func (c *restCollector) finish() error {
	if c.fenced != nil {
		return c.err(c.fenceLine, "unterminated ``` fence")
	}
	return nil
}

func (c *restCollector) err(l port.Line, reason string) error {
	return sectionError(domain.StyleReST, c.section, l, reason)
}
