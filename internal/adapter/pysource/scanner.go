// Package pysource finds functions, methods and classes in Python source and
// pairs their signatures with their docstrings.
package pysource

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	"doctrans/internal/domain"
)

// ModuleName is the symbol name given to a module docstring.
const ModuleName = "<module>"

const maxHeaderLines = 200

var (
	headerRe  = regexp.MustCompile(`^\s*(?:async\s+)?(def|class)\s+([A-Za-z_]\w*)`)
	fieldRe   = regexp.MustCompile(`^([A-Za-z_]\w*)\s*:\s*\S`)
	literalRe = regexp.MustCompile(`^([rRuU]?)("""|'''|"|')`)
	paramRe   = regexp.MustCompile(`^\*{0,2}[A-Za-z_]\w*$`)
)

var keywords = map[string]bool{
	"if": true, "elif": true, "else": true, "for": true, "while": true, "try": true,
	"except": true, "finally": true, "with": true, "match": true, "case": true,
	"lambda": true, "return": true, "pass": true,
}

type scope struct {
	kind   string
	name   string
	indent int
	body   int
	sym    int
}

// Scanner extracts documented symbols from Python source by line scanning.
// It understands enough of the language to find definition headers, their
// signatures and the string literal opening their body; it is not a full
// Python parser.
type Scanner struct{}

// NewScanner creates a new Python source scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan returns the module docstring (if any) followed by every def and class
// in source order.
func (s *Scanner) Scan(content string) ([]domain.Symbol, error) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	var symbols []domain.Symbol
	var stack []*scope

	i := nextStatement(lines, 0)
	if i < len(lines) && indentOf(lines[i]) == 0 {
		doc, end, ok, err := readLiteral(lines, i, strings.TrimSpace(lines[i]))
		if err != nil {
			return nil, err
		}
		if ok {
			symbols = append(symbols, domain.Symbol{
				Name:      ModuleName,
				Kind:      domain.SymbolModule,
				Line:      i + 1,
				Docstring: doc,
				HasDoc:    true,
				Params:    []domain.Param{},
			})
			i = end + 1
		}
	}

	open := ""
	for ; i < len(lines); i++ {
		line := lines[i]
		if open != "" {
			open = quoteState(line, open)
			continue
		}
		if !isCode(line) {
			continue
		}
		indent := indentOf(line)
		for len(stack) > 0 && indent <= stack[len(stack)-1].indent {
			stack = stack[:len(stack)-1]
		}
		var parent *scope
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
		}

		m := headerRe.FindStringSubmatch(line)
		if m == nil {
			if parent != nil && parent.kind == domain.SymbolClass && indent == parent.body {
				if p, ok := classField(strings.TrimSpace(line)); ok {
					addParam(&symbols[parent.sym], p)
				}
			}
			open = quoteState(line, "")
			continue
		}

		header, colon, end, err := readHeader(lines, i)
		if err != nil {
			return nil, err
		}
		sym := domain.Symbol{
			Name:   m[2],
			Kind:   domain.SymbolClass,
			Line:   i + 1,
			Parent: qualify(stack),
			Params: []domain.Param{},
		}
		if m[1] == "def" {
			params, returns, err := parseSignature(header, colon)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", i+1)
			}
			sym.Kind = domain.SymbolFunction
			if parent != nil && parent.kind == domain.SymbolClass {
				sym.Kind = domain.SymbolMethod
				if len(params) > 0 && (params[0].Name == "self" || params[0].Name == "cls") {
					params = params[1:]
				}
			}
			sym.Params = append(sym.Params, params...)
			sym.Returns = returns
		}

		sc := &scope{kind: sym.Kind, name: sym.Name, indent: indent, body: -1}
		if sc.kind == domain.SymbolMethod {
			sc.kind = domain.SymbolFunction
		}
		next := end
		if inline := strings.TrimSpace(header[colon+1:]); inline != "" {
			doc, _, ok, err := readLiteral(lines, end, inline)
			if err != nil {
				return nil, err
			}
			sym.Docstring, sym.HasDoc = doc, ok
		} else if j := nextStatement(lines, end+1); j < len(lines) && indentOf(lines[j]) > indent {
			sc.body = indentOf(lines[j])
			doc, docEnd, ok, err := readLiteral(lines, j, strings.TrimSpace(lines[j]))
			if err != nil {
				return nil, err
			}
			if ok {
				sym.Docstring, sym.HasDoc = doc, true
				next = docEnd
			}
		}

		if sym.Kind == domain.SymbolMethod && sym.Name == "__init__" {
			for _, p := range sym.Params {
				addParam(&symbols[parent.sym], p)
			}
		}
		sc.sym = len(symbols)
		symbols = append(symbols, sym)
		stack = append(stack, sc)
		i = next
	}
	return symbols, nil
}

func qualify(stack []*scope) string {
	names := make([]string, len(stack))
	for i, sc := range stack {
		names[i] = sc.name
	}
	return strings.Join(names, ".")
}

// addParam appends p unless the symbol already has a parameter of that name.
func addParam(sym *domain.Symbol, p domain.Param) {
	for _, q := range sym.Params {
		if q.Name == p.Name {
			return
		}
	}
	sym.Params = append(sym.Params, p)
}

// readHeader joins the physical lines of a def or class header until its
// brackets balance and the block colon appears.
func readHeader(lines []string, at int) (header string, colon, end int, err error) {
	var b strings.Builder
	for k := at; k < len(lines) && k < at+maxHeaderLines; k++ {
		part := strings.TrimSpace(stripComment(lines[k]))
		part = strings.TrimSuffix(part, "\\")
		if b.Len() > 0 && part != "" {
			b.WriteByte(' ')
		}
		b.WriteString(part)
		header = b.String()
		if c := indexTopLevel(header, ':'); c >= 0 {
			return header, c, k, nil
		}
	}
	return "", 0, at, errors.Newf("line %d: definition header never closes", at+1)
}

// parseSignature splits `def name(params) -> ret:` into parameter and
// return records.
func parseSignature(header string, colon int) ([]domain.Param, *domain.Param, error) {
	open := strings.IndexByte(header, '(')
	if open < 0 || open > colon {
		return nil, nil, errors.New("missing parameter list")
	}
	closing := matchingParen(header, open)
	if closing < 0 || closing > colon {
		return nil, nil, errors.New("unbalanced parameter list")
	}

	var params []domain.Param
	for _, item := range splitTopLevel(header[open+1:closing], ',') {
		p, ok := parseParam(item)
		if !ok {
			continue
		}
		params = append(params, p)
	}

	var returns *domain.Param
	if after := strings.TrimSpace(header[closing+1 : colon]); strings.HasPrefix(after, "->") {
		returns = &domain.Param{Name: domain.ReturnName, Typ: strings.TrimSpace(after[2:])}
	}
	return params, returns, nil
}

// parseParam reads `name[: annotation][= default]`. Bare `*` and `/`
// markers are not parameters.
func parseParam(item string) (domain.Param, bool) {
	item = strings.TrimSpace(item)
	if item == "" || item == "*" || item == "/" {
		return domain.Param{}, false
	}
	var p domain.Param
	left := item
	if eq := indexTopLevel(item, '='); eq >= 0 {
		p.Default = strings.TrimSpace(item[eq+1:])
		left = item[:eq]
	}
	if c := indexTopLevel(left, ':'); c >= 0 {
		p.Typ = strings.TrimSpace(left[c+1:])
		left = left[:c]
	}
	p.Name = strings.TrimSpace(left)
	return p, paramRe.MatchString(p.Name)
}

// classField reads an annotated class attribute such as `x: int = 0`.
func classField(s string) (domain.Param, bool) {
	m := fieldRe.FindStringSubmatch(s)
	if m == nil || keywords[m[1]] {
		return domain.Param{}, false
	}
	return parseParam(stripComment(s))
}

// readLiteral reads the string literal that text starts with, continuing
// past line at for triple-quoted strings. It returns the raw literal body
// and the line the literal ends on. ok is false when text does not start
// with a string literal.
func readLiteral(lines []string, at int, text string) (doc string, end int, ok bool, err error) {
	m := literalRe.FindStringSubmatch(text)
	if m == nil {
		return "", at, false, nil
	}
	q := m[2]
	rest := text[len(m[0]):]
	if len(q) == 1 {
		for i := 0; i < len(rest); i++ {
			switch rest[i] {
			case '\\':
				i++
			case q[0]:
				return rest[:i], at, true, nil
			}
		}
		return "", at, false, nil
	}
	if i := strings.Index(rest, q); i >= 0 {
		return rest[:i], at, true, nil
	}

	var b strings.Builder
	b.WriteString(rest)
	for k := at + 1; k < len(lines); k++ {
		b.WriteByte('\n')
		if i := strings.Index(lines[k], q); i >= 0 {
			b.WriteString(lines[k][:i])
			return b.String(), k, true, nil
		}
		b.WriteString(lines[k])
	}
	return "", at, false, errors.Newf("line %d: unterminated docstring", at+1)
}
