package docstring

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	"doctrans/internal/domain"
)

var defaultsRe = regexp.MustCompile(`\b[Dd]efaults to\s+`)

// findDefault locates a "Defaults to <value>" clause. The value runs to the
// end of the text; exactly one closing sentence period is not part of it, so
// a value that itself ends in a period, such as the float 1., is written
// with a second one.
// head is the doc with the clause and its connecting punctuation removed.
func findDefault(doc string) (value, head string, ok bool) {
	loc := defaultsRe.FindStringIndex(doc)
	if loc == nil {
		return "", doc, false
	}
	value = strings.TrimSpace(doc[loc[1]:])
	value = strings.TrimSpace(strings.TrimSuffix(value, "."))
	if value == "" {
		return "", doc, false
	}
	head = strings.TrimRight(doc[:loc[0]], " \n,;")
	return value, head, true
}

// Reconcile fills a missing default from "Defaults to" phrasing in the doc
// and, unless emitDefaultDoc is set, strips that phrasing. A default that is
// already known is never overwritten; a disagreeing clause is an
// ErrAmbiguousDefault.
func Reconcile(p domain.Param, emitDefaultDoc bool) (domain.Param, error) {
	value, head, ok := findDefault(p.Doc)
	if !ok {
		return p, nil
	}
	out := p
	switch {
	case p.Default == "":
		out.Default = value
	case !SameDefault(p.Default, value):
		return p, &DefaultConflictError{Name: p.Name, Known: p.Default, Found: value}
	}
	if !emitDefaultDoc {
		out.Doc = head
	}
	return out, nil
}

// FromAnnotation builds a parameter from a real signature: the name, the
// annotation and the default come from source, the doc from wherever the
// caller found it. No style sniffing is involved.
func FromAnnotation(name, typeExpr, defaultExpr, doc string, emitDefaultDoc bool) (domain.Param, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Param{}, errors.New("parameter name is required")
	}
	p := domain.Param{
		Name:    name,
		Typ:     strings.TrimSpace(typeExpr),
		Default: strings.TrimSpace(defaultExpr),
		Doc:     strings.TrimSpace(doc),
	}
	return Reconcile(p, emitDefaultDoc)
}

// SameDefault reports whether two default expressions are equal, treating
// 'x' and "x" as the same string literal.
func SameDefault(a, b string) bool {
	return normalizeLiteral(a) == normalizeLiteral(b)
}

func normalizeLiteral(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' && !strings.Contains(s[1:len(s)-1], "\"") {
		return "\"" + s[1:len(s)-1] + "\""
	}
	return s
}

// withDefaultClause makes sure a known default is spelled out in the doc so
// that rendering never loses it.
func withDefaultClause(p domain.Param) string {
	if p.Default == "" {
		return p.Doc
	}
	if _, _, ok := findDefault(p.Doc); ok {
		return p.Doc
	}
	clause := p.Default
	if strings.HasSuffix(clause, ".") {
		clause += "."
	}
	doc := strings.TrimSpace(p.Doc)
	switch {
	case doc == "":
		return "Defaults to " + clause
	case strings.HasSuffix(doc, "."):
		return doc + " Defaults to " + clause
	default:
		return doc + ", defaults to " + clause
	}
}

func reconcileAll(ir *domain.IR, emitDefaultDoc bool) error {
	for i, p := range ir.Params {
		r, err := Reconcile(p, emitDefaultDoc)
		if err != nil {
			return err
		}
		ir.Params[i] = r
	}
	if ir.Returns != nil {
		r, err := Reconcile(*ir.Returns, emitDefaultDoc)
		if err != nil {
			return err
		}
		ir.Returns = &r
	}
	return nil
}
