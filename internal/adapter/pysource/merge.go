package pysource

import (
	"strings"

	"doctrans/internal/adapter/docstring"
	"doctrans/internal/domain"
)

func paramKey(name string) string {
	return strings.TrimLeft(name, "*")
}

// Merge combines a parsed docstring with a real signature. Signature
// parameters come first and in signature order, followed by parameters only
// the docstring mentions. The signature supplies the name, the annotation and
// the default; the docstring supplies the doc and any type the signature
// leaves out. A docstring default that disagrees with the signature is an
// ErrAmbiguousDefault.
func Merge(doc domain.IR, sig []domain.Param, returns *domain.Param, emitDefaultDoc bool) (domain.IR, error) {
	out := doc.Clone()
	out.Params = make([]domain.Param, 0, len(sig)+len(doc.Params))

	byKey := make(map[string]domain.Param, len(doc.Params))
	for _, p := range doc.Params {
		byKey[paramKey(p.Name)] = p
	}
	used := make(map[string]bool, len(sig))

	for _, sp := range sig {
		key := paramKey(sp.Name)
		dp := byKey[key]
		used[key] = true

		typ := sp.Typ
		if typ == "" {
			typ = dp.Typ
		}
		p, err := docstring.FromAnnotation(sp.Name, typ, sp.Default, dp.Doc, emitDefaultDoc)
		if err != nil {
			return domain.IR{}, err
		}
		switch {
		case p.Default == "":
			p.Default = dp.Default
		case dp.Default != "" && !docstring.SameDefault(dp.Default, p.Default):
			return domain.IR{}, &docstring.DefaultConflictError{Name: p.Name, Known: p.Default, Found: dp.Default}
		}
		out.Params = append(out.Params, p)
	}
	for _, dp := range doc.Params {
		if !used[paramKey(dp.Name)] {
			out.Params = append(out.Params, dp)
		}
	}

	if returns != nil && returns.Typ != "" {
		switch {
		case out.Returns != nil:
			out.Returns.Typ = returns.Typ
		case returns.Typ != "None":
			r := *returns
			out.Returns = &r
		}
	}
	return out, nil
}

// SymbolIR builds the IR for one scanned symbol from its parsed docstring.
func SymbolIR(sym domain.Symbol, doc domain.IR, emitDefaultDoc bool) (domain.IR, error) {
	ir, err := Merge(doc, sym.Params, sym.Returns, emitDefaultDoc)
	if err != nil {
		return domain.IR{}, err
	}
	ir.Name = sym.QualifiedName()
	switch sym.Kind {
	case domain.SymbolClass:
		ir.Type = domain.KindClass
	case domain.SymbolMethod:
		ir.Type = domain.KindMethod
	default:
		ir.Type = domain.KindStatic
	}
	return ir, nil
}
