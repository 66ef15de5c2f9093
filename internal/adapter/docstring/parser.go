// Package docstring converts Python docstrings in reST, Google or numpydoc
// style to and from the shared IR.
package docstring

import (
	"github.com/cockroachdb/errors"

	"doctrans/internal/domain"
	"doctrans/internal/port"
)

// Parser owns one grammar per structured style. It holds no mutable state
// and is safe for concurrent use.
type Parser struct {
	grammars []port.Grammar
	byStyle  map[domain.Style]port.Grammar
}

// NewParser creates a parser over the given grammars, or the built-in reST,
// Google and numpydoc grammars when none are passed.
func NewParser(grammars ...port.Grammar) *Parser {
	if len(grammars) == 0 {
		grammars = defaultGrammars()
	}
	byStyle := make(map[domain.Style]port.Grammar, len(grammars))
	for _, g := range grammars {
		byStyle[g.Style()] = g
	}
	return &Parser{grammars: grammars, byStyle: byStyle}
}

var defaultParser = NewParser()

// Parse parses text with the built-in grammars.
func Parse(text string, opts domain.ParseOptions) (domain.IR, error) {
	return defaultParser.Parse(text, opts)
}

// Sniff classifies text with the built-in grammars.
func Sniff(text string) (domain.Style, error) {
	return defaultParser.Sniff(text)
}

// Render renders ir with the built-in grammars.
func Render(ir domain.IR, style domain.Style) (string, error) {
	return defaultParser.Render(ir, style)
}

// Sniff reports which convention text follows.
func (p *Parser) Sniff(text string) (domain.Style, error) {
	return sniffLines(p.grammars, cleandoc(text))
}

// Parse turns a raw docstring into IR. Text without any section anchors
// yields an IR carrying only the description.
func (p *Parser) Parse(text string, opts domain.ParseOptions) (domain.IR, error) {
	ir := domain.IR{Type: domain.KindStatic, Params: []domain.Param{}}
	lines := cleandoc(text)
	if len(lines) == 0 {
		return ir, nil
	}

	style, err := sniffLines(p.grammars, lines)
	if err != nil {
		return domain.IR{}, err
	}
	if opts.Style != "" && style != opts.Style {
		if style != domain.StyleNone {
			return domain.IR{}, errors.WithHint(
				errors.Wrapf(ErrUnrecognizedFormat, "docstring looks like %s, not %s", style, opts.Style),
				"drop the style hint to sniff the docstring")
		}
		style = opts.Style
	}
	if style == domain.StyleNone {
		ir.Doc = joinDescription(lines)
		return ir, nil
	}

	g, ok := p.byStyle[style]
	if !ok {
		return domain.IR{}, errors.Wrapf(ErrUnrecognizedFormat, "no grammar for style %q", style)
	}
	secs, err := g.Split(lines)
	if err != nil {
		return domain.IR{}, err
	}
	params, err := g.ParseParams(secs.Params)
	if err != nil {
		return domain.IR{}, err
	}
	returns, err := g.ParseReturns(secs.Returns)
	if err != nil {
		return domain.IR{}, err
	}

	ir.Doc = joinDescription(secs.Description)
	if params != nil {
		ir.Params = params
	}
	ir.Returns = returns
	if err := validate(style, ir); err != nil {
		return domain.IR{}, err
	}
	if err := reconcileAll(&ir, opts.EmitDefaultDoc); err != nil {
		return domain.IR{}, err
	}
	return ir, nil
}

func validate(style domain.Style, ir domain.IR) error {
	seen := make(map[string]bool, len(ir.Params))
	for _, prm := range ir.Params {
		if prm.Name == "" {
			return &SectionError{Style: style, Section: SectionParams, Reason: "parameter without a name"}
		}
		if seen[prm.Name] {
			return &SectionError{Style: style, Section: SectionParams, Reason: "duplicate parameter " + prm.Name}
		}
		seen[prm.Name] = true
	}
	return nil
}

// Render writes ir as a docstring in style. A known default is always
// spelled out as a "Defaults to" clause so it survives the trip.
func (p *Parser) Render(ir domain.IR, style domain.Style) (string, error) {
	if style == domain.StyleNone {
		return wrapDocstring([]string{ir.Doc}), nil
	}
	g, ok := p.byStyle[style]
	if !ok {
		return "", errors.Newf("unknown docstring style %q", style)
	}
	out := ir.Clone()
	for i := range out.Params {
		out.Params[i].Doc = withDefaultClause(out.Params[i])
	}
	if out.Returns != nil {
		out.Returns.Doc = withDefaultClause(*out.Returns)
	}
	return g.Render(out), nil
}
