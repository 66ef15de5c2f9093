package docstring

import (
	"doctrans/internal/domain"
	"doctrans/internal/port"
)

// defaultGrammars returns one grammar per structured style, in sniffing order.
func defaultGrammars() []port.Grammar {
	return []port.Grammar{
		NewReSTGrammar(),
		NewGoogleGrammar(),
		NewNumpydocGrammar(),
	}
}

// sniffLines asks every grammar for its first anchor. No anchor means a
// description-only docstring; anchors from more than one style are rejected.
func sniffLines(grammars []port.Grammar, lines []string) (domain.Style, error) {
	found := domain.StyleNone
	first := -1
	for _, g := range grammars {
		at := g.Sniff(lines)
		if at < 0 {
			continue
		}
		if found != domain.StyleNone {
			a, b := found, g.Style()
			if at < first {
				a, b = b, a
			}
			return "", mixedStyles(a, b)
		}
		found, first = g.Style(), at
	}
	return found, nil
}
