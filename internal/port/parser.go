package port

import "doctrans/internal/domain"

// DocstringParser turns raw docstring text into IR.
type DocstringParser interface {
	Parse(text string, opts domain.ParseOptions) (domain.IR, error)
}
