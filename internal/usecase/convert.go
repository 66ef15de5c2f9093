package usecase

import (
	"github.com/cockroachdb/errors"

	"doctrans/internal/adapter/docstring"
	"doctrans/internal/domain"
	"doctrans/internal/port"
)

// ConvertUseCase rewrites a docstring from one style into another.
type ConvertUseCase struct {
	parser port.DocstringParser
}

// NewConvertUseCase creates a convert use case. A nil parser uses the
// uncached default.
func NewConvertUseCase(parser port.DocstringParser) *ConvertUseCase {
	if parser == nil {
		parser = docstring.NewParser()
	}
	return &ConvertUseCase{parser: parser}
}

// Convert parses text and renders the IR in style to. It returns the
// rendered text along with the IR it came from.
func (u *ConvertUseCase) Convert(text string, to domain.Style, opts domain.ParseOptions) (string, domain.IR, error) {
	if to == "" {
		return "", domain.IR{}, errors.WithHint(
			errors.New("no target style"),
			"pass one of rest, google, numpydoc or none",
		)
	}

	ir, err := u.parser.Parse(text, opts)
	if err != nil {
		return "", domain.IR{}, errors.Wrap(err, "parse")
	}
	out, err := docstring.Render(ir, to)
	if err != nil {
		return "", domain.IR{}, errors.Wrapf(err, "render %s", to)
	}
	return out, ir, nil
}
