package docstring

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"doctrans/internal/domain"
	"doctrans/internal/port"
)

// Sentinel errors; match with errors.Is.
var (
	ErrUnrecognizedFormat = errors.New("unrecognized docstring format")
	ErrMalformedSection   = errors.New("malformed docstring section")
	ErrAmbiguousDefault   = errors.New("ambiguous default value")
)

// Section names used in SectionError.
const (
	SectionDescription = "description"
	SectionParams      = "params"
	SectionReturns     = "returns"
)

// SectionError reports a line that does not fit the grammar of its section.
type SectionError struct {
	Style   domain.Style
	Section string
	LineNo  int
	Line    string
	Reason  string
}

func (e *SectionError) Error() string {
	if e.LineNo == 0 {
		return fmt.Sprintf("%s: %s %s section: %s", ErrMalformedSection, e.Style, e.Section, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s section, line %d: %s: %q",
		ErrMalformedSection, e.Style, e.Section, e.LineNo, e.Reason, strings.TrimSpace(e.Line))
}

func (e *SectionError) Unwrap() error { return ErrMalformedSection }

func sectionError(style domain.Style, section string, l port.Line, reason string) error {
	return &SectionError{Style: style, Section: section, LineNo: l.No, Line: l.Text, Reason: reason}
}

// DefaultConflictError reports a "Defaults to" value that disagrees with a
// default already known from another source.
type DefaultConflictError struct {
	Name  string
	Known string
	Found string
}

func (e *DefaultConflictError) Error() string {
	return fmt.Sprintf("%s: parameter %q has default %s but its doc says %s", ErrAmbiguousDefault, e.Name, e.Known, e.Found)
}

func (e *DefaultConflictError) Unwrap() error { return ErrAmbiguousDefault }

func mixedStyles(a, b domain.Style) error {
	err := errors.Wrapf(ErrUnrecognizedFormat, "docstring mixes %s and %s anchors", a, b)
	return errors.WithHint(err, "use a single docstring convention per symbol")
}
