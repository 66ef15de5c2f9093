package port

import "doctrans/internal/domain"

// Line is one docstring line with its 1-based position.
type Line struct {
	No   int
	Text string
}

// Sections is a docstring split into description, parameter and return blocks.
// Params and Returns are nil when the block is absent.
type Sections struct {
	Description []string
	Params      []Line
	Returns     []Line
}

// Grammar is one docstring convention. Each style is a self-contained
// implementation; shared code never branches on style tags.
type Grammar interface {
	// Style returns the convention this grammar handles.
	Style() domain.Style

	// Sniff returns the index of the first line carrying an anchor of this
	// style, or -1.
	Sniff(lines []string) int

	// Split separates the dedented docstring lines into sections.
	Split(lines []string) (Sections, error)

	// ParseParams turns the parameter block into ordered records.
	ParseParams(block []Line) ([]domain.Param, error)

	// ParseReturns turns the return block into at most one record.
	ParseReturns(block []Line) (*domain.Param, error)

	// Render writes the IR back out in this style.
	Render(ir domain.IR) string
}
