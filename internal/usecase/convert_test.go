package usecase

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctrans/internal/adapter/docstring"
	"doctrans/internal/domain"
)

func TestConvert(t *testing.T) {
	uc := NewConvertUseCase(nil)
	google := "Add numbers.\n\nArgs:\n  a (int): first\n  b (int): second. Defaults to 2\n\nReturns:\n  int: the sum\n"

	out, ir, err := uc.Convert(google, domain.StyleReST, domain.ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, "2", ir.Params[1].Default)

	style, err := docstring.Sniff(out)
	require.NoError(t, err)
	assert.Equal(t, domain.StyleReST, style)

	back, err := docstring.Parse(out, domain.ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, ir, back)
}

func TestConvertErrors(t *testing.T) {
	uc := NewConvertUseCase(docstring.NewParser())

	_, _, err := uc.Convert("text", "", domain.ParseOptions{})
	assert.Error(t, err)

	_, _, err = uc.Convert(":param x: a\n\nArgs:\n  x: a\n", domain.StyleGoogle, domain.ParseOptions{})
	assert.True(t, errors.Is(err, docstring.ErrUnrecognizedFormat))

	_, _, err = uc.Convert("text", domain.Style("markdown"), domain.ParseOptions{})
	assert.Error(t, err)
}
