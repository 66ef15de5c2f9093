package usecase

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctrans/internal/adapter/cache"
	"doctrans/internal/adapter/docstring"
	"doctrans/internal/adapter/fs"
	"doctrans/internal/adapter/pysource"
	"doctrans/internal/adapter/store"
	"doctrans/internal/domain"
)

const mathSource = `def add(a: int, b: int = 2) -> int:
    """Add numbers.

    Args:
        a (int): first
        b (int): second. Defaults to 2

    Returns:
        int: the sum
    """
    return a + b


def broken(x=1):
    """Broken.

    :param x: the x. Defaults to 5
    """


def plain(y):
    pass
`

const brokenSource = "def f():\n    \"\"\"never closed\n"

func newMemTree(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	mem := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(mem, path, []byte(content), 0644))
	}
	return mem
}

func newScan(mem afero.Fs, opts domain.ParseOptions, workers int) *ScanUseCase {
	return NewScanUseCase(
		fs.NewWalker(mem, nil, nil),
		pysource.NewScanner(),
		docstring.NewParser(),
		nil,
		opts,
		workers,
		nil,
	)
}

func TestScan(t *testing.T) {
	mem := newMemTree(t, map[string]string{
		"/proj/pkg/math.py":   mathSource,
		"/proj/pkg/broken.py": brokenSource,
		"/proj/README.md":     "# not python",
	})

	var calls, lastProcessed, lastTotal int
	result, err := newScan(mem, domain.ParseOptions{}, 4).Scan(context.Background(), "/proj", func(processed, total int, path string) {
		calls++
		lastProcessed, lastTotal = processed, total
	})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, lastProcessed)
	assert.Equal(t, 2, lastTotal)

	assert.Equal(t, 2, result.FilesScanned)
	assert.Equal(t, 2, result.SymbolsParsed)
	assert.Equal(t, 1, result.SymbolsFailed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "broken.py")

	require.Len(t, result.Symbols, 3)

	add := result.Symbols[0]
	assert.Equal(t, "add", add.Symbol)
	assert.Equal(t, domain.SymbolFunction, add.Kind)
	assert.Equal(t, 1, add.Line)
	assert.Equal(t, domain.StyleGoogle, add.Style)
	assert.Empty(t, add.Err)
	require.NotNil(t, add.IR)
	assert.Equal(t, "add", add.IR.Name)
	assert.Equal(t, "Add numbers.", add.IR.Doc)
	require.Len(t, add.IR.Params, 2)
	assert.Equal(t, domain.Param{Name: "a", Typ: "int", Doc: "first"}, add.IR.Params[0])
	assert.Equal(t, "2", add.IR.Params[1].Default)
	require.NotNil(t, add.IR.Returns)
	assert.Equal(t, "int", add.IR.Returns.Typ)
	assert.Equal(t, "the sum", add.IR.Returns.Doc)

	broken := result.Symbols[1]
	assert.Equal(t, "broken", broken.Symbol)
	assert.Nil(t, broken.IR)
	assert.Contains(t, broken.Err, "x")

	plain := result.Symbols[2]
	assert.Equal(t, "plain", plain.Symbol)
	assert.Empty(t, plain.Style)
	require.NotNil(t, plain.IR)
	assert.Equal(t, []domain.Param{{Name: "y"}}, plain.IR.Params)
	assert.Empty(t, plain.IR.Doc)
}

func TestScanSkipsUnchangedFiles(t *testing.T) {
	mem := newMemTree(t, map[string]string{"/proj/math.py": mathSource})
	st, err := store.NewBoltStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer st.Close()

	uc := newScan(mem, domain.ParseOptions{}, 2)
	uc.files = st

	first, err := uc.Scan(context.Background(), "/proj", nil)
	require.NoError(t, err)
	assert.Zero(t, first.FilesSkipped)

	second, err := uc.Scan(context.Background(), "/proj", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, second.FilesSkipped)
	assert.Equal(t, first.Symbols, second.Symbols)
	assert.Equal(t, first.SymbolsFailed, second.SymbolsFailed)

	require.NoError(t, afero.WriteFile(mem, "/proj/math.py", []byte("def only():\n    \"\"\"Only.\"\"\"\n"), 0644))
	third, err := uc.Scan(context.Background(), "/proj", nil)
	require.NoError(t, err)
	assert.Zero(t, third.FilesSkipped)
	require.Len(t, third.Symbols, 1)
	assert.Equal(t, "only", third.Symbols[0].Symbol)
}

func TestScanCountsCacheHits(t *testing.T) {
	src := "def a(x):\n    \"\"\"Same.\n\n    :param x: the x\n    \"\"\"\n\n\ndef b(x):\n    \"\"\"Same.\n\n    :param x: the x\n    \"\"\"\n"
	mem := newMemTree(t, map[string]string{"/proj/dup.py": src})

	uc := newScan(mem, domain.ParseOptions{}, 1)
	uc.parser = cache.NewCachedParser(docstring.NewParser(), cache.NewParseCache(16), nil)

	result, err := uc.Scan(context.Background(), "/proj", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CacheHits)
	assert.Equal(t, 2, result.SymbolsParsed)
	assert.Equal(t, "a", result.Symbols[0].IR.Name)
	assert.Equal(t, "b", result.Symbols[1].IR.Name)
}

func TestScanStyleHint(t *testing.T) {
	mem := newMemTree(t, map[string]string{"/proj/m.py": "def f():\n    \"\"\"Plain text.\"\"\"\n"})

	result, err := newScan(mem, domain.ParseOptions{Style: domain.StyleNumpydoc}, 1).Scan(context.Background(), "/proj", nil)
	require.NoError(t, err)
	require.Len(t, result.Symbols, 1)
	assert.Equal(t, domain.StyleNumpydoc, result.Symbols[0].Style)
}

func TestScanCancelled(t *testing.T) {
	mem := newMemTree(t, map[string]string{"/proj/math.py": mathSource})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newScan(mem, domain.ParseOptions{}, 1).Scan(ctx, "/proj", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanMissingRoot(t *testing.T) {
	_, err := newScan(afero.NewMemMapFs(), domain.ParseOptions{}, 1).Scan(context.Background(), "/nowhere", nil)
	assert.Error(t, err)
}
