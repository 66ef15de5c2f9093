package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctrans/internal/domain"
)

const googleDoc = `Add numbers.

Args:
  a (int): first
  b (int): second. Defaults to 2

Returns:
  int: the sum
`

const pySource = `def add(a: int, b: int = 2) -> int:
    """Add numbers.

    :param a: first
    :param b: second
    :return: the sum
    """
    return a + b
`

func resetFlags() {
	cfgFile, rootDir, logLevel = "", "", ""
	parseStyle, parseEmit, parseFormat = "", false, ""
	convertTo, convertStyle, convertEmit = "", "", false
	scanJSON, scanNoCache, scanFormat, scanStyle = false, false, "", ""
	scanEmit, scanWorkers, scanProgress = false, 0, true
	for _, c := range []*cobra.Command{parseCmd, convertCmd, scanCmd} {
		c.Flags().Lookup("emit-default-doc").Changed = false
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, googleDoc, "parse", "--dir", dir, "-f", "json", "-")
	require.NoError(t, err)

	var ir domain.IR
	require.NoError(t, json.Unmarshal([]byte(out), &ir))
	assert.Equal(t, "Add numbers.", ir.Doc)
	require.Len(t, ir.Params, 2)
	assert.Equal(t, domain.Param{Name: "b", Typ: "int", Doc: "second.", Default: "2"}, ir.Params[1])
	require.NotNil(t, ir.Returns)
	assert.Equal(t, "int", ir.Returns.Typ)
}

func TestParseCommandFormats(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, googleDoc, "parse", "--dir", dir, "-f", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: a")
	assert.Contains(t, out, `default: "2"`)

	out, err = run(t, googleDoc, "parse", "--dir", dir, "-f", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Add numbers.")
	assert.Contains(t, out, "DEFAULT")
}

func TestParseCommandConfigFormat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doctrans.yaml"), []byte("output:\n  format: yaml\n"), 0644))

	out, err := run(t, googleDoc, "parse", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "name: a")
}

func TestParseCommandEmitDefaultDoc(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doctrans.yaml"), []byte("parse:\n  emit_default_doc: true\n"), 0644))

	var ir domain.IR
	out, err := run(t, googleDoc, "parse", "--dir", dir, "-f", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &ir))
	assert.Equal(t, "second. Defaults to 2", ir.Params[1].Doc)

	out, err = run(t, googleDoc, "parse", "--dir", dir, "-f", "json", "--emit-default-doc=false")
	require.NoError(t, err)
	ir = domain.IR{}
	require.NoError(t, json.Unmarshal([]byte(out), &ir))
	assert.Equal(t, "second.", ir.Params[1].Doc)
	assert.Equal(t, "2", ir.Params[1].Default)

	out, err = run(t, googleDoc, "parse", "--dir", t.TempDir(), "-f", "json", "--emit-default-doc")
	require.NoError(t, err)
	ir = domain.IR{}
	require.NoError(t, json.Unmarshal([]byte(out), &ir))
	assert.Equal(t, "second. Defaults to 2", ir.Params[1].Doc)
}

func TestParseCommandErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, ":param x: a\n\nArgs:\n  x: a\n", "parse", "--dir", dir)
	assert.Error(t, err)

	_, err = run(t, googleDoc, "parse", "--dir", dir, "--style", "markdown")
	assert.Error(t, err)

	_, err = run(t, "", "parse", "--dir", dir, filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, googleDoc, "convert", "--dir", dir, "--to", "numpydoc")
	require.NoError(t, err)
	assert.Contains(t, out, "Parameters\n----------\n")
	assert.Contains(t, out, "b : int\n    second. Defaults to 2")
	assert.True(t, strings.HasPrefix(out, "Add numbers."))

	_, err = run(t, googleDoc, "convert", "--dir", dir, "--to", "markdown")
	assert.Error(t, err)
}

func TestSniffCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte(":param x: the x\n"), 0644))

	out, err := run(t, "", "sniff", "--dir", dir, path)
	require.NoError(t, err)
	assert.Equal(t, "rest\n", out)

	out, err = run(t, "just words", "sniff", "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "none\n", out)
}

func TestScanCommandJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "math.py"), []byte(pySource), 0644))

	out, err := run(t, "", "scan", "--dir", dir, "--json", "--no-cache", dir)
	require.NoError(t, err)

	var result domain.ScanResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.FilesScanned)
	assert.Equal(t, 1, result.SymbolsParsed)
	require.Len(t, result.Symbols, 1)
	sym := result.Symbols[0]
	assert.Equal(t, "add", sym.Symbol)
	assert.Equal(t, domain.StyleReST, sym.Style)
	require.NotNil(t, sym.IR)
	assert.Equal(t, "2", sym.IR.Params[1].Default)

	_, err = os.Stat(filepath.Join(dir, ".doctrans"))
	assert.True(t, os.IsNotExist(err))
}

func TestScanCommandCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "math.py"), []byte(pySource), 0644))

	out, err := run(t, "", "cache", "stats", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No cache found")

	out, err = run(t, "", "scan", "--dir", dir, "--progress=false")
	require.NoError(t, err)
	assert.Contains(t, out, "math.py:1")
	assert.Contains(t, out, "Files skipped:   0")

	out, err = run(t, "", "scan", "--dir", dir, "--progress=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Files skipped:   1")

	out, err = run(t, "", "cache", "stats", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Files:          1")
	assert.Contains(t, out, "Parsed IRs:     1")

	out, err = run(t, "", "cache", "clear", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Cache cleared.")

	out, err = run(t, "", "scan", "--dir", dir, "--progress=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Files skipped:   0")
}

func TestScanCommandNotADirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "math.py")
	require.NoError(t, os.WriteFile(path, []byte(pySource), 0644))

	_, err := run(t, "", "scan", "--dir", dir, path)
	assert.Error(t, err)
}
