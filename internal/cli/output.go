package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"doctrans/internal/domain"
)

// readInput returns the docstring named by args: a file path, or stdin when
// args is empty or "-".
func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := afero.ReadFile(appFs, args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

// parseOptions builds parse options from the config and the command flags.
// An explicitly set --emit-default-doc wins over the config either way.
func parseOptions(cmd *cobra.Command, styleFlag string, emitFlag bool) (domain.ParseOptions, error) {
	name := cfg.Parse.Style
	if styleFlag != "" {
		name = styleFlag
	}
	style, ok := domain.ParseStyle(name)
	if !ok {
		return domain.ParseOptions{}, fmt.Errorf("unknown style %q", name)
	}
	emit := cfg.Parse.EmitDefaultDoc
	if cmd.Flags().Changed("emit-default-doc") {
		emit = emitFlag
	}
	return domain.ParseOptions{
		Style:          style,
		EmitDefaultDoc: emit,
	}, nil
}

func outputFormat(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Output.Format
}

// writeValue prints v as JSON or YAML.
func writeValue(w io.Writer, v any, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "json", "":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// writeIRTable prints the parameters of ir as a table.
func writeIRTable(w io.Writer, ir domain.IR) {
	if ir.Name != "" {
		fmt.Fprintf(w, "%s (%s)\n", ir.Name, ir.Type)
	}
	if ir.Doc != "" {
		fmt.Fprintln(w, ir.Doc)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Name", "Type", "Default", "Required", "Doc"})
	for _, p := range ir.Params {
		t.AppendRow(table.Row{p.Name, p.Typ, p.Default, p.Required(), truncate(p.Doc, 60)})
	}
	if ir.Returns != nil {
		t.AppendSeparator()
		t.AppendRow(table.Row{ir.Returns.Name, ir.Returns.Typ, ir.Returns.Default, "", truncate(ir.Returns.Doc, 60)})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
