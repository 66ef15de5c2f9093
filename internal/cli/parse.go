package cli

import (
	"github.com/spf13/cobra"

	"doctrans/internal/adapter/docstring"
)

var (
	parseStyle  string
	parseEmit   bool
	parseFormat string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Parse a docstring into its intermediate representation",
	Long: `Parse a docstring and print the intermediate representation.
The style is sniffed unless --style is given.

Examples:
  doctrans parse doc.txt
  doctrans parse --style numpydoc --format yaml - < doc.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseStyle, "style", "s", "", "docstring style hint: rest, google, numpydoc or none")
	parseCmd.Flags().BoolVar(&parseEmit, "emit-default-doc", false, `keep "Defaults to" phrases in doc text`)
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "output format: json, yaml or table")
}

func runParse(cmd *cobra.Command, args []string) error {
	text, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	opts, err := parseOptions(cmd, parseStyle, parseEmit)
	if err != nil {
		return err
	}

	ir, err := docstring.Parse(text, opts)
	if err != nil {
		return err
	}

	format := outputFormat(parseFormat)
	if format == "table" {
		writeIRTable(cmd.OutOrStdout(), ir)
		return nil
	}
	return writeValue(cmd.OutOrStdout(), ir, format)
}
