package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"doctrans/internal/domain"
	"doctrans/internal/usecase"
)

var (
	convertTo    string
	convertStyle string
	convertEmit  bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [file|-]",
	Short: "Rewrite a docstring in another style",
	Long: `Parse a docstring and render it in the target style.

Examples:
  doctrans convert --to numpydoc doc.txt
  doctrans convert --to rest - < doc.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&convertTo, "to", "t", "", "target style: rest, google, numpydoc or none (required)")
	convertCmd.Flags().StringVarP(&convertStyle, "style", "s", "", "source style hint")
	convertCmd.Flags().BoolVar(&convertEmit, "emit-default-doc", false, `keep "Defaults to" phrases in doc text`)
	convertCmd.MarkFlagRequired("to")
}

func runConvert(cmd *cobra.Command, args []string) error {
	to, ok := domain.ParseStyle(convertTo)
	if !ok || to == "" {
		return fmt.Errorf("unknown target style %q", convertTo)
	}
	text, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	opts, err := parseOptions(cmd, convertStyle, convertEmit)
	if err != nil {
		return err
	}

	out, _, err := usecase.NewConvertUseCase(nil).Convert(text, to, opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Trim(out, "\n"))
	return nil
}
