package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"doctrans/internal/adapter/docstring"
)

var sniffCmd = &cobra.Command{
	Use:   "sniff [file|-]",
	Short: "Report which style a docstring is written in",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		style, err := docstring.Sniff(text)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), style)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sniffCmd)
}
