package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scantools/zxbridge"
)

// formatsCmd lists the supported barcode formats.
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported barcode formats",
	Long: `List the canonical names of all supported barcode formats. These
names are accepted by the --formats filter and appear verbatim in
decode results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range zxbridge.FormatNames() {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
