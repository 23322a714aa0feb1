package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scantools/zxbridge"
)

const (
	outputFormatJSON = "json"
	outputFormatText = "text"
)

// scanResult pairs a file with its decode results for JSON output.
type scanResult struct {
	File    string                `json:"file"`
	Results []zxbridge.ReadResult `json:"results"`
	Count   int                   `json:"count"`
}

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan [files...]",
	Short: "Decode barcodes from image files",
	Long: `Decode barcodes from one or more image files.

Supported formats: PNG, JPEG, GIF, BMP, TIFF, WebP

Examples:
  zxbridge scan photo.jpg
  zxbridge scan *.png --format json
  zxbridge scan label.png --try-harder --formats QR_CODE,EAN_13 --max-symbols 5`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()
		tryHarder := cfg.Decode.TryHarder
		formats := cfg.Decode.Formats
		maxSymbols := cfg.Decode.MaxSymbols
		outputFormat, _ := cmd.Flags().GetString("format")

		if outputFormat != outputFormatJSON && outputFormat != outputFormatText {
			return fmt.Errorf("invalid output format: %s (must be json or text)", outputFormat)
		}

		reader := zxbridge.NewReader()
		reader.ReturnErrors = cfg.Decode.ReturnErrors

		scans := make([]scanResult, 0, len(args))
		anyFound := false
		for _, path := range args {
			data, err := os.ReadFile(path) //nolint:gosec // G304: Reading user-provided image file path is expected
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			results := reader.ReadBarcodesFromImage(data, tryHarder, formats, maxSymbols)
			if len(results) > 0 && results[0].Error == "" {
				anyFound = true
			}
			scans = append(scans, scanResult{File: path, Results: results, Count: len(results)})
		}

		switch outputFormat {
		case outputFormatJSON:
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(scans); err != nil {
				return fmt.Errorf("encoding results: %w", err)
			}
		default:
			printTextResults(cmd, scans)
		}

		if !anyFound {
			// Mirror the convention of scanning tools: success exit
			// only when something was decoded.
			return errors.New("no barcodes found")
		}
		return nil
	},
}

func printTextResults(cmd *cobra.Command, scans []scanResult) {
	out := cmd.OutOrStdout()
	for _, scan := range scans {
		_, _ = fmt.Fprintf(out, "%s:\n", scan.File)
		if scan.Count == 0 {
			_, _ = fmt.Fprintln(out, "  no barcodes found")
			continue
		}
		for _, res := range scan.Results {
			if res.Error != "" {
				_, _ = fmt.Fprintf(out, "  error: %s\n", res.Error)
				continue
			}
			_, _ = fmt.Fprintf(out, "  %s %s: %s\n", res.Format, res.SymbologyIdentifier, res.Text)
			_, _ = fmt.Fprintf(out, "    position: (%d,%d) (%d,%d) (%d,%d) (%d,%d)\n",
				res.Position.TopLeft.X, res.Position.TopLeft.Y,
				res.Position.TopRight.X, res.Position.TopRight.Y,
				res.Position.BottomRight.X, res.Position.BottomRight.Y,
				res.Position.BottomLeft.X, res.Position.BottomLeft.Y)
		}
	}
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Bool("try-harder", false, "spend more time searching (enables rotation, inversion and downscale trials)")
	scanCmd.Flags().String("formats", "", "comma-separated list of formats to search (empty = all)")
	scanCmd.Flags().Int("max-symbols", 1, "maximum number of symbols to decode per image")
	scanCmd.Flags().String("format", outputFormatText, "output format (text, json)")

	_ = viper.BindPFlag("decode.try_harder", scanCmd.Flags().Lookup("try-harder"))
	_ = viper.BindPFlag("decode.formats", scanCmd.Flags().Lookup("formats"))
	_ = viper.BindPFlag("decode.max_symbols", scanCmd.Flags().Lookup("max-symbols"))
}
