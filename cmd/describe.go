package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/autolysis-cli/internal/dataset"
	"github.com/KaramelBytes/autolysis-cli/internal/profile"
)

var (
	descDelimiter  string
	descDecimal    string
	descThousands  string
	descMaxRows    int
	descSheet      string
	descSheetIndex int
	descFormat     string
)

var describeCmd = &cobra.Command{
	Use:   "describe [file]",
	Short: "Print per-column profiles without writing a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := parseLoaderOptions(descDelimiter, descDecimal, descThousands, descMaxRows, descSheet, descSheetIndex)
		if err != nil {
			return err
		}
		ds, err := dataset.Load(path, opt)
		if err != nil {
			return err
		}
		tp := profile.Profile(ds)

		t := tp.Table()
		t.SetOutputMirror(os.Stdout)
		switch descFormat {
		case "table":
			t.Render()
		case "markdown":
			t.RenderMarkdown()
		case "csv":
			t.RenderCSV()
		default:
			return fmt.Errorf("unsupported --format: %s (use table|markdown|csv)", descFormat)
		}
		if ds.Truncated {
			fmt.Fprintf(os.Stderr, "⚠ Row limit reached; profiled the first %d rows only.\n", ds.Rows)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVar(&descDelimiter, "delimiter", "", "CSV delimiter: ','|';'|'|'|'tab' (default: auto-detect)")
	describeCmd.Flags().StringVar(&descDecimal, "decimal-separator", "", "decimal separator: '.'|'comma' (default: auto-detect)")
	describeCmd.Flags().StringVar(&descThousands, "thousands-separator", "", "thousands separator: ','|'.'|'space'")
	describeCmd.Flags().IntVar(&descMaxRows, "max-rows", 0, "maximum data rows to read (0 = all)")
	describeCmd.Flags().StringVar(&descSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	describeCmd.Flags().IntVar(&descSheetIndex, "sheet-index", 0, "XLSX sheet number, 1-based")
	describeCmd.Flags().StringVar(&descFormat, "format", "table", "output format: table|markdown|csv")
}
