package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/autolysis-cli/internal/utils"
	"github.com/KaramelBytes/autolysis-cli/internal/workspace"
)

var (
	anaOutput         string
	anaDelimiter      string
	anaDecimal        string
	anaThousands      string
	anaMaxRows        int
	anaSheet          string
	anaSheetIndex     int
	anaStats          bool
	anaNoDistribution bool
	anaNarrate        bool
	anaModel          string
	anaRuntime        string
	anaOllamaHost     string
	anaWorkspace      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a dataset and write a markdown report with charts",
	Long: `Analyze loads a CSV or XLSX file, profiles every column, computes pairwise
correlations, renders charts, and writes README.md plus the chart PNGs into
the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := parseLoaderOptions(anaDelimiter, anaDecimal, anaThousands, anaMaxRows, anaSheet, anaSheetIndex)
		if err != nil {
			return err
		}

		outDir := anaOutput
		var ws *workspace.Workspace
		if anaWorkspace != "" {
			dir, err := resolveWorkspaceDirByName(anaWorkspace)
			if err != nil {
				return err
			}
			ws, err = workspace.Load(dir)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = filepath.Join(ws.ReportsDir(), utils.BaseName(path))
			}
		}
		if outDir == "" {
			outDir = utils.BaseName(path)
		}

		res, err := runAnalyze(cmd.Context(), path, outDir, opt, analyzeSettings{
			Stats:          anaStats,
			NoDistribution: anaNoDistribution,
			Narrate:        anaNarrate,
			Model:          anaModel,
			Runtime:        anaRuntime,
			OllamaHost:     anaOllamaHost,
		})
		if err != nil {
			return fmt.Errorf("analyze %s: %w", path, err)
		}

		if ws != nil {
			rel, relErr := filepath.Rel(ws.RootDir(), outDir)
			if relErr != nil {
				rel = outDir
			}
			ws.AddReport(res.Dataset.Name, res.Dataset.Rows, len(res.Dataset.Columns), rel)
			if err := ws.Save(); err != nil {
				return fmt.Errorf("record report in workspace %s: %w", ws.Name, err)
			}
		}

		if res.Dataset.Truncated {
			fmt.Printf("⚠ Row limit reached; analyzed the first %d rows only.\n", res.Dataset.Rows)
		}
		fmt.Printf("✓ Report written to %s (%d rows, %d columns)\n", filepath.Join(outDir, "README.md"), res.Dataset.Rows, len(res.Dataset.Columns))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutput, "output", "o", "", "output directory (default: dataset name without extension)")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ','|';'|'|'|'tab' (default: auto-detect)")
	analyzeCmd.Flags().StringVar(&anaDecimal, "decimal-separator", "", "decimal separator: '.'|'comma' (default: auto-detect)")
	analyzeCmd.Flags().StringVar(&anaThousands, "thousands-separator", "", "thousands separator: ','|'.'|'space'")
	analyzeCmd.Flags().IntVar(&anaMaxRows, "max-rows", 0, "maximum data rows to read (0 = all)")
	analyzeCmd.Flags().StringVar(&anaSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	analyzeCmd.Flags().IntVar(&anaSheetIndex, "sheet-index", 0, "XLSX sheet number, 1-based")
	analyzeCmd.Flags().BoolVar(&anaStats, "stats", false, "include a numeric summary table in the report")
	analyzeCmd.Flags().BoolVar(&anaNoDistribution, "no-distribution", false, "skip the distribution histogram")
	analyzeCmd.Flags().BoolVar(&anaNarrate, "narrate", false, "add a model-written narrative section to the report")
	analyzeCmd.Flags().StringVar(&anaModel, "model", "", "model for --narrate (default: config default_model)")
	analyzeCmd.Flags().StringVar(&anaRuntime, "runtime", "", "narrative runtime: aiproxy|ollama (default: config default_provider)")
	analyzeCmd.Flags().StringVar(&anaOllamaHost, "ollama-host", "", "Ollama host URL for --runtime ollama")
	analyzeCmd.Flags().StringVarP(&anaWorkspace, "workspace", "w", "", "record the report in this workspace")
}
