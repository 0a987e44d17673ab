package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/autolysis-cli/internal/utils"
	"github.com/KaramelBytes/autolysis-cli/internal/workspace"
)

var (
	abOutput         string
	abDelimiter      string
	abDecimal        string
	abThousands      string
	abMaxRows        int
	abStats          bool
	abNoDistribution bool
	abNarrate        bool
	abModel          string
	abRuntime        string
	abOllamaHost     string
	abWorkspace      string
	abQuiet          bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/XLSX files with progress",
	Long: `Analyze-batch expands the given globs and analyzes every matching file,
writing each report into its own directory. A failing file does not stop the
run; failures are listed at the end and the command exits nonzero if any
occurred.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// treat as literal path if exists
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		sort.Strings(files)

		opt, err := parseLoaderOptions(abDelimiter, abDecimal, abThousands, abMaxRows, "", 0)
		if err != nil {
			return err
		}

		outRoot := abOutput
		var ws *workspace.Workspace
		if abWorkspace != "" {
			dir, err := resolveWorkspaceDirByName(abWorkspace)
			if err != nil {
				return err
			}
			ws, err = workspace.Load(dir)
			if err != nil {
				return err
			}
			if outRoot == "" {
				outRoot = ws.ReportsDir()
			}
		}

		settings := analyzeSettings{
			Stats:          abStats,
			NoDistribution: abNoDistribution,
			Narrate:        abNarrate,
			Model:          abModel,
			Runtime:        abRuntime,
			OllamaHost:     abOllamaHost,
			Quiet:          abQuiet,
		}

		var failed []string
		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			outDir := utils.BaseName(path)
			if outRoot != "" {
				outDir = filepath.Join(outRoot, outDir)
			}
			if cand := uniqueDir(outDir); cand != outDir {
				if !abQuiet {
					fmt.Printf("⚠ Output %s exists, writing to %s to avoid overwrite.\n", outDir, cand)
				}
				outDir = cand
			}

			res, err := runAnalyze(cmd.Context(), path, outDir, opt, settings)
			if err != nil {
				failed = append(failed, path)
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", path, err)
				continue
			}
			if ws != nil {
				rel, relErr := filepath.Rel(ws.RootDir(), outDir)
				if relErr != nil {
					rel = outDir
				}
				ws.AddReport(res.Dataset.Name, res.Dataset.Rows, len(res.Dataset.Columns), rel)
			}
			if !abQuiet {
				fmt.Printf("✓ %s (%d rows, %d columns)\n", filepath.Join(outDir, "README.md"), res.Dataset.Rows, len(res.Dataset.Columns))
			}
		}

		if ws != nil {
			if err := ws.Save(); err != nil {
				return fmt.Errorf("record reports in workspace %s: %w", ws.Name, err)
			}
		}

		if len(failed) > 0 {
			return fmt.Errorf("%d of %d files failed: %v", len(failed), total, failed)
		}
		if !abQuiet {
			fmt.Printf("✓ Analyzed %d files\n", total)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVarP(&abOutput, "output", "o", "", "root directory for per-dataset output directories")
	analyzeBatchCmd.Flags().StringVar(&abDelimiter, "delimiter", "", "CSV delimiter: ','|';'|'|'|'tab' (default: auto-detect)")
	analyzeBatchCmd.Flags().StringVar(&abDecimal, "decimal-separator", "", "decimal separator: '.'|'comma' (default: auto-detect)")
	analyzeBatchCmd.Flags().StringVar(&abThousands, "thousands-separator", "", "thousands separator: ','|'.'|'space'")
	analyzeBatchCmd.Flags().IntVar(&abMaxRows, "max-rows", 0, "maximum data rows to read per file (0 = all)")
	analyzeBatchCmd.Flags().BoolVar(&abStats, "stats", false, "include a numeric summary table in each report")
	analyzeBatchCmd.Flags().BoolVar(&abNoDistribution, "no-distribution", false, "skip the distribution histograms")
	analyzeBatchCmd.Flags().BoolVar(&abNarrate, "narrate", false, "add a model-written narrative section to each report")
	analyzeBatchCmd.Flags().StringVar(&abModel, "model", "", "model for --narrate (default: config default_model)")
	analyzeBatchCmd.Flags().StringVar(&abRuntime, "runtime", "", "narrative runtime: aiproxy|ollama (default: config default_provider)")
	analyzeBatchCmd.Flags().StringVar(&abOllamaHost, "ollama-host", "", "Ollama host URL for --runtime ollama")
	analyzeBatchCmd.Flags().StringVarP(&abWorkspace, "workspace", "w", "", "record the reports in this workspace")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress per-file progress output")
}
