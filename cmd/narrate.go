package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/autolysis-cli/internal/correlate"
	"github.com/KaramelBytes/autolysis-cli/internal/dataset"
	"github.com/KaramelBytes/autolysis-cli/internal/narrative"
	"github.com/KaramelBytes/autolysis-cli/internal/profile"
)

var (
	narDelimiter  string
	narDecimal    string
	narThousands  string
	narMaxRows    int
	narSheet      string
	narSheetIndex int
	narModel      string
	narRuntime    string
	narOllamaHost string
	narMaxTokens  int
	narTemp       float64
)

var narrateCmd = &cobra.Command{
	Use:   "narrate [file]",
	Short: "Stream a model-written narrative for a dataset to stdout",
	Long: `Narrate profiles the dataset, summarizes the findings into a prompt, and
streams the model's prose to stdout. Nothing is written to disk.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := parseLoaderOptions(narDelimiter, narDecimal, narThousands, narMaxRows, narSheet, narSheetIndex)
		if err != nil {
			return err
		}
		ds, err := dataset.Load(path, opt)
		if err != nil {
			return err
		}
		tp := profile.Profile(ds)
		m := correlate.Compute(ds)

		rt, providerName, err := buildRuntime(cfg, runtimeOptions{RuntimeFlag: narRuntime, OllamaHost: narOllamaHost})
		if err != nil {
			return err
		}
		model := selectModel(cfg, narModel)
		fmt.Fprintf(os.Stderr, "⚙ Narrating %s with %s/%s ...\n", ds.Name, providerName, model)

		eng := newEngine(rt, model, narMaxTokens, narTemp)
		err = eng.NarrateStream(cmd.Context(), narrative.Summarize(ds, tp, m), func(delta string) {
			fmt.Print(delta)
		})
		if err != nil {
			return hintError(err, providerName, model)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(narrateCmd)
	narrateCmd.Flags().StringVar(&narDelimiter, "delimiter", "", "CSV delimiter: ','|';'|'|'|'tab' (default: auto-detect)")
	narrateCmd.Flags().StringVar(&narDecimal, "decimal-separator", "", "decimal separator: '.'|'comma' (default: auto-detect)")
	narrateCmd.Flags().StringVar(&narThousands, "thousands-separator", "", "thousands separator: ','|'.'|'space'")
	narrateCmd.Flags().IntVar(&narMaxRows, "max-rows", 0, "maximum data rows to read (0 = all)")
	narrateCmd.Flags().StringVar(&narSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	narrateCmd.Flags().IntVar(&narSheetIndex, "sheet-index", 0, "XLSX sheet number, 1-based")
	narrateCmd.Flags().StringVar(&narModel, "model", "", "model to use (default: config default_model)")
	narrateCmd.Flags().StringVar(&narRuntime, "runtime", "", "runtime: aiproxy|ollama (default: config default_provider)")
	narrateCmd.Flags().StringVar(&narOllamaHost, "ollama-host", "", "Ollama host URL for --runtime ollama")
	narrateCmd.Flags().IntVar(&narMaxTokens, "max-tokens", 0, "completion token limit (default: config max_tokens)")
	narrateCmd.Flags().Float64Var(&narTemp, "temp", 0, "sampling temperature (default: config temperature)")
}
