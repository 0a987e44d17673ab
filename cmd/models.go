package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/autolysis-cli/internal/narrative"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List known models with context windows and pricing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := narrative.Catalog()
		names := make([]string, 0, len(catalog))
		for name := range catalog {
			names = append(names, name)
		}
		sort.Strings(names)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Model", "Context", "Input $/1K", "Output $/1K"})
		for _, name := range names {
			mi := catalog[name]
			t.AppendRow(table.Row{
				name,
				mi.ContextTokens,
				fmt.Sprintf("%.5f", mi.InputPerK),
				fmt.Sprintf("%.5f", mi.OutputPerK),
			})
		}
		t.Render()

		def := selectModel(cfg, "")
		fmt.Printf("\nDefault model: %s (override with --model or config 'default_model')\n", def)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
